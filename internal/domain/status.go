package domain

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipping  OrderStatus = "SHIPPING"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
	StatusFailed    OrderStatus = "FAILED"
)

// processNext is the forward transition table. A status missing from the
// table cannot be advanced.
var processNext = map[OrderStatus]OrderStatus{
	StatusPending:  StatusPaid,
	StatusPaid:     StatusShipping,
	StatusShipping: StatusDelivered,
}

// transitionMessage is the history note appended when a status is entered.
var transitionMessage = map[OrderStatus]string{
	StatusPending:   "order created",
	StatusPaid:      "payment confirmed",
	StatusShipping:  "order handed to shipping",
	StatusDelivered: "order delivered",
	StatusCancelled: "order cancelled",
	StatusFailed:    "payment failed",
}

// IsTerminal reports whether no further Process/Cancel transition is legal.
// FAILED is terminal too: it is entered only through the payment outcome
// path and there is no retry transition back to PENDING.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusFailed
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}
