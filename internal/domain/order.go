package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// loyaltyRate is how many currency units earn one loyalty point.
const loyaltyRate = 10.0

// OrderLine is an immutable snapshot of one purchased product taken at
// order-creation time. Unit price is authoritative even if the catalog
// price changes later.
type OrderLine struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int32   `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	ImageURL    string  `json:"image_url"`
}

// StatusChange is one entry of the order's audit trail.
type StatusChange struct {
	Status    OrderStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	Message   string      `json:"message"`
}

type Order struct {
	ID                uuid.UUID
	UserID            string
	Lines             []OrderLine
	TotalAmount       float64
	CouponCode        string
	CouponDiscount    float64
	LoyaltyPointsUsed int
	LoyaltyDiscount   float64
	PaymentMethod     string
	ShippingAddress   string
	Status            OrderStatus
	History           []StatusChange
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewOrder builds a PENDING order from already-snapshotted lines. The total
// is fixed here and never recomputed from the lines afterwards. The history
// starts with the creation entry, so it is never empty.
func NewOrder(userID, shippingAddress, paymentMethod string, lines []OrderLine) *Order {
	var total float64
	for _, l := range lines {
		total += l.UnitPrice * float64(l.Quantity)
	}

	now := time.Now()
	return &Order{
		UserID:          userID,
		Lines:           lines,
		TotalAmount:     total,
		PaymentMethod:   paymentMethod,
		ShippingAddress: shippingAddress,
		Status:          StatusPending,
		History: []StatusChange{{
			Status:    StatusPending,
			Timestamp: now,
			Message:   transitionMessage[StatusPending],
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// enter moves the order to status and appends the matching history entry.
func (o *Order) enter(status OrderStatus) {
	now := time.Now()
	o.Status = status
	o.UpdatedAt = now
	o.History = append(o.History, StatusChange{
		Status:    status,
		Timestamp: now,
		Message:   transitionMessage[status],
	})
}

// Process advances the order one step along PENDING → PAID → SHIPPING →
// DELIVERED. It reports false and leaves the order untouched when no
// forward transition exists from the current status.
func (o *Order) Process() bool {
	next, ok := processNext[o.Status]
	if !ok {
		return false
	}
	o.enter(next)
	return true
}

// Cancel moves any non-terminal order to CANCELLED. A real system would
// gate this on refund/return approval for PAID and SHIPPING orders.
func (o *Order) Cancel() bool {
	if o.Status.IsTerminal() {
		return false
	}
	o.enter(StatusCancelled)
	return true
}

// MarkPaid records a successful payment. Equivalent in effect to Process
// from PENDING; kept separate because the payment outcome path assigns the
// status directly.
func (o *Order) MarkPaid() {
	o.enter(StatusPaid)
}

// MarkFailed records a failed payment attempt. Reachable from any status:
// this is the side-channel failure path, not a Process/Cancel transition.
func (o *Order) MarkFailed() {
	o.enter(StatusFailed)
}

// ApplyCoupon records a coupon adjustment. Discount validity against the
// total is the caller's concern.
func (o *Order) ApplyCoupon(code string, discount float64) {
	o.CouponCode = code
	o.CouponDiscount = discount
	o.UpdatedAt = time.Now()
}

// UseLoyaltyPoints records consumed loyalty points and their discount.
func (o *Order) UseLoyaltyPoints(points int, discount float64) {
	o.LoyaltyPointsUsed = points
	o.LoyaltyDiscount = discount
	o.UpdatedAt = time.Now()
}

// FinalAmount is total minus coupon and loyalty discounts. The value is not
// clamped at zero; discount validation lives with the collaborator that
// issues the discounts.
func (o *Order) FinalAmount() float64 {
	return o.TotalAmount - o.CouponDiscount - o.LoyaltyDiscount
}

// LoyaltyPointsEarned derives earned points from the final amount at call
// time, one point per 10 currency units. Never stored.
func (o *Order) LoyaltyPointsEarned() int {
	earned := int(math.Floor(o.FinalAmount() / loyaltyRate))
	if earned < 0 {
		return 0
	}
	return earned
}

// ProductIDs lists the product ids of every order line, in line order.
func (o *Order) ProductIDs() []int64 {
	ids := make([]int64, len(o.Lines))
	for i, l := range o.Lines {
		ids[i] = l.ProductID
	}
	return ids
}
