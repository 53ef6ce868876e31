package service

import (
	"log/slog"

	"github.com/fjod/go_order/internal/cart"
	"github.com/fjod/go_order/internal/catalog"
	"github.com/fjod/go_order/internal/events"
	"github.com/fjod/go_order/internal/inventory"
	"github.com/fjod/go_order/internal/payment"
	"github.com/fjod/go_order/internal/repository"
)

// OrderService sequences the collaborators behind one business operation:
// order creation, payment dispatch and the payment outcome transition.
// The collaborators never see each other.
type OrderService struct {
	carts    cart.Store
	catalog  catalog.Store
	guard    inventory.Guard
	orders   repository.OrderRepository
	payments *payment.Registry
	events   events.Publisher
	logger   *slog.Logger
}

func NewOrderService(
	carts cart.Store,
	cat catalog.Store,
	guard inventory.Guard,
	orders repository.OrderRepository,
	payments *payment.Registry,
	publisher events.Publisher,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		carts:    carts,
		catalog:  cat,
		guard:    guard,
		orders:   orders,
		payments: payments,
		events:   publisher,
		logger:   logger,
	}
}
