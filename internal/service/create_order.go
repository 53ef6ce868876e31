package service

import (
	"context"
	"fmt"

	"github.com/fjod/go_order/internal/domain"
	"github.com/fjod/go_order/internal/events"
	"github.com/fjod/go_order/internal/inventory"
	"github.com/fjod/go_order/internal/payment"
)

// reservedLine tracks a stock decrement so it can be unwound when a later
// step of the same call fails.
type reservedLine struct {
	productID int64
	quantity  int32
}

// CreateOrder turns the user's cart into a persisted PENDING order.
// The operation is all-or-nothing: any failure releases every stock
// reservation made so far and leaves no order behind.
//
// When selectedItemIDs is empty the whole cart is ordered; otherwise only
// the cart items whose product id is in the set.
func (s *OrderService) CreateOrder(
	ctx context.Context,
	userID, shippingAddress string,
	method payment.Method,
	selectedItemIDs []int64,
) (*domain.Order, error) {

	// The registry is the single source of truth for supported methods;
	// reject before touching the cart or the catalog.
	if !s.payments.Supported(method) {
		return nil, payment.ErrUnsupportedPaymentMethod
	}

	userCart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(userCart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items := userCart.Items
	if len(selectedItemIDs) > 0 {
		selected := make(map[int64]bool, len(selectedItemIDs))
		for _, id := range selectedItemIDs {
			selected[id] = true
		}

		filtered := items[:0:0]
		for _, item := range items {
			if selected[item.ProductID] {
				filtered = append(filtered, item)
			}
		}
		if len(filtered) == 0 {
			return nil, ErrNoMatchingItems
		}
		items = filtered
	}

	// Reserve stock line by line, in cart order. Reservations already made
	// are released in reverse when any later line fails.
	var reserved []reservedLine
	lines := make([]domain.OrderLine, 0, len(items))
	for _, item := range items {
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			s.releaseReserved(ctx, reserved)
			return nil, fmt.Errorf("product %d: %w", item.ProductID, err)
		}

		if item.Quantity > product.Stock {
			s.releaseReserved(ctx, reserved)
			return nil, fmt.Errorf("product %q: %w", product.Name, inventory.ErrInsufficientStock)
		}

		if err := s.guard.Reserve(ctx, product.ID, item.Quantity); err != nil {
			s.releaseReserved(ctx, reserved)
			return nil, fmt.Errorf("product %q: %w", product.Name, err)
		}
		reserved = append(reserved, reservedLine{productID: product.ID, quantity: item.Quantity})

		lines = append(lines, domain.OrderLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
			ImageURL:    product.ImageURL,
		})
	}

	order := domain.NewOrder(userID, shippingAddress, method.String(), lines)

	saved, err := s.orders.Save(ctx, order)
	if err != nil {
		s.releaseReserved(ctx, reserved)
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	s.publish(ctx, events.FromOrder(events.TypeOrderCreated, saved))
	s.logger.Info("order created",
		"order_id", saved.ID,
		"user_id", userID,
		"lines", len(saved.Lines),
		"total", saved.TotalAmount)

	return saved, nil
}

// releaseReserved unwinds stock decrements in reverse order. Release
// failures are logged, not returned: the creation error that triggered the
// unwind is the one the caller needs.
func (s *OrderService) releaseReserved(ctx context.Context, reserved []reservedLine) {
	for i := len(reserved) - 1; i >= 0; i-- {
		r := reserved[i]
		if err := s.guard.Release(ctx, r.productID, r.quantity); err != nil {
			s.logger.Error("failed to release reserved stock",
				"product_id", r.productID,
				"quantity", r.quantity,
				"error", err)
		}
	}
}

// publish delivers an order event best effort.
func (s *OrderService) publish(ctx context.Context, event events.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish order event",
			"event_type", event.Type,
			"order_id", event.OrderID,
			"error", err)
	}
}
