package service

import (
	"context"
	"fmt"

	"github.com/fjod/go_order/internal/domain"
	"github.com/fjod/go_order/internal/events"
	"github.com/fjod/go_order/internal/payment"
)

// PayOrder runs the order's payment strategy and feeds the boolean outcome
// into HandlePaymentResult. A gateway transport error aborts without any
// state transition: the outcome is simply unknown.
func (s *OrderService) PayOrder(ctx context.Context, order *domain.Order, details payment.Details) (*domain.Order, error) {
	settled, err := s.payments.Pay(ctx, order, payment.Method(order.PaymentMethod), details)
	if err != nil {
		return nil, fmt.Errorf("payment dispatch: %w", err)
	}

	return s.HandlePaymentResult(ctx, order, settled)
}

// HandlePaymentResult applies a resolved payment attempt to the order.
// Success moves it to PAID and clears the ordered products from the user's
// cart; failure moves it to FAILED regardless of its prior status. The
// updated order is always persisted and returned.
func (s *OrderService) HandlePaymentResult(ctx context.Context, order *domain.Order, succeeded bool) (*domain.Order, error) {
	if succeeded {
		order.MarkPaid()
	} else {
		order.MarkFailed()
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist payment outcome: %w", err)
	}

	if succeeded {
		// Cart cleanup is cosmetic once the order is paid; a failure here
		// must not fail the payment result.
		if err := s.carts.RemoveItems(ctx, order.UserID, order.ProductIDs()); err != nil {
			s.logger.Warn("failed to clear ordered items from cart",
				"order_id", order.ID,
				"user_id", order.UserID,
				"error", err)
		}
	}

	s.publish(ctx, events.FromOrder(events.TypeOrderStatusChanged, order))
	s.logger.Info("payment result applied",
		"order_id", order.ID,
		"succeeded", succeeded,
		"status", order.Status)

	return order, nil
}
