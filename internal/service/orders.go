package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fjod/go_order/internal/domain"
	"github.com/fjod/go_order/internal/events"
)

// AdvanceOrder moves an order one step forward (PENDING→PAID→SHIPPING→
// DELIVERED). The boolean reports whether the transition was legal from
// the order's current status; an illegal transition is not an error.
func (s *OrderService) AdvanceOrder(ctx context.Context, id uuid.UUID) (*domain.Order, bool, error) {
	return s.transition(ctx, id, (*domain.Order).Process)
}

// CancelOrder cancels an order when its current status allows it.
func (s *OrderService) CancelOrder(ctx context.Context, id uuid.UUID) (*domain.Order, bool, error) {
	return s.transition(ctx, id, (*domain.Order).Cancel)
}

func (s *OrderService) transition(ctx context.Context, id uuid.UUID, op func(*domain.Order) bool) (*domain.Order, bool, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	if !op(order) {
		return order, false, nil
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, false, fmt.Errorf("failed to persist transition: %w", err)
	}

	s.publish(ctx, events.FromOrder(events.TypeOrderStatusChanged, order))
	return order, true, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orders.FindByID(ctx, id)
}

func (s *OrderService) ListOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.orders.FindByUserID(ctx, userID)
}

func (s *OrderService) ListOrdersBetween(ctx context.Context, from, to time.Time) ([]*domain.Order, error) {
	return s.orders.FindByCreatedAtBetween(ctx, from, to)
}
