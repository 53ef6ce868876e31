package events

import (
	"context"
	"time"

	"github.com/fjod/go_order/internal/domain"
	"github.com/google/uuid"
)

const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
)

// Event is the payload published after an order is persisted or changes
// status. Downstream consumers (notifications, reporting) live outside
// this module.
type Event struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id"`
	Status      string    `json:"status"`
	TotalAmount float64   `json:"total_amount"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher delivers order events. Delivery is best effort; callers must
// not fail the business operation on a publish error.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// FromOrder builds an event of the given type from the order's current state
func FromOrder(eventType string, order *domain.Order) Event {
	return Event{
		ID:          uuid.New().String(),
		Type:        eventType,
		OrderID:     order.ID.String(),
		UserID:      order.UserID,
		Status:      order.Status.String(),
		TotalAmount: order.TotalAmount,
		OccurredAt:  time.Now(),
	}
}

// NopPublisher drops every event, for tests and broker-less deployments
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
