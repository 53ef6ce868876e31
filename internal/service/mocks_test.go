package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fjod/go_order/internal/cart"
	"github.com/fjod/go_order/internal/catalog"
	"github.com/fjod/go_order/internal/domain"
	"github.com/fjod/go_order/internal/events"
	"github.com/fjod/go_order/internal/inventory"
	"github.com/fjod/go_order/internal/repository"
)

// mockCartStore implements cart.Store for testing
type mockCartStore struct {
	cart      *cart.Cart
	getErr    error
	removeErr error
	getCalls  int
	removed   []int64
}

func (m *mockCartStore) GetCart(context.Context, string) (*cart.Cart, error) {
	m.getCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.cart, nil
}

func (m *mockCartStore) RemoveItems(_ context.Context, _ string, productIDs []int64) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	m.removed = append(m.removed, productIDs...)
	return nil
}

// mockCatalog implements catalog.Store; reported stock tracks the guard so
// lookups see reservations made earlier in the same test.
type mockCatalog struct {
	products map[int64]*catalog.Product
	guard    *inventory.MemoryGuard
	err      error
}

func (m *mockCatalog) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, exists := m.products[id]
	if !exists {
		return nil, catalog.ErrProductNotFound
	}

	copied := *p
	if m.guard != nil {
		if available, err := m.guard.Available(ctx, id); err == nil {
			copied.Stock = available
		}
	}
	return &copied, nil
}

func (m *mockCatalog) Close() error { return nil }

// mockOrderRepo implements repository.OrderRepository in memory
type mockOrderRepo struct {
	orders    map[uuid.UUID]*domain.Order
	saveErr   error
	updateErr error
	updates   int
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
}

func (m *mockOrderRepo) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	m.orders[order.ID] = order
	return order, nil
}

func (m *mockOrderRepo) Update(_ context.Context, order *domain.Order) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, exists := m.orders[order.ID]; !exists {
		return repository.ErrOrderNotFound
	}
	m.orders[order.ID] = order
	m.updates++
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	order, exists := m.orders[id]
	if !exists {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

func (m *mockOrderRepo) FindByUserID(_ context.Context, userID string) ([]*domain.Order, error) {
	var result []*domain.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			result = append(result, o)
		}
	}
	return result, nil
}

func (m *mockOrderRepo) FindByCreatedAtBetween(_ context.Context, from, to time.Time) ([]*domain.Order, error) {
	var result []*domain.Order
	for _, o := range m.orders {
		if !o.CreatedAt.Before(from) && !o.CreatedAt.After(to) {
			result = append(result, o)
		}
	}
	return result, nil
}

func (m *mockOrderRepo) RunMigrations(*repository.Credentials) error { return nil }
func (m *mockOrderRepo) Close() error                                { return nil }

// recordingPublisher captures every published event
type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
