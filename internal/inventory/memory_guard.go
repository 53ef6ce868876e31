package inventory

import (
	"context"
	"sync"
)

// MemoryGuard implements Guard with in-memory counters behind one mutex.
// The lock covers the check and the decrement together, so a reservation
// is atomic with respect to concurrent callers.
type MemoryGuard struct {
	mu     sync.Mutex
	stocks map[int64]int32
}

// NewMemoryGuard creates an empty in-memory guard
func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{stocks: make(map[int64]int32)}
}

// SetStock sets the stock level for a product (used for initialization)
func (g *MemoryGuard) SetStock(productID int64, quantity int32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stocks[productID] = quantity
}

func (g *MemoryGuard) Available(_ context.Context, productID int64) (int32, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	stock, exists := g.stocks[productID]
	if !exists {
		return 0, ErrProductNotFound
	}
	return stock, nil
}

func (g *MemoryGuard) Reserve(_ context.Context, productID int64, quantity int32) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	stock, exists := g.stocks[productID]
	if !exists {
		return ErrProductNotFound
	}
	if stock < quantity {
		return ErrInsufficientStock
	}

	g.stocks[productID] = stock - quantity
	return nil
}

func (g *MemoryGuard) Release(_ context.Context, productID int64, quantity int32) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	stock, exists := g.stocks[productID]
	if !exists {
		return ErrProductNotFound
	}

	g.stocks[productID] = stock + quantity
	return nil
}
