package inventory

import (
	"context"
	"errors"
)

// Common errors returned by guard implementations
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Guard serializes stock reservations per product. Two concurrent
// reservations that together exceed available stock must never both
// succeed.
type Guard interface {
	// Available returns the currently reservable quantity for a product
	Available(ctx context.Context, productID int64) (int32, error)

	// Reserve atomically decrements available stock by quantity.
	// Returns ErrInsufficientStock when the decrement would go negative.
	Reserve(ctx context.Context, productID int64, quantity int32) error

	// Release returns a previously reserved quantity to the available pool,
	// used to unwind partial reservations when a later step fails.
	Release(ctx context.Context, productID int64, quantity int32) error
}
