package catalog

import (
	"context"
	"errors"
	"time"
)

var ErrProductNotFound = errors.New("product not found")

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	ImageURL    string
	Stock       int32
	CreatedAt   time.Time
}

// Store defines the catalog lookups the order core needs
// Consumers define this interface, not the SQLite implementation
type Store interface {
	GetProduct(ctx context.Context, id int64) (*Product, error)
	Close() error
}
