package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fjod/go_order/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order with this id already exists")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

type OrderRepository interface {
	// Save persists a new order, assigning its id, and returns the
	// persisted instance
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)

	// Update persists status/history/discount changes of an existing order
	Update(ctx context.Context, order *domain.Order) error

	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	FindByUserID(ctx context.Context, userID string) ([]*domain.Order, error)
	FindByCreatedAtBetween(ctx context.Context, from, to time.Time) ([]*domain.Order, error)

	RunMigrations(*Credentials) error
	Close() error
}
