package cart

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrCacheMiss    = errors.New("cache miss")
)

type Cart struct {
	ID        string    `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Items     []Item    `bson:"items" json:"items"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Item carries a name/price/image snapshot so the order core can build
// order lines without a second catalog round trip.
type Item struct {
	ProductID   int64     `bson:"product_id" json:"product_id"`
	ProductName string    `bson:"product_name" json:"product_name"`
	Quantity    int32     `bson:"quantity" json:"quantity"`
	UnitPrice   float64   `bson:"unit_price" json:"unit_price"`
	ImageURL    string    `bson:"image_url" json:"image_url"`
	AddedAt     time.Time `bson:"added_at" json:"added_at"`
}

// Store is the cart boundary the order core consumes
// Consumers define this interface, not the MongoDB implementation
type Store interface {
	GetCart(ctx context.Context, userID string) (*Cart, error)
	RemoveItems(ctx context.Context, userID string, productIDs []int64) error
}

// Cache is the read-through cache in front of the cart store
type Cache interface {
	Get(ctx context.Context, userID string) (*Cart, error)
	Set(ctx context.Context, userID string, cart *Cart) error
	Delete(ctx context.Context, userID string) error
}
