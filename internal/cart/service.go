package cart

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// Service is the read-through cart collaborator handed to the order core:
// cache on reads, invalidation on writes. It implements Store.
type Service struct {
	store  Store
	cache  Cache
	logger *slog.Logger
	sfg    singleflight.Group // Prevents cache stampede
}

func NewService(store Store, cache Cache, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

func (s *Service) GetCart(ctx context.Context, userID string) (*Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {

		cached, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cached, nil // cart is in cache
		}

		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn("cart cache get failed", "error", err) // log cache error but continue
		}

		loaded, errGet := s.store.GetCart(ctx, userID)
		if errors.Is(errGet, ErrCartNotFound) {
			// A user without a cart gets an empty one; the order core turns
			// that into its empty-cart rejection.
			return &Cart{
				UserID:    userID,
				Items:     nil,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), userID, loaded); errSet != nil {
				s.logger.Warn("cart cache set failed", "error", errSet)
			}
		}()

		return loaded, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*Cart), nil
}

func (s *Service) RemoveItems(ctx context.Context, userID string, productIDs []int64) error {
	if err := s.store.RemoveItems(ctx, userID, productIDs); err != nil {
		return err
	}

	s.invalidate(userID)
	return nil
}

func (s *Service) invalidate(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.logger.Warn("cart cache invalidate failed", "error", err)
	}
}
