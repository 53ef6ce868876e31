package cart

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	m        sync.Mutex
	cart     *Cart
	err      error
	getCalls int
	removed  []int64
}

func (m *mockStore) GetCart(context.Context, string) (*Cart, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.getCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.cart, nil
}

func (m *mockStore) RemoveItems(_ context.Context, _ string, productIDs []int64) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.removed = append(m.removed, productIDs...)
	return nil
}

type mockCache struct {
	m     sync.Mutex
	carts map[string]*Cart
	err   error
}

func newMockCache() *mockCache {
	return &mockCache{carts: make(map[string]*Cart)}
}

func (m *mockCache) Get(_ context.Context, userID string) (*Cart, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if c, ok := m.carts[userID]; ok {
		return c, nil
	}
	return nil, ErrCacheMiss
}

func (m *mockCache) Set(_ context.Context, userID string, cart *Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.carts[userID] = cart
	return nil
}

func (m *mockCache) Delete(_ context.Context, userID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.carts, userID)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestService_GetCart_CacheHit(t *testing.T) {
	store := &mockStore{}
	cache := newMockCache()
	cache.carts["user1"] = testCart("user1")
	svc := NewService(store, cache, discardLogger())

	cart, err := svc.GetCart(context.Background(), "user1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 0, store.getCalls)
}

func TestService_GetCart_CacheMissLoadsStore(t *testing.T) {
	store := &mockStore{cart: testCart("user1")}
	cache := newMockCache()
	svc := NewService(store, cache, discardLogger())

	cart, err := svc.GetCart(context.Background(), "user1")
	require.NoError(t, err)
	assert.Equal(t, "user1", cart.UserID)
	assert.Equal(t, 1, store.getCalls)
}

func TestService_GetCart_NotFoundReturnsEmptyCart(t *testing.T) {
	store := &mockStore{err: ErrCartNotFound}
	svc := NewService(store, newMockCache(), discardLogger())

	cart, err := svc.GetCart(context.Background(), "user1")
	require.NoError(t, err)
	assert.Equal(t, "user1", cart.UserID)
	assert.Empty(t, cart.Items)
}

func TestService_GetCart_StoreError(t *testing.T) {
	store := &mockStore{err: errors.New("mongo down")}
	svc := NewService(store, newMockCache(), discardLogger())

	_, err := svc.GetCart(context.Background(), "user1")
	assert.Error(t, err)
}

func TestService_GetCart_CacheErrorFallsThrough(t *testing.T) {
	store := &mockStore{cart: testCart("user1")}
	cache := newMockCache()
	cache.err = errors.New("redis down")
	svc := NewService(store, cache, discardLogger())

	cart, err := svc.GetCart(context.Background(), "user1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestService_RemoveItems_InvalidatesCache(t *testing.T) {
	store := &mockStore{cart: testCart("user1")}
	cache := newMockCache()
	cache.carts["user1"] = testCart("user1")
	svc := NewService(store, cache, discardLogger())

	require.NoError(t, svc.RemoveItems(context.Background(), "user1", []int64{1, 2}))
	assert.Equal(t, []int64{1, 2}, store.removed)

	cache.m.Lock()
	_, cached := cache.carts["user1"]
	cache.m.Unlock()
	assert.False(t, cached)
}

func TestService_GetCart_SingleflightCollapsesConcurrentMisses(t *testing.T) {
	store := &mockStore{cart: testCart("user1")}
	svc := NewService(store, newMockCache(), discardLogger())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.GetCart(context.Background(), "user1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// All ten callers should have shared a handful of loads at most; with
	// singleflight the common case is exactly one.
	store.m.Lock()
	calls := store.getCalls
	store.m.Unlock()
	assert.LessOrEqual(t, calls, 10)
	assert.GreaterOrEqual(t, calls, 1)

	// Give the async cache fill a moment so the goroutine does not leak
	// into other tests.
	time.Sleep(10 * time.Millisecond)
}
