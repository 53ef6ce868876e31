package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/go_order/internal/domain"
	"github.com/fjod/go_order/internal/events"
	"github.com/fjod/go_order/internal/payment"
)

func createOrder(t *testing.T, f *fixture) *domain.Order {
	t.Helper()
	order, err := f.svc.CreateOrder(context.Background(), "user-1", "12 Main St", payment.MethodCard, nil)
	require.NoError(t, err)
	f.publisher.events = nil
	return order
}

func TestHandlePaymentResult_Success(t *testing.T) {
	f := newFixture()
	order := createOrder(t, f)

	updated, err := f.svc.HandlePaymentResult(context.Background(), order, true)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPaid, updated.Status)
	require.Len(t, updated.History, 2)
	assert.Equal(t, "payment confirmed", updated.History[1].Message)

	// Ordered products removed from the cart, change persisted, event out.
	assert.Equal(t, []int64{1, 2}, f.carts.removed)
	assert.Equal(t, 1, f.repo.updates)
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, events.TypeOrderStatusChanged, f.publisher.events[0].Type)
	assert.Equal(t, "PAID", f.publisher.events[0].Status)
}

func TestHandlePaymentResult_Failure_FromAnyStatus(t *testing.T) {
	f := newFixture()

	starts := []func(o *domain.Order){
		func(*domain.Order) {},                             // PENDING
		func(o *domain.Order) { o.Process() },              // PAID
		func(o *domain.Order) { o.Process(); o.Process() }, // SHIPPING
	}

	for _, arrange := range starts {
		order := createOrder(t, f)
		arrange(order)
		historyLen := len(order.History)

		updated, err := f.svc.HandlePaymentResult(context.Background(), order, false)
		require.NoError(t, err)

		assert.Equal(t, domain.StatusFailed, updated.Status)
		assert.Len(t, updated.History, historyLen+1)
		assert.Equal(t, "payment failed", updated.History[len(updated.History)-1].Message)
	}

	// Failed payments never trigger cart cleanup.
	assert.Empty(t, f.carts.removed)
}

func TestHandlePaymentResult_PersistError(t *testing.T) {
	f := newFixture()
	order := createOrder(t, f)
	f.repo.updateErr = errors.New("postgres down")

	_, err := f.svc.HandlePaymentResult(context.Background(), order, true)
	assert.Error(t, err)
	assert.Empty(t, f.carts.removed)
}

func TestHandlePaymentResult_CartCleanupFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	order := createOrder(t, f)
	f.carts.removeErr = errors.New("mongo down")

	updated, err := f.svc.HandlePaymentResult(context.Background(), order, true)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, updated.Status)
}

func TestPayOrder_SettledFeedsOutcome(t *testing.T) {
	f := newFixture()

	// Cash on delivery settles deterministically.
	order, err := f.svc.CreateOrder(context.Background(), "user-1", "12 Main St", payment.MethodCashOnDelivery, nil)
	require.NoError(t, err)

	updated, err := f.svc.PayOrder(context.Background(), order, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, updated.Status)
}

func TestPayOrder_DeclineMarksFailed(t *testing.T) {
	f := newFixture()
	order := createOrder(t, f)

	// Card payment without details is declined by the strategy.
	updated, err := f.svc.PayOrder(context.Background(), order, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, updated.Status)
}

func TestAdvanceOrder_HappyPathAndTerminal(t *testing.T) {
	f := newFixture()
	order := createOrder(t, f)
	ctx := context.Background()

	for _, want := range []domain.OrderStatus{domain.StatusPaid, domain.StatusShipping, domain.StatusDelivered} {
		updated, ok, err := f.svc.AdvanceOrder(ctx, order.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, updated.Status)
	}

	// DELIVERED: the no-op is reported, nothing persisted.
	updatesBefore := f.repo.updates
	updated, ok, err := f.svc.AdvanceOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, domain.StatusDelivered, updated.Status)
	assert.Equal(t, updatesBefore, f.repo.updates)
}

func TestCancelOrder(t *testing.T) {
	f := newFixture()
	order := createOrder(t, f)
	ctx := context.Background()

	updated, ok, err := f.svc.CancelOrder(ctx, order.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.StatusCancelled, updated.Status)

	// A cancelled order cannot be cancelled again.
	_, ok, err = f.svc.CancelOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
