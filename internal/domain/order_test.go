package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder() *Order {
	return NewOrder("user-1", "12 Main St", "card", []OrderLine{
		{ProductID: 1, ProductName: "Keyboard", Quantity: 2, UnitPrice: 100},
		{ProductID: 2, ProductName: "Mouse", Quantity: 1, UnitPrice: 50},
	})
}

func TestNewOrder(t *testing.T) {
	o := newTestOrder()

	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, 250.0, o.TotalAmount)
	require.Len(t, o.History, 1)
	assert.Equal(t, StatusPending, o.History[0].Status)
	assert.Equal(t, "order created", o.History[0].Message)
	assert.Equal(t, o.CreatedAt, o.UpdatedAt)
}

func TestOrder_TotalFixedAtCreation(t *testing.T) {
	o := newTestOrder()

	// Mutating a line after creation must not affect the total.
	o.Lines[0].UnitPrice = 999
	assert.Equal(t, 250.0, o.TotalAmount)
}

func TestOrder_ProcessHappyPath(t *testing.T) {
	o := newTestOrder()

	steps := []OrderStatus{StatusPaid, StatusShipping, StatusDelivered}
	for i, want := range steps {
		require.True(t, o.Process())
		assert.Equal(t, want, o.Status)
		// Exactly one history entry per step, after the creation entry.
		assert.Len(t, o.History, i+2)
	}

	// DELIVERED is terminal for both operations.
	assert.False(t, o.Process())
	assert.False(t, o.Cancel())
	assert.Equal(t, StatusDelivered, o.Status)
	assert.Len(t, o.History, 4)
}

func TestOrder_CancelFromEveryNonTerminalStatus(t *testing.T) {
	for _, start := range []OrderStatus{StatusPending, StatusPaid, StatusShipping} {
		o := newTestOrder()
		for o.Status != start {
			require.True(t, o.Process())
		}

		require.True(t, o.Cancel(), "cancel from %s", start)
		assert.Equal(t, StatusCancelled, o.Status)

		// Cancelled is terminal.
		assert.False(t, o.Cancel())
		assert.False(t, o.Process())
	}
}

func TestOrder_FailedIsTerminal(t *testing.T) {
	o := newTestOrder()
	o.MarkFailed()

	assert.Equal(t, StatusFailed, o.Status)
	assert.False(t, o.Process())
	assert.False(t, o.Cancel())
}

func TestOrder_HistoryTimestampsNonDecreasing(t *testing.T) {
	o := newTestOrder()
	o.Process()
	o.Process()
	o.Cancel()

	require.GreaterOrEqual(t, len(o.History), 1)
	for i := 1; i < len(o.History); i++ {
		prev, cur := o.History[i-1].Timestamp, o.History[i].Timestamp
		assert.False(t, cur.Before(prev), "entry %d timestamp went backwards", i)
	}
}

func TestOrder_IllegalTransitionLeavesOrderUntouched(t *testing.T) {
	o := newTestOrder()
	require.True(t, o.Cancel())

	before := o.UpdatedAt
	historyLen := len(o.History)
	time.Sleep(time.Millisecond)

	assert.False(t, o.Process())
	assert.Equal(t, StatusCancelled, o.Status)
	assert.Equal(t, before, o.UpdatedAt)
	assert.Len(t, o.History, historyLen)
}

func TestOrder_MarkPaid(t *testing.T) {
	o := newTestOrder()
	o.MarkPaid()

	assert.Equal(t, StatusPaid, o.Status)
	require.Len(t, o.History, 2)
	assert.Equal(t, "payment confirmed", o.History[1].Message)
}

func TestOrder_MarkFailedFromAnyStatus(t *testing.T) {
	o := newTestOrder()
	require.True(t, o.Process()) // PAID

	o.MarkFailed()
	assert.Equal(t, StatusFailed, o.Status)
	assert.Equal(t, "payment failed", o.History[len(o.History)-1].Message)
}

func TestOrder_FinalAmountAndLoyalty(t *testing.T) {
	o := newTestOrder()
	o.ApplyCoupon("SAVE50", 50)
	o.UseLoyaltyPoints(100, 10)

	assert.Equal(t, "SAVE50", o.CouponCode)
	assert.Equal(t, 190.0, o.FinalAmount())
	assert.Equal(t, 19, o.LoyaltyPointsEarned())

	// Discounts are not validated against the total; the final amount may
	// go negative, but earned points never do.
	o.ApplyCoupon("SAVE1000", 1000)
	assert.Equal(t, -760.0, o.FinalAmount())
	assert.Equal(t, 0, o.LoyaltyPointsEarned())
}

func TestOrder_ProductIDs(t *testing.T) {
	o := newTestOrder()
	assert.Equal(t, []int64{1, 2}, o.ProductIDs())
}
