package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdomain "github.com/wyfcoding/ecommerce/internal/cart/domain"
)

func snapshotCart(t *testing.T) *cartdomain.Cart {
	t.Helper()
	cart := cartdomain.NewCart("u1", "PKR")
	cart.AddLine(cartdomain.CartItem{
		ProductID: 1,
		Title:     "keyboard",
		PriceSale: decimal.RequireFromString("100.00"),
		PriceMrp:  decimal.RequireFromString("120.00"),
		Currency:  "PKR",
		Qty:       2,
	})
	cart.Recalculate(decimal.Zero)
	return cart
}

func TestNewFromSnapshotCopiesCartTotals(t *testing.T) {
	cart := snapshotCart(t)
	cart.ApplyDiscount(decimal.RequireFromString("50"))
	cart.Recalculate(decimal.RequireFromString("0.17"))

	order, err := NewFromSnapshot("#20260901-0001", cart, Address{City: "Lahore"}, Payment{Method: "cod", Status: PaymentPending}, Fees{
		Delivery: decimal.RequireFromString("10"),
		Service:  decimal.RequireFromString("5"),
	})
	require.NoError(t, err)

	assert.Equal(t, "#20260901-0001", order.OrderNo)
	assert.Equal(t, "u1", order.UserID)
	assert.Equal(t, StatusPending, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "keyboard", order.Items[0].Title)
	assert.Equal(t, 2, order.Items[0].Qty)

	// 200 - 50 + 25.50 + 10 + 5 = 190.50
	assert.True(t, order.Tax.Equal(decimal.RequireFromString("25.50")))
	assert.True(t, order.GrandTotal.Equal(decimal.RequireFromString("190.50")))

	require.Len(t, order.History, 1)
	assert.Equal(t, StatusPending, order.History[0].To)
	assert.Equal(t, "Order placed", order.History[0].Note)
}

func TestNewFromSnapshotRejectsEmptyCart(t *testing.T) {
	cart := cartdomain.NewCart("u1", "PKR")

	_, err := NewFromSnapshot("#20260901-0001", cart, Address{}, Payment{}, Fees{})
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = NewFromSnapshot("#20260901-0001", nil, Address{}, Payment{}, Fees{})
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestTransitionFollowsStateMachine(t *testing.T) {
	cases := []struct {
		from Status
		to   Status
		ok   bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusShipped, false},
		{StatusConfirmed, StatusPacked, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusPacked, StatusShipped, true},
		{StatusPacked, StatusCancelled, true},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false},
		{StatusDelivered, StatusReturned, true},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusReturned, StatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTransitionAppendsHistory(t *testing.T) {
	cart := snapshotCart(t)
	order, err := NewFromSnapshot("#20260901-0002", cart, Address{}, Payment{}, Fees{})
	require.NoError(t, err)

	require.NoError(t, order.Transition(StatusConfirmed, "Payment verified", "admin-1", false))
	assert.Equal(t, StatusConfirmed, order.Status)
	require.Len(t, order.History, 2)
	assert.Equal(t, StatusPending, order.History[1].From)
	assert.Equal(t, StatusConfirmed, order.History[1].To)
	assert.Equal(t, "admin-1", order.History[1].ActorID)
}

func TestTransitionRejectsIllegalMove(t *testing.T) {
	cart := snapshotCart(t)
	order, err := NewFromSnapshot("#20260901-0003", cart, Address{}, Payment{}, Fees{})
	require.NoError(t, err)

	err = order.Transition(StatusShipped, "", "admin-1", false)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusPending, order.Status)
	assert.Len(t, order.History, 1)
}

func TestTransitionForceBypassesTable(t *testing.T) {
	cart := snapshotCart(t)
	order, err := NewFromSnapshot("#20260901-0004", cart, Address{}, Payment{}, Fees{})
	require.NoError(t, err)

	require.NoError(t, order.Transition(StatusShipped, "manual correction", "admin-1", true))
	assert.Equal(t, StatusShipped, order.Status)
}

func TestTransitionTerminalStatesAbsorb(t *testing.T) {
	cart := snapshotCart(t)
	order, err := NewFromSnapshot("#20260901-0005", cart, Address{}, Payment{}, Fees{})
	require.NoError(t, err)

	require.NoError(t, order.Transition(StatusCancelled, "Cancelled by user", "u1", false))

	// 即使 force 也不能离开吸收态
	err = order.Transition(StatusPending, "", "admin-1", true)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	cart := snapshotCart(t)
	order, err := NewFromSnapshot("#20260901-0006", cart, Address{}, Payment{}, Fees{})
	require.NoError(t, err)

	err = order.Transition(Status("lost"), "", "admin-1", false)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("shipped")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, st)

	_, err = ParseStatus("teleported")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestSnapshotIsolatedFromCartMutation(t *testing.T) {
	cart := snapshotCart(t)
	order, err := NewFromSnapshot("#20260901-0007", cart, Address{}, Payment{}, Fees{})
	require.NoError(t, err)

	cart.Items[0].PriceSale = decimal.RequireFromString("999.00")
	cart.Items[0].Title = "renamed"

	assert.True(t, order.Items[0].PriceSale.Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, "keyboard", order.Items[0].Title)
}
