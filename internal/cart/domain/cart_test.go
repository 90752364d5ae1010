package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func line(productID uint, price string, qty int) CartItem {
	return CartItem{
		ProductID: productID,
		Title:     "item",
		PriceSale: d(price),
		Currency:  "PKR",
		Qty:       qty,
	}
}

func TestAddLine_AccumulatesQuantity(t *testing.T) {
	cart := NewCart("u1", "PKR")
	cart.AddLine(line(1, "100", 2))
	cart.AddLine(line(1, "100", 3))

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Qty)
}

func TestAddLine_NewProductAppends(t *testing.T) {
	cart := NewCart("u1", "PKR")
	cart.AddLine(line(1, "100", 1))
	cart.AddLine(line(2, "50", 1))

	assert.Len(t, cart.Items, 2)
}

func TestSetQuantity_Absolute(t *testing.T) {
	cart := NewCart("u1", "PKR")
	cart.AddLine(line(1, "100", 2))

	require.NoError(t, cart.SetQuantity(1, 7))
	assert.Equal(t, 7, cart.Items[0].Qty)
}

func TestSetQuantity_MissingLine(t *testing.T) {
	cart := NewCart("u1", "PKR")

	err := cart.SetQuantity(99, 1)
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestRemoveLine_Idempotent(t *testing.T) {
	cart := NewCart("u1", "PKR")
	cart.AddLine(line(1, "100", 2))

	cart.RemoveLine(1)
	assert.Empty(t, cart.Items)

	// 再删一次，状态不变
	cart.RemoveLine(1)
	assert.Empty(t, cart.Items)
}

func TestRecalculate_Scenario(t *testing.T) {
	cart := NewCart("u1", "PKR")
	cart.AddLine(line(1, "100", 2))

	cart.Recalculate(decimal.Zero)
	assert.True(t, cart.SubTotal.Equal(d("200")), "subTotal = %s", cart.SubTotal)
	assert.True(t, cart.Tax.IsZero())
	assert.True(t, cart.GrandTotal.Equal(d("200")), "grandTotal = %s", cart.GrandTotal)

	cart.ApplyDiscount(d("50"))
	cart.Recalculate(decimal.Zero)
	assert.True(t, cart.GrandTotal.Equal(d("150")), "grandTotal = %s", cart.GrandTotal)
}

func TestApplyDiscount_ClampsNegative(t *testing.T) {
	cart := NewCart("u1", "PKR")
	cart.AddLine(line(1, "10", 1))

	cart.ApplyDiscount(d("-20"))
	cart.Recalculate(decimal.Zero)

	assert.True(t, cart.Discount.IsZero())
	assert.True(t, cart.GrandTotal.Equal(d("10")))
}

func TestClear_ResetsTotals(t *testing.T) {
	cart := NewCart("u1", "PKR")
	cart.AddLine(line(1, "100", 2))
	cart.ApplyDiscount(d("10"))
	cart.Recalculate(d("0.1"))

	cart.Clear()

	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.SubTotal.IsZero())
	assert.True(t, cart.Discount.IsZero())
	assert.True(t, cart.Tax.IsZero())
	assert.True(t, cart.GrandTotal.IsZero())
}

func TestRecalculate_CurrencyFollowsFirstLine(t *testing.T) {
	cart := NewCart("u1", "PKR")
	cart.AddLine(CartItem{ProductID: 1, PriceSale: d("5"), Currency: "USD", Qty: 1})

	cart.Recalculate(decimal.Zero)

	assert.Equal(t, "USD", cart.Currency)
}
