package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func TestComputeTotals_SingleLine(t *testing.T) {
	lines := []Line{{UnitPrice: d("100"), Qty: 2}}

	got := ComputeTotals(lines, decimal.Zero, decimal.Zero)

	assert.True(t, got.SubTotal.Equal(d("200")), "subTotal = %s", got.SubTotal)
	assert.True(t, got.Tax.IsZero())
	assert.True(t, got.GrandTotal.Equal(d("200")), "grandTotal = %s", got.GrandTotal)
}

func TestComputeTotals_Discount(t *testing.T) {
	lines := []Line{{UnitPrice: d("100"), Qty: 2}}

	got := ComputeTotals(lines, d("50"), decimal.Zero)

	assert.True(t, got.GrandTotal.Equal(d("150")), "grandTotal = %s", got.GrandTotal)
}

func TestComputeTotals_Tax(t *testing.T) {
	lines := []Line{{UnitPrice: d("100"), Qty: 1}}

	got := ComputeTotals(lines, d("10"), d("0.17"))

	// (100-10) * 0.17 = 15.30
	assert.True(t, got.Tax.Equal(d("15.3")), "tax = %s", got.Tax)
	assert.True(t, got.GrandTotal.Equal(d("105.3")), "grandTotal = %s", got.GrandTotal)
}

func TestComputeTotals_DiscountExceedsSubTotal(t *testing.T) {
	lines := []Line{{UnitPrice: d("30"), Qty: 1}}

	got := ComputeTotals(lines, d("100"), decimal.Zero)

	// 折扣不封顶，但总额落回 0
	assert.True(t, got.GrandTotal.IsZero(), "grandTotal = %s", got.GrandTotal)
	assert.True(t, got.Tax.IsZero())
}

func TestComputeTotals_NegativeDiscountClamped(t *testing.T) {
	lines := []Line{{UnitPrice: d("10"), Qty: 1}}

	got := ComputeTotals(lines, d("-5"), decimal.Zero)

	assert.True(t, got.GrandTotal.Equal(d("10")), "grandTotal = %s", got.GrandTotal)
}

func TestComputeTotals_OrderIndependent(t *testing.T) {
	a := []Line{
		{UnitPrice: d("19.99"), Qty: 3},
		{UnitPrice: d("5.5"), Qty: 1},
		{UnitPrice: d("120"), Qty: 2},
	}
	b := []Line{a[2], a[0], a[1]}

	ta := ComputeTotals(a, d("7"), d("0.05"))
	tb := ComputeTotals(b, d("7"), d("0.05"))

	assert.True(t, ta.SubTotal.Equal(tb.SubTotal))
	assert.True(t, ta.GrandTotal.Equal(tb.GrandTotal))
}

func TestComputeTotals_RoundingHalfAwayFromZero(t *testing.T) {
	lines := []Line{{UnitPrice: d("10.005"), Qty: 1}}

	got := ComputeTotals(lines, decimal.Zero, decimal.Zero)

	// 10.005 → 10.01
	assert.True(t, got.GrandTotal.Equal(d("10.01")), "grandTotal = %s", got.GrandTotal)
}

func TestComputeTotals_GrandTotalNeverNegative(t *testing.T) {
	cases := []struct {
		lines    []Line
		discount string
		taxRate  string
	}{
		{nil, "0", "0"},
		{[]Line{{UnitPrice: d("1"), Qty: 1}}, "999", "0"},
		{[]Line{{UnitPrice: d("50"), Qty: 2}}, "100", "0.2"},
		{[]Line{{UnitPrice: d("0.01"), Qty: 1}}, "0.02", "0.5"},
	}

	for _, tc := range cases {
		got := ComputeTotals(tc.lines, d(tc.discount), d(tc.taxRate))
		assert.False(t, got.GrandTotal.IsNegative(), "discount=%s taxRate=%s", tc.discount, tc.taxRate)
		assert.False(t, got.Tax.IsNegative())
	}
}

func TestOrderGrandTotal_AddsFees(t *testing.T) {
	got := OrderGrandTotal(d("200"), d("50"), d("0"), d("20"), d("5"))

	assert.True(t, got.Equal(d("175")), "grandTotal = %s", got)
}

func TestOrderGrandTotal_FloorsAtZero(t *testing.T) {
	got := OrderGrandTotal(d("10"), d("100"), d("0"), d("0"), d("0"))

	assert.True(t, got.IsZero())
}
