// Package money 提供购物车与订单共用的金额计算
//
// 所有派生金额在每一步计算后按两位小数四舍五入（远离零），
// 折扣只做非负钳制，不与小计封顶；总额为负时落回 0。
package money

import "github.com/shopspring/decimal"

// Line 金额计算的输入行：单价 × 数量
type Line struct {
	UnitPrice decimal.Decimal
	Qty       int
}

// Totals 购物车金额计算结果
type Totals struct {
	SubTotal   decimal.Decimal
	Tax        decimal.Decimal
	GrandTotal decimal.Decimal
}

// Round2 两位小数四舍五入，0.005 远离零进位
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ComputeTotals 按行集合、折扣与税率计算购物车金额
//
//	subTotal   = Σ(unitPrice × qty)
//	tax        = max(0, round2((subTotal − discount) × taxRate))
//	grandTotal = max(0, round2(subTotal − discount) + tax)
func ComputeTotals(lines []Line, discount, taxRate decimal.Decimal) Totals {
	sub := decimal.Zero
	for _, l := range lines {
		sub = sub.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty))))
	}

	if discount.IsNegative() {
		discount = decimal.Zero
	}

	tax := Round2(sub.Sub(discount).Mul(taxRate))
	if tax.IsNegative() {
		tax = decimal.Zero
	}

	grand := Round2(sub.Sub(discount)).Add(tax)
	if grand.IsNegative() {
		grand = decimal.Zero
	}

	return Totals{SubTotal: sub, Tax: tax, GrandTotal: grand}
}

// OrderGrandTotal 订单总额，在购物车金额之上叠加配送费与服务费
//
//	grandTotal = max(0, round2(subTotal − discount + tax + deliveryFee + serviceFee))
func OrderGrandTotal(subTotal, discount, tax, deliveryFee, serviceFee decimal.Decimal) decimal.Decimal {
	grand := Round2(subTotal.Sub(discount).Add(tax).Add(deliveryFee).Add(serviceFee))
	if grand.IsNegative() {
		return decimal.Zero
	}
	return grand
}

// ClampDiscount 折扣非负钳制
func ClampDiscount(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
