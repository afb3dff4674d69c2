package calc

import "github.com/shopspring/decimal"

// FinalPrice applies the profit margin and then the discount, both in percent.
func FinalPrice(basePrice, profitMarginPercent, discountPercent decimal.Decimal) decimal.Decimal {
	withMargin := basePrice.Mul(decimal.NewFromInt(1).Add(profitMarginPercent.Div(hundred)))
	return withMargin.Mul(decimal.NewFromInt(1).Sub(discountPercent.Div(hundred))).Round(2)
}

func LineTotal(unitPrice decimal.Decimal, qty int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(qty)))
}

// ToMinorUnits converts an amount to the smallest currency unit.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}
