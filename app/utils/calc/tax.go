package calc

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

func GetTaxPercent() decimal.Decimal {
	return decimal.NewFromInt(18)
}

// CalculateTax returns the tax on itemsTotal rounded to 2 decimals.
func CalculateTax(itemsTotal decimal.Decimal) decimal.Decimal {
	return itemsTotal.Mul(GetTaxPercent()).Div(hundred).Round(2)
}

func CalculateGrandTotal(itemsTotal, shippingCharge, tax decimal.Decimal) decimal.Decimal {
	return itemsTotal.Add(shippingCharge).Add(tax)
}
