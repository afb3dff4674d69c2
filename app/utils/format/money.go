package format

import (
	"strings"

	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var currencies = map[string]accounting.Accounting{
	"IDR": {Symbol: "Rp ", Precision: 0, Thousand: ".", Decimal: ","},
	"INR": {Symbol: "₹", Precision: 2, Thousand: ",", Decimal: "."},
	"USD": {Symbol: "$", Precision: 2, Thousand: ",", Decimal: "."},
}

// Money renders amount in the display convention of currency, falling back to
// a plain two-decimal string prefixed by the currency code.
func Money(amount decimal.Decimal, currency string) string {
	currency = strings.ToUpper(currency)
	ac, ok := currencies[currency]
	if !ok {
		ac = accounting.Accounting{Symbol: currency + " ", Precision: 2, Thousand: ",", Decimal: "."}
	}
	f, _ := amount.Float64()
	return ac.FormatMoneyFloat64(f)
}

func Rupiah(amount decimal.Decimal) string {
	return Money(amount, "IDR")
}
