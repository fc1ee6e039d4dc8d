// Package money renders amounts the way Indonesian sellers read them:
// "Rp 1.234.567" and "12,50%".
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Indonesian)

// Rupiah formats d rounded to whole rupiah with thousands separators.
func Rupiah(d decimal.Decimal) string {
	n := d.Round(0).IntPart()
	if n < 0 {
		return printer.Sprintf("-Rp %d", -n)
	}
	return printer.Sprintf("Rp %d", n)
}

// Percent formats a value already expressed in percent with two decimals.
func Percent(d decimal.Decimal) string {
	return printer.Sprintf("%.2f%%", d.Round(2).InexactFloat64())
}

// Count formats a whole number with thousands separators.
func Count(n int64) string {
	return printer.Sprintf("%d", n)
}
