// internal/money/money.go

// Package money renders Rupiah amounts the way the terminal displays them.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is the ISO code attached to every amount handled by the terminal.
const Currency = "IDR"

const symbol = "Rp"

// Format renders an amount as "Rp 160.000,00": dots group thousands and a comma
// separates the two fixed decimals.
func Format(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(symbol)
	b.WriteByte(' ')
	if amount.IsNegative() && !amount.Round(2).IsZero() {
		b.WriteByte('-')
	}
	b.WriteString(group(whole))
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

// group inserts a dot every three digits counting from the right.
func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
