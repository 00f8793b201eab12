package money

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrencySymbol matches the marketplace's display currency.
const DefaultCurrencySymbol = "Rs."

// Format renders an amount as "<symbol> 1,234". The amount is truncated to
// whole units and grouped with thousands separators. Negative amounts render
// as the zero string; this function never fails.
func Format(symbol string, amount decimal.Decimal) string {
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}
	units := amount.IntPart()
	if units < 0 {
		units = 0
	}
	return symbol + " " + groupThousands(units)
}

// FormatCurrency renders an amount with the default currency symbol.
func FormatCurrency(amount decimal.Decimal) string {
	return Format(DefaultCurrencySymbol, amount)
}

func groupThousands(n int64) string {
	digits := strconv.FormatInt(n, 10)
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
