// Package money converts between formatted currency strings ("$1,234.56")
// and the plain float amounts the optimizer works with.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

var currencyReplacer = strings.NewReplacer("$", "", ",", "", " ", "", "\u00a0", "")

// ParseAmount parses a currency string such as "$1,234.56", "12.5" or " 7 ".
// Negative values are returned as-is; callers decide whether to skip them.
func ParseAmount(s string) (float64, error) {
	clean := currencyReplacer.Replace(strings.TrimSpace(s))
	if clean == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d.InexactFloat64(), nil
}

// ParseFee is the lenient variant used for annual fees: empty, malformed or
// negative values all become zero.
func ParseFee(v any) float64 {
	var fee float64
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		f, err := ParseAmount(x)
		if err != nil {
			return 0
		}
		fee = f
	case float64:
		fee = x
	case float32:
		fee = float64(x)
	case int:
		fee = float64(x)
	case int64:
		fee = float64(x)
	case interface{ Float64() (float64, error) }:
		f, err := x.Float64()
		if err != nil {
			return 0
		}
		fee = f
	default:
		return 0
	}
	if math.IsNaN(fee) || math.IsInf(fee, 0) || fee < 0 {
		return 0
	}
	return fee
}

// FormatUSD renders v as "$1,234.56" (or "-$4.92"), rounded half away from zero to cents.
func FormatUSD(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "$0.00"
	}
	d := decimal.NewFromFloat(v).Round(2)
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

func FormatRate(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
