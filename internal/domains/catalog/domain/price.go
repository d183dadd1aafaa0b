package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Price is the asking price as published upstream. The service sends either a
// JSON number or a free-form string, so the raw text is kept for display and
// the numeric amount is derived from it when possible.
type Price struct {
	raw     string
	amount  decimal.Decimal
	numeric bool
}

// NewPrice parses raw into a Price. It never fails: text that carries no
// number yields a Price without an amount. Every character other than digits
// and dots is dropped first, so signs and exponents never count, and the
// amount is the leading number of what remains ("1.2.3" is 1.2).
func NewPrice(raw string) Price {
	p := Price{raw: raw}
	if d, err := decimal.NewFromString(leadingNumber(raw)); err == nil {
		p.amount, p.numeric = d, true
	}
	return p
}

func leadingNumber(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, raw)
	if i := strings.IndexByte(digits, '.'); i >= 0 {
		if j := strings.IndexByte(digits[i+1:], '.'); j >= 0 {
			digits = digits[:i+1+j]
		}
	}
	digits = strings.TrimSuffix(digits, ".")
	if strings.HasPrefix(digits, ".") {
		digits = "0" + digits
	}
	return digits
}

// PriceFromAmount builds a numeric price.
func PriceFromAmount(amount decimal.Decimal) Price {
	return Price{raw: amount.String(), amount: amount, numeric: true}
}

// String returns the price exactly as published.
func (p Price) String() string {
	return p.raw
}

// Amount returns the numeric value and whether one could be derived.
func (p Price) Amount() (decimal.Decimal, bool) {
	return p.amount, p.numeric
}
