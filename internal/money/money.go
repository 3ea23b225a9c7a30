// Package money holds the decimal helpers shared by every amount-handling package.
//
// Amounts coming from users or bank files are coerced leniently: anything that is not a
// number becomes zero (or a nil rate) instead of an error.
package money

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Epsilon is the currency-unit tolerance used for every zero or equality comparison.
var Epsilon = decimal.RequireFromString("0.01")

// IsZero reports whether d is within Epsilon of zero.
func IsZero(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(Epsilon)
}

// NonNegative clamps d at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}

	return d
}

// Sum adds the given amounts.
func Sum(ds ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, d := range ds {
		total = total.Add(d)
	}

	return total
}

// Coerce converts v to a decimal. Unparseable, absent or non-finite values become zero.
func Coerce(v any) decimal.Decimal {
	d, ok := toDecimal(v)
	if !ok {
		return decimal.Zero
	}

	return d
}

// CoerceRate converts v to a conversion rate. Empty or unparseable input yields nil,
// which means "not entered yet".
func CoerceRate(v any) *decimal.Decimal {
	d, ok := toDecimal(v)
	if !ok {
		return nil
	}

	return &d
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return n, true
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero, false
		}

		return *n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, false
		}

		return decimal.NewFromFloat(n), true
	case json.Number:
		return parse(string(n))
	case string:
		return parse(n)
	}

	return decimal.Zero, false
}

func parse(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}

	return d, true
}

// ParseAmount parses an amount as printed in bank files: "1,23,456.78", "USD 1,000.00",
// "(500.00)" or "-500". Thousands separators and currency prefixes are dropped.
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)

	negative := false
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		negative = true
		clean = strings.TrimSuffix(strings.TrimPrefix(clean, "("), ")")
	}

	clean = strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			return r
		}

		return -1
	}, clean)

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, err
	}

	if negative {
		d = d.Neg()
	}

	return d, nil
}

// Lenient is a decimal that accepts any JSON value. Numbers and numeric strings decode
// as-is, everything else decodes to zero.
type Lenient struct {
	decimal.Decimal
}

func (l *Lenient) UnmarshalJSON(data []byte) error {
	l.Decimal = Coerce(jsonValue(data))
	return nil
}

func (l Lenient) MarshalJSON() ([]byte, error) {
	return l.Decimal.MarshalJSON()
}

// LenientRate is a nullable conversion rate that accepts any JSON value. Anything that is
// not a number decodes to nil.
type LenientRate struct {
	Rate *decimal.Decimal
}

func (l *LenientRate) UnmarshalJSON(data []byte) error {
	l.Rate = CoerceRate(jsonValue(data))
	return nil
}

func (l LenientRate) MarshalJSON() ([]byte, error) {
	if l.Rate == nil {
		return []byte("null"), nil
	}

	return l.Rate.MarshalJSON()
}

func jsonValue(data []byte) any {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}

	return v
}
