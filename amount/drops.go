// Package amount holds exact integer quantities of drops, the smallest unit
// of XRP. Values never pass through floating point.
package amount

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// xrpExponent shifts a drops value into XRP: 1 XRP is 10^6 drops.
const xrpExponent int32 = -6

var ErrNotInteger = errors.New("not an integer amount")

// Drops is a signed, arbitrary-precision number of drops. The zero value is
// zero drops.
type Drops struct {
	d decimal.Decimal
}

// Parse reads a base-10 integer string such as "1500000" or "-50000".
// Only an optional leading minus and digits are accepted: exponents, signs,
// decimal points and whitespace are rejected before decimal sees the value,
// since decimal expands exponents eagerly.
func Parse(s string) (Drops, error) {
	if !isPlainInteger(s) {
		return Drops{}, fmt.Errorf("%w: %q", ErrNotInteger, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Drops{}, fmt.Errorf("%w: %q: %v", ErrNotInteger, s, err)
	}
	return Drops{d: d}, nil
}

func isPlainInteger(s string) bool {
	if len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Drops {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func FromInt64(v int64) Drops {
	return Drops{d: decimal.NewFromInt(v)}
}

func (a Drops) Add(b Drops) Drops {
	return Drops{d: a.d.Add(b.d)}
}

func (a Drops) Sub(b Drops) Drops {
	return Drops{d: a.d.Sub(b.d)}
}

func (a Drops) GreaterThan(b Drops) bool {
	return a.d.GreaterThan(b.d)
}

func (a Drops) LessThan(b Drops) bool {
	return a.d.LessThan(b.d)
}

func (a Drops) IsNegative() bool {
	return a.d.IsNegative()
}

// String renders the value in drops, e.g. "1500000".
func (a Drops) String() string {
	return a.d.String()
}

// XRP renders the value in XRP without trailing zeros, e.g. "1.5".
// Shifting the exponent is exact, unlike decimal division.
func (a Drops) XRP() string {
	return a.d.Shift(xrpExponent).String()
}
