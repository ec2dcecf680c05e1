// Package money provides the fixed-point amount type used by every ledger
// computation. Amounts always carry exactly two decimal places and every
// operation rounds half-up (away from zero) back to that scale.
package money

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places every Money value carries.
const Scale = 2

var (
	// ErrInvalidAmount is returned when a string cannot be read as an amount.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrTooPrecise is returned when an amount has more than two decimal places.
	ErrTooPrecise = errors.New("amount has more than two decimal places")
)

var hundred = decimal.NewFromInt(100)

// Money is an exact decimal amount with a fixed scale of two.
// The zero value is 0.00 and is ready to use.
type Money struct {
	d decimal.Decimal
}

// Zero is 0.00.
var Zero = Money{}

// Epsilon is the smallest representable amount. Anything strictly smaller in
// magnitude is treated as settled.
var Epsilon = FromCents(1)

// FromCents builds an amount from an integer number of cents.
func FromCents(cents int64) Money {
	return Money{d: decimal.New(cents, -Scale)}
}

// FromDecimal rounds d half-up to two places.
func FromDecimal(d decimal.Decimal) Money {
	return Money{d: d.Round(Scale)}
}

// Parse reads a decimal string such as "12.50". More than two decimal places
// is an error rather than a silent rounding.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if !d.Equal(d.Round(Scale)) {
		return Zero, fmt.Errorf("%w: %q", ErrTooPrecise, s)
	}
	return Money{d: d.Round(Scale)}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal { return m.d }

// Cents returns the amount as an integer number of cents.
func (m Money) Cents() int64 {
	return m.d.Shift(Scale).IntPart()
}

func (m Money) Add(o Money) Money { return Money{d: m.d.Add(o.d).Round(Scale)} }
func (m Money) Sub(o Money) Money { return Money{d: m.d.Sub(o.d).Round(Scale)} }
func (m Money) Neg() Money { return Money{d: m.d.Neg()} }
func (m Money) Abs() Money { return Money{d: m.d.Abs()} }

// Percent returns pct percent of m, rounded half-up to two places.
func (m Money) Percent(pct decimal.Decimal) Money {
	return FromDecimal(m.d.Mul(pct).Div(hundred))
}

// Allocate splits m into n parts whose sum is exactly m. Parts differ by at
// most one cent; the extra cents go to the first parts.
func (m Money) Allocate(n int) []Money {
	if n <= 0 {
		return nil
	}
	cents := m.Cents()
	sign := int64(1)
	if cents < 0 {
		sign, cents = -1, -cents
	}
	base, rem := cents/int64(n), cents%int64(n)
	parts := make([]Money, n)
	for i := range parts {
		c := base
		if int64(i) < rem {
			c++
		}
		parts[i] = FromCents(sign * c)
	}
	return parts
}

func (m Money) Cmp(o Money) int { return m.d.Cmp(o.d) }
func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }
func (m Money) IsZero() bool { return m.d.IsZero() }
func (m Money) IsPositive() bool { return m.d.IsPositive() }
func (m Money) IsNegative() bool { return m.d.IsNegative() }
func (m Money) LessThan(o Money) bool { return m.d.LessThan(o.d) }

// Negligible reports whether |m| is below Epsilon.
func (m Money) Negligible() bool {
	return m.d.Abs().LessThan(Epsilon.d)
}

// String formats the amount with exactly two decimal places.
func (m Money) String() string { return m.d.StringFixed(Scale) }

// Min returns the smaller of a and b.
func Min(a, b Money) Money {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Sum adds all amounts.
func Sum(ms ...Money) Money {
	total := Zero
	for _, m := range ms {
		total = total.Add(m)
	}
	return total
}

// MarshalJSON encodes the amount as a quoted decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts both quoted strings and bare JSON numbers.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		*m = Zero
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Value stores the amount as TEXT so no binary float ever holds a balance.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan implements sql.Scanner.
func (m *Money) Scan(src any) error {
	var d decimal.Decimal
	switch v := src.(type) {
	case nil:
		*m = Zero
		return nil
	case string:
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidAmount, v)
		}
		d = parsed
	case []byte:
		parsed, err := decimal.NewFromString(string(v))
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidAmount, v)
		}
		d = parsed
	case int64:
		d = decimal.NewFromInt(v)
	case float64:
		d = decimal.NewFromFloat(v)
	default:
		return fmt.Errorf("money: cannot scan %T", src)
	}
	*m = FromDecimal(d)
	return nil
}
