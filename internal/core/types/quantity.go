// Package types holds the numeric types shared by documents and registers.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Quantity is a stock quantity in fixed point with 4 decimals. It is stored
// as BIGINT (value × QuantityScale) and travels in JSON as a plain number.
type Quantity int64

const (
	QuantityScale  int64 = 10_000
	quantityPlaces int32 = 4
)

func NewQuantityFromFloat64(v float64) Quantity {
	return Quantity(math.Round(v * float64(QuantityScale)))
}

// NewQuantityFromInt64Scaled wraps an already scaled value.
func NewQuantityFromInt64Scaled(v int64) Quantity { return Quantity(v) }

// NewQuantityFromDecimal rounds d half away from zero to 4 places.
func NewQuantityFromDecimal(d decimal.Decimal) Quantity {
	return Quantity(d.Shift(quantityPlaces).Round(0).IntPart())
}

// ParseQuantity accepts decimal and exponent notation ("12.5", "1e3").
func ParseQuantity(s string) (Quantity, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse quantity %q: %w", s, err)
	}
	return NewQuantityFromDecimal(d), nil
}

func (q Quantity) Int64Scaled() int64 { return int64(q) }

func (q Quantity) Float64() float64 { return float64(q) / float64(QuantityScale) }

func (q Quantity) Decimal() decimal.Decimal { return decimal.New(int64(q), -quantityPlaces) }

func (q Quantity) IsZero() bool     { return q == 0 }
func (q Quantity) IsPositive() bool { return q > 0 }
func (q Quantity) IsNegative() bool { return q < 0 }
func (q Quantity) Neg() Quantity    { return -q }

func (q Quantity) Abs() Quantity {
	if q < 0 {
		return -q
	}
	return q
}

func (q Quantity) Min(other Quantity) Quantity {
	if other < q {
		return other
	}
	return q
}

// MulDecimal scales by a UOM conversion factor or BOM ratio.
func (q Quantity) MulDecimal(factor decimal.Decimal) Quantity {
	return NewQuantityFromDecimal(q.Decimal().Mul(factor))
}

// Round returns the value rounded half away from zero to places decimals.
func (q Quantity) Round(places int32) float64 {
	f, _ := q.Decimal().Round(places).Float64()
	return f
}

// String always prints 4 decimals: "12.5000".
func (q Quantity) String() string {
	return q.Decimal().StringFixed(quantityPlaces)
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalJSON accepts a number, a numeric string or null.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = 0
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	parsed, err := ParseQuantity(raw)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// Percent returns part/whole*100 rounded to places; zero when whole is zero.
func Percent(part, whole decimal.Decimal, places int32) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).Round(places)
}
