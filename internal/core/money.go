// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings
// and converting between cents and decimal representations.
package core

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Money is a fixed-point amount in cents. All sums are done on Cents so
// aggregated totals never drift. Decoding caps a single amount at
// math.MaxInt64 cents; Add and Sub do not check for overflow.
type Money struct {
	Cents int64
}

// ParseDecimalToCents converts a decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. The result is always positive cents.
// Returns an error for invalid formats, negative values, or zero amounts.
//
// Examples:
//
//	ParseDecimalToCents("12.34") -> 1234, nil
//	ParseDecimalToCents("12,34") -> 1234, nil
//	ParseDecimalToCents("12.345") -> 1235, nil (rounds up)
//	ParseDecimalToCents("12.344") -> 1234, nil (rounds down)
func ParseDecimalToCents(s string) (int64, error) {
	cents, err := parseCents(s)
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// ParseLimitToCents is ParseDecimalToCents for category limits, where zero
// is a legal value.
func ParseLimitToCents(s string) (int64, error) {
	return parseCents(s)
}

func parseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}

// maxMoney is the largest magnitude whose cents fit in an int64.
var maxMoney = decimal.New(math.MaxInt64, -2)

// MoneyFromDecimal rounds d to cents (half away from zero). Amounts whose
// cents overflow int64 are rejected with ErrInvalidAmount.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	d = d.Round(2)
	if d.Abs().GreaterThan(maxMoney) {
		return Money{}, fmt.Errorf("%w: %s out of range", ErrInvalidAmount, d.String())
	}
	return Money{Cents: d.Shift(2).IntPart()}, nil
}

// MoneyFromFloat converts a float coming from an external JSON payload.
// The float is read through its shortest decimal representation, so 0.1
// becomes exactly 10 cents.
func MoneyFromFloat(f float64) (Money, error) {
	return MoneyFromDecimal(decimal.NewFromFloat(f))
}

// Decimal returns the amount as an exact decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String formats the amount with two fraction digits ("1234.50").
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Float returns the amount as float64 for chart libraries.
// Use Cents for calculations.
func (m Money) Float() float64 {
	return m.Decimal().InexactFloat64()
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }
func (m Money) IsZero() bool      { return m.Cents == 0 }

// MarshalJSON writes the amount as a plain JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		m.Cents = 0
		return nil
	}
	raw := string(bytes.Trim(data, `"`))
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	parsed, err := MoneyFromDecimal(d)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
