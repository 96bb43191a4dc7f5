// Package money holds the fixed-point amount and percentage types used by billing.
//
// Amounts always carry two decimal places. Percentage math runs at four
// decimal places and is then rounded to the currency scale, both steps half-up.
package money

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// CurrencyScale is the number of decimal places persisted for amounts.
	CurrencyScale int32 = 2
	// RateScale is the intermediate precision used for percentage math.
	RateScale int32 = 4
)

var (
	ErrInvalidAmount = errors.New("invalid_amount")

	hundred = decimal.NewFromInt(100)
)

// NegativeResultError is returned by SubNonNegative when the result would drop below zero.
type NegativeResultError struct {
	Minuend    Money
	Subtrahend Money
}

func (e *NegativeResultError) Error() string {
	return fmt.Sprintf("negative_result: %s - %s", e.Minuend, e.Subtrahend)
}

// Money is an immutable amount at currency scale.
type Money struct {
	amount decimal.Decimal
}

// Zero returns 0.00.
func Zero() Money {
	return Money{amount: decimal.Zero}
}

// FromMinorUnits builds an amount from cents.
func FromMinorUnits(minor int64) Money {
	return Money{amount: decimal.New(minor, -CurrencyScale)}
}

// FromDecimal rounds d half-up to currency scale.
func FromDecimal(d decimal.Decimal) Money {
	return Money{amount: d.Round(CurrencyScale)}
}

// FromDecimalString parses a decimal literal such as "100.00" and rounds it half-up to currency scale.
func FromDecimalString(raw string) (Money, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return FromDecimal(d), nil
}

// MustParse is FromDecimalString for literals known to be valid.
func MustParse(raw string) Money {
	m, err := FromDecimalString(raw)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub returns a signed difference.
func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// SubNonNegative subtracts and fails when the result would be negative.
func (m Money) SubNonNegative(other Money) (Money, error) {
	result := m.Sub(other)
	if result.IsNegative() {
		return Money{}, &NegativeResultError{Minuend: m, Subtrahend: other}
	}
	return result, nil
}

// MulInt multiplies by a quantity and rounds to currency scale.
func (m Money) MulInt(quantity int64) Money {
	return FromDecimal(m.amount.Mul(decimal.NewFromInt(quantity)))
}

// PercentageOf returns rate percent of m: round2(round4(m × rate / 100)).
func (m Money) PercentageOf(rate Rate) Money {
	raw := m.amount.Mul(rate.value).DivRound(hundred, RateScale)
	return FromDecimal(raw)
}

// ExtractInclusive returns the tax portion already contained in m:
// round2(round4(m × rate / (100 + rate))).
func (m Money) ExtractInclusive(rate Rate) Money {
	if rate.IsZero() {
		return Zero()
	}
	raw := m.amount.Mul(rate.value).DivRound(hundred.Add(rate.value), RateScale)
	return FromDecimal(raw)
}

// Min returns the smaller of m and other.
func (m Money) Min(other Money) Money {
	if m.Cmp(other) <= 0 {
		return m
	}
	return other
}

func (m Money) Cmp(other Money) int {
	return m.amount.Cmp(other.amount)
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Decimal exposes the underlying value.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// MinorUnits returns the amount in cents.
func (m Money) MinorUnits() int64 {
	return m.amount.Shift(CurrencyScale).IntPart()
}

func (m Money) String() string {
	return m.amount.StringFixed(CurrencyScale)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		var num json.Number
		if numErr := json.Unmarshal(data, &num); numErr != nil {
			return ErrInvalidAmount
		}
		raw = num.String()
	}
	parsed, err := FromDecimalString(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value stores the amount as a fixed decimal string.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan reads numeric, text and float columns.
func (m *Money) Scan(value any) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("scan money: %w", err)
	}
	*m = FromDecimal(d)
	return nil
}
