package money

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidRate = errors.New("invalid_rate")

// Rate is a percentage between 0 and 100 with two decimal places (5 means 5%).
type Rate struct {
	value decimal.Decimal
}

// NewRate rounds d to two decimals and checks the 0–100 range.
func NewRate(d decimal.Decimal) (Rate, error) {
	r := Rate{value: d.Round(CurrencyScale)}
	if err := r.Validate(); err != nil {
		return Rate{}, err
	}
	return r, nil
}

// ParseRate parses a literal such as "5" or "7.50".
func ParseRate(raw string) (Rate, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return Rate{}, fmt.Errorf("%w: %q", ErrInvalidRate, raw)
	}
	return NewRate(d)
}

// MustRate is ParseRate for literals known to be valid.
func MustRate(raw string) Rate {
	r, err := ParseRate(raw)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Rate) Validate() error {
	if r.value.IsNegative() || r.value.GreaterThan(hundred) {
		return fmt.Errorf("%w: %s", ErrInvalidRate, r.value.String())
	}
	return nil
}

func (r Rate) IsZero() bool {
	return r.value.IsZero()
}

func (r Rate) Equal(other Rate) bool {
	return r.value.Equal(other.value)
}

func (r Rate) Decimal() decimal.Decimal {
	return r.value
}

func (r Rate) String() string {
	return r.value.StringFixed(CurrencyScale)
}

func (r Rate) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Rate) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		var num json.Number
		if numErr := json.Unmarshal(data, &num); numErr != nil {
			return ErrInvalidRate
		}
		raw = num.String()
	}
	parsed, err := ParseRate(raw)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r Rate) Value() (driver.Value, error) {
	return r.String(), nil
}

func (r *Rate) Scan(value any) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("scan rate: %w", err)
	}
	r.value = d.Round(CurrencyScale)
	return nil
}
