package domain

import (
	"errors"
	"fmt"

	"github.com/dev-arif67/restro-saas-sub000/internal/money"
)

var (
	ErrInvalidTaxRate     = errors.New("invalid_tax_rate")
	ErrInvalidQuantity    = errors.New("invalid_quantity")
	ErrInvalidUnitPrice   = errors.New("invalid_unit_price")
	ErrInvalidDiscount    = errors.New("invalid_discount")
	ErrInconsistentTotals = errors.New("inconsistent_totals")
)

// InvalidDiscountError carries the rejected discount and the subtotal it was checked against.
type InvalidDiscountError struct {
	Discount money.Money
	Subtotal money.Money
}

func (e *InvalidDiscountError) Error() string {
	return fmt.Sprintf("%s: discount %s outside [0, %s]", ErrInvalidDiscount, e.Discount, e.Subtotal)
}

func (e *InvalidDiscountError) Is(target error) bool {
	return target == ErrInvalidDiscount
}
