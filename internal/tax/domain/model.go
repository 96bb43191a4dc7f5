package domain

import (
	"github.com/bwmarrin/snowflake"
	"github.com/dev-arif67/restro-saas-sub000/internal/money"
)

// TaxMode represents how VAT relates to menu prices.
type TaxMode string

const (
	TaxModeExclusive TaxMode = "exclusive" // net + vat
	TaxModeInclusive TaxMode = "inclusive" // prices already contain vat
)

// TenantTaxConfig is a tenant's single VAT setting.
type TenantTaxConfig struct {
	VatRatePercent money.Rate `json:"vat_rate_percent"`
	VatInclusive   bool       `json:"vat_inclusive"`
}

func (c TenantTaxConfig) Mode() TaxMode {
	if c.VatInclusive {
		return TaxModeInclusive
	}
	return TaxModeExclusive
}

// LineItemInput is one priced cart line. UnitPrice always comes from the menu store.
type LineItemInput struct {
	MenuItemID          snowflake.ID
	UnitPrice           money.Money
	Quantity            int64
	SpecialInstructions *string
}

// OrderTotals is the result of a tax computation.
type OrderTotals struct {
	Subtotal     money.Money `json:"subtotal"`
	Discount     money.Money `json:"discount"`
	NetAmount    money.Money `json:"net_amount"`
	VatRate      money.Rate  `json:"vat_rate"`
	VatAmount    money.Money `json:"vat_amount"`
	GrandTotal   money.Money `json:"grand_total"`
	VatInclusive bool        `json:"vat_inclusive"`
}

// Validate checks the arithmetic relations between the totals.
//
// Exclusive: net = subtotal - discount and grand = net + vat.
// Inclusive: grand = subtotal - discount and net + vat = grand.
func (t OrderTotals) Validate() error {
	if t.Subtotal.IsNegative() || t.VatAmount.IsNegative() || t.NetAmount.IsNegative() {
		return ErrInconsistentTotals
	}
	if t.Discount.IsNegative() || t.Discount.Cmp(t.Subtotal) > 0 {
		return &InvalidDiscountError{Discount: t.Discount, Subtotal: t.Subtotal}
	}
	if err := t.VatRate.Validate(); err != nil {
		return ErrInvalidTaxRate
	}

	afterDiscount := t.Subtotal.Sub(t.Discount)
	if !t.NetAmount.Add(t.VatAmount).Equal(t.GrandTotal) {
		return ErrInconsistentTotals
	}
	if t.VatInclusive {
		if !t.GrandTotal.Equal(afterDiscount) {
			return ErrInconsistentTotals
		}
		return nil
	}
	if !t.NetAmount.Equal(afterDiscount) {
		return ErrInconsistentTotals
	}
	return nil
}
