package service

import (
	"testing"

	"github.com/dev-arif67/restro-saas-sub000/internal/money"
	taxdomain "github.com/dev-arif67/restro-saas-sub000/internal/tax/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(pairs ...any) []taxdomain.LineItemInput {
	out := make([]taxdomain.LineItemInput, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, taxdomain.LineItemInput{
			MenuItemID: 1,
			UnitPrice:  money.MustParse(pairs[i].(string)),
			Quantity:   int64(pairs[i+1].(int)),
		})
	}
	return out
}

func TestComputeLiteralExamples(t *testing.T) {
	cases := []struct {
		name     string
		items    []taxdomain.LineItemInput
		cfg      taxdomain.TenantTaxConfig
		discount string
		subtotal string
		net      string
		vat      string
		grand    string
		vatRate  string
	}{
		{
			name:     "exclusive",
			items:    lines("100.00", 2),
			cfg:      taxdomain.TenantTaxConfig{VatRatePercent: money.MustRate("5")},
			discount: "0",
			subtotal: "200.00", net: "200.00", vat: "10.00", grand: "210.00", vatRate: "5.00",
		},
		{
			name:     "inclusive",
			items:    lines("100.00", 2),
			cfg:      taxdomain.TenantTaxConfig{VatRatePercent: money.MustRate("5"), VatInclusive: true},
			discount: "0",
			subtotal: "200.00", net: "190.48", vat: "9.52", grand: "200.00", vatRate: "5.00",
		},
		{
			name:     "exclusive_with_discount",
			items:    lines("45.50", 3, "12.25", 1),
			cfg:      taxdomain.TenantTaxConfig{VatRatePercent: money.MustRate("7.5")},
			discount: "10.00",
			// 136.50 + 12.25 = 148.75; net 138.75; vat 10.40625 -> 10.4063 -> 10.41
			subtotal: "148.75", net: "138.75", vat: "10.41", grand: "149.16", vatRate: "7.50",
		},
		{
			name:     "inclusive_with_discount",
			items:    lines("50.00", 2),
			cfg:      taxdomain.TenantTaxConfig{VatRatePercent: money.MustRate("15"), VatInclusive: true},
			discount: "15.00",
			// 85 * 15 / 115 = 11.0869... -> 11.0870 -> 11.09
			subtotal: "100.00", net: "73.91", vat: "11.09", grand: "85.00", vatRate: "15.00",
		},
		{
			name:     "zero_rate",
			items:    lines("9.99", 3),
			cfg:      taxdomain.TenantTaxConfig{VatRatePercent: money.MustRate("0"), VatInclusive: true},
			discount: "0",
			subtotal: "29.97", net: "29.97", vat: "0.00", grand: "29.97", vatRate: "0.00",
		},
		{
			name:     "full_discount",
			items:    lines("20.00", 1),
			cfg:      taxdomain.TenantTaxConfig{VatRatePercent: money.MustRate("5")},
			discount: "20.00",
			subtotal: "20.00", net: "0.00", vat: "0.00", grand: "0.00", vatRate: "5.00",
		},
	}

	engine := NewEngine()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			totals, err := engine.Compute(tc.items, tc.cfg, money.MustParse(tc.discount))
			require.NoError(t, err)

			assert.Equal(t, tc.subtotal, totals.Subtotal.String())
			assert.Equal(t, tc.net, totals.NetAmount.String())
			assert.Equal(t, tc.vat, totals.VatAmount.String())
			assert.Equal(t, tc.grand, totals.GrandTotal.String())
			assert.Equal(t, tc.vatRate, totals.VatRate.String())
			assert.Equal(t, tc.cfg.VatInclusive, totals.VatInclusive)
			assert.NoError(t, totals.Validate())
		})
	}
}

func TestComputeRejectsDiscountAboveSubtotal(t *testing.T) {
	_, err := NewEngine().Compute(lines("25.00", 2), taxdomain.TenantTaxConfig{VatRatePercent: money.MustRate("5")}, money.MustParse("60.00"))
	require.Error(t, err)
	assert.ErrorIs(t, err, taxdomain.ErrInvalidDiscount)

	var discountErr *taxdomain.InvalidDiscountError
	require.ErrorAs(t, err, &discountErr)
	assert.Equal(t, "60.00", discountErr.Discount.String())
	assert.Equal(t, "50.00", discountErr.Subtotal.String())
}

func TestComputeRejectsNegativeDiscount(t *testing.T) {
	_, err := NewEngine().Compute(lines("25.00", 2), taxdomain.TenantTaxConfig{}, money.MustParse("-0.01"))
	assert.ErrorIs(t, err, taxdomain.ErrInvalidDiscount)
}

func TestComputeRejectsBadLines(t *testing.T) {
	cfg := taxdomain.TenantTaxConfig{VatRatePercent: money.MustRate("5")}

	_, err := NewEngine().Compute(lines("10.00", 0), cfg, money.Zero())
	assert.ErrorIs(t, err, taxdomain.ErrInvalidQuantity)

	_, err = NewEngine().Compute(lines("-1.00", 1), cfg, money.Zero())
	assert.ErrorIs(t, err, taxdomain.ErrInvalidUnitPrice)
}

func TestComputeRejectsOutOfRangeRate(t *testing.T) {
	var rate money.Rate
	require.NoError(t, rate.Scan("150"))

	_, err := NewEngine().Compute(lines("10.00", 1), taxdomain.TenantTaxConfig{VatRatePercent: rate}, money.Zero())
	assert.ErrorIs(t, err, taxdomain.ErrInvalidTaxRate)
}

func TestComputeEmptyItems(t *testing.T) {
	totals, err := NewEngine().Compute(nil, taxdomain.TenantTaxConfig{VatRatePercent: money.MustRate("5")}, money.Zero())
	require.NoError(t, err)
	assert.True(t, totals.GrandTotal.IsZero())
}

func TestComputeRoundsVatHalfUpFromFourPlaces(t *testing.T) {
	// 0.99 * 0.5 / 100 = 0.00495 -> 0.0050 at four places -> 0.01.
	totals, err := NewEngine().Compute(lines("0.99", 1), taxdomain.TenantTaxConfig{VatRatePercent: money.MustRate("0.5")}, money.Zero())
	require.NoError(t, err)
	assert.Equal(t, "0.01", totals.VatAmount.String())
	assert.Equal(t, "1.00", totals.GrandTotal.String())
}

func TestSubtotalRoundsPerLine(t *testing.T) {
	subtotal, err := Subtotal(lines("33.335", 1, "0.10", 3))
	require.NoError(t, err)
	assert.Equal(t, "33.64", subtotal.String())

	line, err := LineTotal(taxdomain.LineItemInput{UnitPrice: money.MustParse("2.25"), Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, "9.00", line.String())
}
