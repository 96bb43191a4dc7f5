package service

import (
	"fmt"

	"github.com/dev-arif67/restro-saas-sub000/internal/money"
	taxdomain "github.com/dev-arif67/restro-saas-sub000/internal/tax/domain"
)

type Engine struct{}

func NewEngine() taxdomain.Calculator {
	return Engine{}
}

func (Engine) Compute(items []taxdomain.LineItemInput, cfg taxdomain.TenantTaxConfig, discount money.Money) (taxdomain.OrderTotals, error) {
	rate := cfg.VatRatePercent
	if err := rate.Validate(); err != nil {
		return taxdomain.OrderTotals{}, fmt.Errorf("%w: %s", taxdomain.ErrInvalidTaxRate, rate)
	}

	subtotal, err := Subtotal(items)
	if err != nil {
		return taxdomain.OrderTotals{}, err
	}

	if discount.IsNegative() || discount.Cmp(subtotal) > 0 {
		return taxdomain.OrderTotals{}, &taxdomain.InvalidDiscountError{Discount: discount, Subtotal: subtotal}
	}
	net := subtotal.Sub(discount)

	totals := taxdomain.OrderTotals{
		Subtotal:     subtotal,
		Discount:     discount,
		VatRate:      rate,
		VatInclusive: cfg.VatInclusive,
	}
	if cfg.VatInclusive {
		// The customer already paid net; vat is carved out of it.
		totals.VatAmount = net.ExtractInclusive(rate)
		totals.NetAmount = net.Sub(totals.VatAmount)
		totals.GrandTotal = net
	} else {
		totals.VatAmount = net.PercentageOf(rate)
		totals.NetAmount = net
		totals.GrandTotal = net.Add(totals.VatAmount)
	}
	return totals, nil
}

// Subtotal sums per-line totals, each rounded to currency scale before adding.
func Subtotal(items []taxdomain.LineItemInput) (money.Money, error) {
	subtotal := money.Zero()
	for _, item := range items {
		line, err := LineTotal(item)
		if err != nil {
			return money.Money{}, err
		}
		subtotal = subtotal.Add(line)
	}
	return subtotal, nil
}

func LineTotal(item taxdomain.LineItemInput) (money.Money, error) {
	if item.Quantity <= 0 {
		return money.Money{}, fmt.Errorf("%w: menu item %d quantity %d", taxdomain.ErrInvalidQuantity, item.MenuItemID, item.Quantity)
	}
	if item.UnitPrice.IsNegative() {
		return money.Money{}, fmt.Errorf("%w: menu item %d price %s", taxdomain.ErrInvalidUnitPrice, item.MenuItemID, item.UnitPrice)
	}
	return item.UnitPrice.MulInt(item.Quantity), nil
}
