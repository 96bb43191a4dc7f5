package domain

import "github.com/dev-arif67/restro-saas-sub000/internal/money"

// Calculator turns priced lines, a tax setting and a discount into order totals.
// Implementations are pure: no I/O, no shared state.
type Calculator interface {
	Compute(items []LineItemInput, cfg TenantTaxConfig, discount money.Money) (OrderTotals, error)
}
