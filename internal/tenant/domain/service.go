package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	taxdomain "github.com/dev-arif67/restro-saas-sub000/internal/tax/domain"
	"github.com/dev-arif67/restro-saas-sub000/pkg/db"
)

var ErrTenantNotFound = errors.New("tenant_not_found")

// TaxConfigProvider resolves a tenant's VAT setting. A nil tx reads outside any transaction.
type TaxConfigProvider interface {
	GetTaxConfig(ctx context.Context, tx *db.Tx, tenantID snowflake.ID) (taxdomain.TenantTaxConfig, error)
	// Invalidate drops any cached setting for tenantID.
	Invalidate(tenantID snowflake.ID)
}
