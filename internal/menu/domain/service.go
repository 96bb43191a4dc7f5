package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/dev-arif67/restro-saas-sub000/pkg/db"
)

// Lookup reads menu items for order pricing. Prices are never cached.
type Lookup interface {
	// GetActiveItem returns the tenant's item or nil when it does not exist
	// for that tenant. Callers check Orderable before pricing it.
	GetActiveItem(ctx context.Context, tx *db.Tx, tenantID, itemID snowflake.ID) (*Item, error)
}
