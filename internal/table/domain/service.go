package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/dev-arif67/restro-saas-sub000/pkg/db"
)

// Lookup resolves and updates dine-in tables.
type Lookup interface {
	// Get returns nil when the table does not exist for tenantID.
	Get(ctx context.Context, tx *db.Tx, tenantID, tableID snowflake.ID) (*Table, error)
	// MarkOccupied is idempotent: an occupied table keeps its occupied_at and changed is false.
	MarkOccupied(ctx context.Context, tx *db.Tx, tenantID, tableID snowflake.ID) (changed bool, err error)
	// Release returns the table to available; releasing a free table is a no-op.
	Release(ctx context.Context, tx *db.Tx, tenantID, tableID snowflake.ID) (changed bool, err error)
}
