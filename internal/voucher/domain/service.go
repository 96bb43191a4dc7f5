package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/dev-arif67/restro-saas-sub000/pkg/db"
)

// Authority decides whether a voucher code applies and records its use.
type Authority interface {
	// Validate never fails for an unusable code; it reports the reason instead.
	// The voucher row stays locked until tx ends.
	Validate(ctx context.Context, tx *db.Tx, tenantID snowflake.ID, code string) (Validation, error)
	IncrementUsage(ctx context.Context, tx *db.Tx, tenantID, voucherID snowflake.ID) error
}
