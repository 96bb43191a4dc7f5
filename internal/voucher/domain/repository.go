package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// FindByCodeForUpdate locks and returns the voucher whose code matches
	// case-insensitively, or nil.
	FindByCodeForUpdate(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID, code string) (*Voucher, error)
	// IncrementUsage bumps used_count unless the usage limit is reached and reports whether it did.
	IncrementUsage(ctx context.Context, tx *gorm.DB, tenantID, id snowflake.ID, at time.Time) (bool, error)
}
