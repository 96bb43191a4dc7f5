package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindByID(ctx context.Context, tx *gorm.DB, tenantID, id snowflake.ID) (*Table, error)
	// SetStatus moves a table to status unless it is already there and
	// reports whether a row changed.
	SetStatus(ctx context.Context, tx *gorm.DB, tenantID, id snowflake.ID, status Status, at time.Time) (bool, error)
}
