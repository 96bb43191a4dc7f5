package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, tx *gorm.DB, order *Order) error
	InsertItems(ctx context.Context, tx *gorm.DB, items []OrderItem) error
	FindByID(ctx context.Context, tx *gorm.DB, tenantID, id snowflake.ID) (*Order, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, tenantID, id snowflake.ID) (*Order, error)
	FindItems(ctx context.Context, tx *gorm.DB, tenantID, orderID snowflake.ID) ([]OrderItem, error)
	// MarkPaid flips an unpaid order to paid and reports whether a row changed.
	MarkPaid(ctx context.Context, tx *gorm.DB, tenantID, id snowflake.ID, method *string, paidAt, at time.Time) (bool, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, tenantID, id snowflake.ID, status Status, at time.Time) error
	// CountOpenByTable counts orders on tableID that are not closed, excluding excludeID.
	CountOpenByTable(ctx context.Context, tx *gorm.DB, tenantID, tableID, excludeID snowflake.ID) (int64, error)
}
