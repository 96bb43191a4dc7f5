package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindByID(ctx context.Context, tx *gorm.DB, tenantID, id snowflake.ID) (*Item, error)
}
