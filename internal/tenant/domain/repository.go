package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindByID(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*Tenant, error)
}
