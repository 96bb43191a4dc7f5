package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	tenantdomain "github.com/dev-arif67/restro-saas-sub000/internal/tenant/domain"
	"gorm.io/gorm"
)

type repository struct{}

func NewRepository() tenantdomain.Repository {
	return &repository{}
}

func (r *repository) FindByID(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*tenantdomain.Tenant, error) {
	var rows []tenantdomain.Tenant
	err := tx.WithContext(ctx).Raw(
		`SELECT id, name, vat_rate_percent, vat_inclusive, is_active, created_at, updated_at
		 FROM tenants
		 WHERE id = ?`,
		id,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
