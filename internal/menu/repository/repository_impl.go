package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	menudomain "github.com/dev-arif67/restro-saas-sub000/internal/menu/domain"
	"gorm.io/gorm"
)

type repository struct{}

func NewRepository() menudomain.Repository {
	return &repository{}
}

func (r *repository) FindByID(ctx context.Context, tx *gorm.DB, tenantID, id snowflake.ID) (*menudomain.Item, error) {
	var items []menudomain.Item
	err := tx.WithContext(ctx).Raw(
		`SELECT id, tenant_id, name, price, is_active, is_available, created_at, updated_at
		 FROM menu_items
		 WHERE tenant_id = ? AND id = ?`,
		tenantID,
		id,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}
