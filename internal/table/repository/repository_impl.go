package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	tabledomain "github.com/dev-arif67/restro-saas-sub000/internal/table/domain"
	"gorm.io/gorm"
)

type repository struct{}

func NewRepository() tabledomain.Repository {
	return &repository{}
}

func (r *repository) FindByID(ctx context.Context, tx *gorm.DB, tenantID, id snowflake.ID) (*tabledomain.Table, error) {
	var tables []tabledomain.Table
	err := tx.WithContext(ctx).Raw(
		`SELECT id, tenant_id, name, status, occupied_at, created_at, updated_at
		 FROM restaurant_tables
		 WHERE tenant_id = ? AND id = ?`,
		tenantID,
		id,
	).Scan(&tables).Error
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, nil
	}
	return &tables[0], nil
}

func (r *repository) SetStatus(ctx context.Context, tx *gorm.DB, tenantID, id snowflake.ID, status tabledomain.Status, at time.Time) (bool, error) {
	var occupiedAt *time.Time
	if status == tabledomain.StatusOccupied {
		occupiedAt = &at
	}
	result := tx.WithContext(ctx).Exec(
		`UPDATE restaurant_tables
		 SET status = ?, occupied_at = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ? AND status <> ?`,
		status,
		occupiedAt,
		at,
		tenantID,
		id,
		status,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
