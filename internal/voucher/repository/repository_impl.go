package repository

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	voucherdomain "github.com/dev-arif67/restro-saas-sub000/internal/voucher/domain"
	"gorm.io/gorm"
)

type repository struct{}

func NewRepository() voucherdomain.Repository {
	return &repository{}
}

func (r *repository) FindByCodeForUpdate(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID, code string) (*voucherdomain.Voucher, error) {
	var vouchers []voucherdomain.Voucher
	err := tx.WithContext(ctx).Raw(
		`SELECT id, tenant_id, code, discount_type, discount_value, max_discount, min_purchase,
		        usage_limit, used_count, starts_at, expires_at, is_active, created_at, updated_at
		 FROM vouchers
		 WHERE tenant_id = ? AND UPPER(code) = ?
		 ORDER BY id ASC
		 LIMIT 1
		 FOR UPDATE`,
		tenantID,
		strings.ToUpper(strings.TrimSpace(code)),
	).Scan(&vouchers).Error
	if err != nil {
		return nil, err
	}
	if len(vouchers) == 0 {
		return nil, nil
	}
	return &vouchers[0], nil
}

func (r *repository) IncrementUsage(ctx context.Context, tx *gorm.DB, tenantID, id snowflake.ID, at time.Time) (bool, error) {
	result := tx.WithContext(ctx).Exec(
		`UPDATE vouchers
		 SET used_count = used_count + 1, updated_at = ?
		 WHERE tenant_id = ? AND id = ?
		   AND (usage_limit IS NULL OR used_count < usage_limit)`,
		at,
		tenantID,
		id,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
