package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dev-arif67/restro-saas-sub000/internal/config"
	"github.com/dev-arif67/restro-saas-sub000/internal/money"
	taxdomain "github.com/dev-arif67/restro-saas-sub000/internal/tax/domain"
	tenantdomain "github.com/dev-arif67/restro-saas-sub000/internal/tenant/domain"
	"github.com/dev-arif67/restro-saas-sub000/internal/tenant/repository"
	"github.com/dev-arif67/restro-saas-sub000/pkg/db"
	"github.com/dev-arif67/restro-saas-sub000/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setup(t *testing.T, ttl time.Duration) (*gorm.DB, tenantdomain.TaxConfigProvider) {
	t.Helper()
	conn := dbtest.Open(t, &tenantdomain.Tenant{})

	ordering := config.DefaultOrderingConfig()
	ordering.Tenant.TaxConfigCacheTTL = ttl

	svc := NewService(ServiceParam{
		DB:       conn,
		Log:      zap.NewNop(),
		Repo:     repository.NewRepository(),
		Ordering: config.NewStaticOrderingConfig(ordering),
	})
	return conn, svc
}

func seedTenant(t *testing.T, conn *gorm.DB, id snowflake.ID, rate string, inclusive, active bool) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, conn.Create(&tenantdomain.Tenant{
		ID:             id,
		Name:           "Kacchi House",
		VatRatePercent: money.MustRate(rate),
		VatInclusive:   inclusive,
		IsActive:       active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}).Error)
	if !active {
		// gorm skips zero-value bools that carry a column default.
		require.NoError(t, conn.Model(&tenantdomain.Tenant{}).Where("id = ?", id).Update("is_active", false).Error)
	}
}

func TestGetTaxConfig(t *testing.T) {
	conn, svc := setup(t, 0)
	seedTenant(t, conn, 12, "7.5", true, true)

	cfg, err := svc.GetTaxConfig(context.Background(), nil, 12)
	require.NoError(t, err)
	assert.Equal(t, "7.50", cfg.VatRatePercent.String())
	assert.True(t, cfg.VatInclusive)
	assert.Equal(t, taxdomain.TaxModeInclusive, cfg.Mode())
}

func TestGetTaxConfigInsideTransaction(t *testing.T) {
	conn, svc := setup(t, 0)
	seedTenant(t, conn, 3, "5", false, true)

	err := db.RunInTx(context.Background(), conn, func(tx *db.Tx) error {
		cfg, err := svc.GetTaxConfig(context.Background(), tx, 3)
		if err != nil {
			return err
		}
		assert.Equal(t, "5.00", cfg.VatRatePercent.String())
		return nil
	})
	require.NoError(t, err)
}

func TestGetTaxConfigUnknownOrInactiveTenant(t *testing.T) {
	conn, svc := setup(t, 0)
	seedTenant(t, conn, 4, "5", false, false)

	_, err := svc.GetTaxConfig(context.Background(), nil, 999)
	assert.ErrorIs(t, err, tenantdomain.ErrTenantNotFound)

	_, err = svc.GetTaxConfig(context.Background(), nil, 4)
	assert.ErrorIs(t, err, tenantdomain.ErrTenantNotFound)
}

func TestGetTaxConfigCachesWithinTTL(t *testing.T) {
	conn, svc := setup(t, time.Minute)
	seedTenant(t, conn, 5, "5", false, true)

	_, err := svc.GetTaxConfig(context.Background(), nil, 5)
	require.NoError(t, err)

	require.NoError(t, conn.Model(&tenantdomain.Tenant{}).Where("id = ?", 5).Update("vat_rate_percent", "10.00").Error)

	cfg, err := svc.GetTaxConfig(context.Background(), nil, 5)
	require.NoError(t, err)
	assert.Equal(t, "5.00", cfg.VatRatePercent.String())

	svc.Invalidate(5)
	cfg, err = svc.GetTaxConfig(context.Background(), nil, 5)
	require.NoError(t, err)
	assert.Equal(t, "10.00", cfg.VatRatePercent.String())
}

func TestGetTaxConfigWithoutCacheReadsFresh(t *testing.T) {
	conn, svc := setup(t, 0)
	seedTenant(t, conn, 6, "5", false, true)

	_, err := svc.GetTaxConfig(context.Background(), nil, 6)
	require.NoError(t, err)

	require.NoError(t, conn.Model(&tenantdomain.Tenant{}).Where("id = ?", 6).Update("vat_rate_percent", "15.00").Error)

	cfg, err := svc.GetTaxConfig(context.Background(), nil, 6)
	require.NoError(t, err)
	assert.Equal(t, "15.00", cfg.VatRatePercent.String())
}
