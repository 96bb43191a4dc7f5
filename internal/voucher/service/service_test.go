package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dev-arif67/restro-saas-sub000/internal/clock"
	"github.com/dev-arif67/restro-saas-sub000/internal/money"
	voucherdomain "github.com/dev-arif67/restro-saas-sub000/internal/voucher/domain"
	"github.com/dev-arif67/restro-saas-sub000/internal/voucher/repository"
	"github.com/dev-arif67/restro-saas-sub000/pkg/db"
	"github.com/dev-arif67/restro-saas-sub000/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var now = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*gorm.DB, voucherdomain.Authority) {
	t.Helper()
	conn := dbtest.Open(t, &voucherdomain.Voucher{})
	svc := NewService(ServiceParam{
		DB:    conn,
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(now),
		Repo:  repository.NewRepository(),
	})
	return conn, svc
}

func seedVoucher(t *testing.T, conn *gorm.DB, v voucherdomain.Voucher) voucherdomain.Voucher {
	t.Helper()
	if v.DiscountType == "" {
		v.DiscountType = voucherdomain.DiscountTypeFixed
	}
	if v.DiscountValue.IsZero() {
		v.DiscountValue = money.MustParse("10")
	}
	v.IsActive = true
	v.CreatedAt = now
	v.UpdatedAt = now
	require.NoError(t, conn.Create(&v).Error)
	return v
}

func deactivate(t *testing.T, conn *gorm.DB, id snowflake.ID) {
	t.Helper()
	require.NoError(t, conn.Model(&voucherdomain.Voucher{}).Where("id = ?", id).Update("is_active", false).Error)
}

func validate(t *testing.T, conn *gorm.DB, svc voucherdomain.Authority, tenantID snowflake.ID, code string) voucherdomain.Validation {
	t.Helper()
	var out voucherdomain.Validation
	err := db.RunInTx(context.Background(), conn, func(tx *db.Tx) error {
		var err error
		out, err = svc.Validate(context.Background(), tx, tenantID, code)
		return err
	})
	require.NoError(t, err)
	return out
}

func TestValidateMatchesCodeCaseInsensitively(t *testing.T) {
	conn, svc := setup(t)
	seedVoucher(t, conn, voucherdomain.Voucher{ID: 1, TenantID: 7, Code: "EID25"})

	got := validate(t, conn, svc, 7, "  eid25 ")
	require.True(t, got.Valid())
	assert.Equal(t, snowflake.ID(1), got.Voucher.ID)
}

func TestValidateReasons(t *testing.T) {
	conn, svc := setup(t)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)
	limit := int64(3)

	seedVoucher(t, conn, voucherdomain.Voucher{ID: 1, TenantID: 7, Code: "OFF"})
	deactivate(t, conn, 1)
	seedVoucher(t, conn, voucherdomain.Voucher{ID: 2, TenantID: 7, Code: "SOON", StartsAt: &future})
	seedVoucher(t, conn, voucherdomain.Voucher{ID: 3, TenantID: 7, Code: "OLD", ExpiresAt: &past})
	seedVoucher(t, conn, voucherdomain.Voucher{ID: 4, TenantID: 7, Code: "USED", UsageLimit: &limit, UsedCount: 3})
	seedVoucher(t, conn, voucherdomain.Voucher{ID: 5, TenantID: 7, Code: "NOW", StartsAt: &past, ExpiresAt: &future})

	cases := map[string]voucherdomain.InvalidReason{
		"MISSING": voucherdomain.ReasonNotFound,
		"":        voucherdomain.ReasonNotFound,
		"OFF":     voucherdomain.ReasonInactive,
		"SOON":    voucherdomain.ReasonNotStarted,
		"OLD":     voucherdomain.ReasonExpired,
		"USED":    voucherdomain.ReasonExhausted,
		"NOW":     "",
	}
	for code, want := range cases {
		t.Run(code, func(t *testing.T) {
			assert.Equal(t, want, validate(t, conn, svc, 7, code).Reason)
		})
	}
}

func TestValidateIsTenantScoped(t *testing.T) {
	conn, svc := setup(t)
	seedVoucher(t, conn, voucherdomain.Voucher{ID: 1, TenantID: 7, Code: "EID25"})

	got := validate(t, conn, svc, 8, "EID25")
	assert.False(t, got.Valid())
	assert.Equal(t, voucherdomain.ReasonNotFound, got.Reason)
}

func TestIncrementUsageStopsAtLimit(t *testing.T) {
	conn, svc := setup(t)
	limit := int64(2)
	seedVoucher(t, conn, voucherdomain.Voucher{ID: 1, TenantID: 7, Code: "TWICE", UsageLimit: &limit})

	ctx := context.Background()
	require.NoError(t, svc.IncrementUsage(ctx, nil, 7, 1))
	require.NoError(t, svc.IncrementUsage(ctx, nil, 7, 1))
	assert.ErrorIs(t, svc.IncrementUsage(ctx, nil, 7, 1), voucherdomain.ErrVoucherExhausted)

	var stored voucherdomain.Voucher
	require.NoError(t, conn.First(&stored, 1).Error)
	assert.Equal(t, int64(2), stored.UsedCount)
	assert.Equal(t, voucherdomain.ReasonExhausted, validate(t, conn, svc, 7, "TWICE").Reason)
}

func TestIncrementUsageRollsBackWithTransaction(t *testing.T) {
	conn, svc := setup(t)
	seedVoucher(t, conn, voucherdomain.Voucher{ID: 1, TenantID: 7, Code: "FREE"})

	err := db.RunInTx(context.Background(), conn, func(tx *db.Tx) error {
		if err := svc.IncrementUsage(context.Background(), tx, 7, 1); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	var stored voucherdomain.Voucher
	require.NoError(t, conn.First(&stored, 1).Error)
	assert.Zero(t, stored.UsedCount)
}
