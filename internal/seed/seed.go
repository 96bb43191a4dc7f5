package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dev-arif67/restro-saas-sub000/internal/config"
	menudomain "github.com/dev-arif67/restro-saas-sub000/internal/menu/domain"
	"github.com/dev-arif67/restro-saas-sub000/internal/money"
	tabledomain "github.com/dev-arif67/restro-saas-sub000/internal/table/domain"
	tenantdomain "github.com/dev-arif67/restro-saas-sub000/internal/tenant/domain"
	voucherdomain "github.com/dev-arif67/restro-saas-sub000/internal/voucher/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	demoTenantName  = "Demo Bistro"
	demoVoucherCode = "WELCOME10"
)

var demoMenu = []struct {
	name  string
	price string
}{
	{name: "Chicken Biryani", price: "100.00"},
	{name: "Mango Lassi", price: "45.50"},
	{name: "Garlic Naan", price: "25.00"},
}

var demoTables = []string{"T1", "T2", "T3", "T4"}

var Module = fx.Module("seed",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node, log *zap.Logger) error {
		if !cfg.SeedDemo {
			return nil
		}
		tenant, err := EnsureDemoTenant(context.Background(), conn, node)
		if err != nil {
			return err
		}
		log.Info("demo tenant ready", zap.String("tenant_id", tenant.ID.String()))
		return nil
	}),
)

// EnsureDemoTenant seeds a tenant with a small menu, tables and one voucher.
// Running it again returns the existing tenant untouched.
func EnsureDemoTenant(ctx context.Context, db *gorm.DB, node *snowflake.Node) (tenantdomain.Tenant, error) {
	var tenant tenantdomain.Tenant
	if db == nil {
		return tenant, errors.New("seed database handle is required")
	}
	if node == nil {
		return tenant, errors.New("seed id generator is required")
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var created bool
		var err error
		tenant, created, err = ensureTenantTx(ctx, tx, node)
		if err != nil || !created {
			return err
		}
		if err := createMenuTx(ctx, tx, node, tenant.ID); err != nil {
			return err
		}
		if err := createTablesTx(ctx, tx, node, tenant.ID); err != nil {
			return err
		}
		return createVoucherTx(ctx, tx, node, tenant.ID)
	})
	return tenant, err
}

func ensureTenantTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (tenantdomain.Tenant, bool, error) {
	var tenant tenantdomain.Tenant
	err := tx.WithContext(ctx).Where("name = ?", demoTenantName).First(&tenant).Error
	if err == nil {
		return tenant, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return tenant, false, err
	}
	now := time.Now().UTC()
	tenant = tenantdomain.Tenant{
		ID:             node.Generate(),
		Name:           demoTenantName,
		VatRatePercent: money.MustRate("5"),
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := tx.WithContext(ctx).Create(&tenant).Error; err != nil {
		return tenant, false, err
	}
	return tenant, true, nil
}

func createMenuTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, tenantID snowflake.ID) error {
	now := time.Now().UTC()
	items := make([]menudomain.Item, 0, len(demoMenu))
	for _, entry := range demoMenu {
		items = append(items, menudomain.Item{
			ID:          node.Generate(),
			TenantID:    tenantID,
			Name:        entry.name,
			Price:       money.MustParse(entry.price),
			IsActive:    true,
			IsAvailable: true,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func createTablesTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, tenantID snowflake.ID) error {
	now := time.Now().UTC()
	tables := make([]tabledomain.Table, 0, len(demoTables))
	for _, name := range demoTables {
		tables = append(tables, tabledomain.Table{
			ID:        node.Generate(),
			TenantID:  tenantID,
			Name:      name,
			Status:    tabledomain.StatusAvailable,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return tx.WithContext(ctx).Create(&tables).Error
}

func createVoucherTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, tenantID snowflake.ID) error {
	now := time.Now().UTC()
	limit := int64(100)
	maxDiscount := money.MustParse("50.00")
	voucher := voucherdomain.Voucher{
		ID:            node.Generate(),
		TenantID:      tenantID,
		Code:          demoVoucherCode,
		DiscountType:  voucherdomain.DiscountTypePercentage,
		DiscountValue: money.MustParse("10.00"),
		MaxDiscount:   &maxDiscount,
		MinPurchase:   money.MustParse("100.00"),
		UsageLimit:    &limit,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return tx.WithContext(ctx).Create(&voucher).Error
}
