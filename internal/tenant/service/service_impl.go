package service

import (
	"context"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dev-arif67/restro-saas-sub000/internal/config"
	taxdomain "github.com/dev-arif67/restro-saas-sub000/internal/tax/domain"
	tenantdomain "github.com/dev-arif67/restro-saas-sub000/internal/tenant/domain"
	"github.com/dev-arif67/restro-saas-sub000/pkg/db"
	goCache "github.com/patrickmn/go-cache"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const cacheCleanupInterval = time.Minute

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Repo     tenantdomain.Repository
	Ordering *config.OrderingConfigHolder `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	repo     tenantdomain.Repository
	ordering *config.OrderingConfigHolder
	cache    *goCache.Cache
}

func NewService(p ServiceParam) tenantdomain.TaxConfigProvider {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("tenant.service"),
		repo:     p.Repo,
		ordering: p.Ordering,
		cache:    goCache.New(goCache.NoExpiration, cacheCleanupInterval),
	}
}

func (s *Service) GetTaxConfig(ctx context.Context, tx *db.Tx, tenantID snowflake.ID) (taxdomain.TenantTaxConfig, error) {
	ttl := s.ordering.Get().Tenant.TaxConfigCacheTTL
	key := strconv.FormatInt(int64(tenantID), 10)
	if ttl > 0 {
		if cached, ok := s.cache.Get(key); ok {
			return cached.(taxdomain.TenantTaxConfig), nil
		}
	}

	conn := s.db
	if tx != nil {
		conn = tx.DB(ctx)
	}
	tenant, err := s.repo.FindByID(ctx, conn, tenantID)
	if err != nil {
		return taxdomain.TenantTaxConfig{}, err
	}
	if tenant == nil || !tenant.IsActive {
		return taxdomain.TenantTaxConfig{}, tenantdomain.ErrTenantNotFound
	}

	cfg := tenant.TaxConfig()
	if err := cfg.VatRatePercent.Validate(); err != nil {
		s.log.Warn("tenant has out of range vat rate",
			zap.Int64("tenant_id", int64(tenantID)),
			zap.String("vat_rate_percent", cfg.VatRatePercent.String()),
		)
		return taxdomain.TenantTaxConfig{}, taxdomain.ErrInvalidTaxRate
	}

	if ttl > 0 {
		s.cache.Set(key, cfg, ttl)
	}
	return cfg, nil
}

func (s *Service) Invalidate(tenantID snowflake.ID) {
	s.cache.Delete(strconv.FormatInt(int64(tenantID), 10))
}
