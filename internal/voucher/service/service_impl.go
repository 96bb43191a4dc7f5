package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dev-arif67/restro-saas-sub000/internal/clock"
	"github.com/dev-arif67/restro-saas-sub000/internal/observability/metrics"
	voucherdomain "github.com/dev-arif67/restro-saas-sub000/internal/voucher/domain"
	"github.com/dev-arif67/restro-saas-sub000/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	Repo    voucherdomain.Repository
	Billing *metrics.BillingMetrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	repo    voucherdomain.Repository
	billing *metrics.BillingMetrics
}

func NewService(p ServiceParam) voucherdomain.Authority {
	clk := p.Clock
	if clk == nil {
		clk = clock.System{}
	}
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("voucher.service"),
		clock:   clk,
		repo:    p.Repo,
		billing: p.Billing,
	}
}

func (s *Service) Validate(ctx context.Context, tx *db.Tx, tenantID snowflake.ID, code string) (voucherdomain.Validation, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return voucherdomain.Validation{Reason: voucherdomain.ReasonNotFound}, nil
	}

	start := time.Now()
	voucher, err := s.repo.FindByCodeForUpdate(ctx, s.conn(ctx, tx), tenantID, code)
	if err != nil {
		return voucherdomain.Validation{}, err
	}
	s.billing.ObserveDBLockWait(metrics.LockResourceVoucher, time.Since(start))

	if voucher == nil {
		return voucherdomain.Validation{Reason: voucherdomain.ReasonNotFound}, nil
	}
	return voucherdomain.Validation{Voucher: voucher, Reason: reasonAt(voucher, s.clock.Now())}, nil
}

func (s *Service) IncrementUsage(ctx context.Context, tx *db.Tx, tenantID, voucherID snowflake.ID) error {
	ok, err := s.repo.IncrementUsage(ctx, s.conn(ctx, tx), tenantID, voucherID, s.clock.Now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		return voucherdomain.ErrVoucherExhausted
	}
	return nil
}

func (s *Service) conn(ctx context.Context, tx *db.Tx) *gorm.DB {
	if tx != nil {
		return tx.DB(ctx)
	}
	return s.db.WithContext(ctx)
}

// reasonAt returns why voucher cannot be used at now, or "" when it can.
func reasonAt(voucher *voucherdomain.Voucher, now time.Time) voucherdomain.InvalidReason {
	switch {
	case !voucher.IsActive:
		return voucherdomain.ReasonInactive
	case voucher.StartsAt != nil && now.Before(*voucher.StartsAt):
		return voucherdomain.ReasonNotStarted
	case voucher.ExpiresAt != nil && now.After(*voucher.ExpiresAt):
		return voucherdomain.ReasonExpired
	case voucher.Exhausted():
		return voucherdomain.ReasonExhausted
	default:
		return ""
	}
}
