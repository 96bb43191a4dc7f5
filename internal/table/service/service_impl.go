package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/dev-arif67/restro-saas-sub000/internal/clock"
	tabledomain "github.com/dev-arif67/restro-saas-sub000/internal/table/domain"
	"github.com/dev-arif67/restro-saas-sub000/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  tabledomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  tabledomain.Repository
}

func NewService(p ServiceParam) tabledomain.Lookup {
	clk := p.Clock
	if clk == nil {
		clk = clock.System{}
	}
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("table.service"),
		clock: clk,
		repo:  p.Repo,
	}
}

func (s *Service) Get(ctx context.Context, tx *db.Tx, tenantID, tableID snowflake.ID) (*tabledomain.Table, error) {
	if tenantID <= 0 || tableID <= 0 {
		return nil, nil
	}
	return s.repo.FindByID(ctx, s.conn(ctx, tx), tenantID, tableID)
}

func (s *Service) MarkOccupied(ctx context.Context, tx *db.Tx, tenantID, tableID snowflake.ID) (bool, error) {
	changed, err := s.repo.SetStatus(ctx, s.conn(ctx, tx), tenantID, tableID, tabledomain.StatusOccupied, s.clock.Now().UTC())
	if err != nil {
		return false, err
	}
	if changed {
		s.log.Debug("table occupied", zap.Int64("tenant_id", int64(tenantID)), zap.Int64("table_id", int64(tableID)))
	}
	return changed, nil
}

func (s *Service) Release(ctx context.Context, tx *db.Tx, tenantID, tableID snowflake.ID) (bool, error) {
	return s.repo.SetStatus(ctx, s.conn(ctx, tx), tenantID, tableID, tabledomain.StatusAvailable, s.clock.Now().UTC())
}

func (s *Service) conn(ctx context.Context, tx *db.Tx) *gorm.DB {
	if tx != nil {
		return tx.DB(ctx)
	}
	return s.db.WithContext(ctx)
}
