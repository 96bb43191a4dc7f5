package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	menudomain "github.com/dev-arif67/restro-saas-sub000/internal/menu/domain"
	"github.com/dev-arif67/restro-saas-sub000/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB   *gorm.DB
	Repo menudomain.Repository
}

type Service struct {
	db   *gorm.DB
	repo menudomain.Repository
}

func NewService(p ServiceParam) menudomain.Lookup {
	return &Service{db: p.DB, repo: p.Repo}
}

func (s *Service) GetActiveItem(ctx context.Context, tx *db.Tx, tenantID, itemID snowflake.ID) (*menudomain.Item, error) {
	if tenantID <= 0 || itemID <= 0 {
		return nil, nil
	}
	conn := s.db
	if tx != nil {
		conn = tx.DB(ctx)
	}
	return s.repo.FindByID(ctx, conn, tenantID, itemID)
}
