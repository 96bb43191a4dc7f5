package migration

import (
	"github.com/dev-arif67/restro-saas-sub000/internal/config"
	"github.com/dev-arif67/restro-saas-sub000/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		if !cfg.DBAutoMigrate {
			return nil
		}

		dialect := db.DriverName(cfg)
		if dialect != db.DriverPostgres {
			log.Info("auto-migrating schema from models", zap.String("dialect", dialect))
			return AutoMigrate(conn)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
