package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/dev-arif67/restro-saas-sub000/internal/config"
	"github.com/dev-arif67/restro-saas-sub000/internal/migration"
	"github.com/dev-arif67/restro-saas-sub000/internal/observability"
	"github.com/dev-arif67/restro-saas-sub000/internal/seed"
	"github.com/dev-arif67/restro-saas-sub000/internal/server"
	"github.com/dev-arif67/restro-saas-sub000/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		seed.Module,
		server.Module,
	)
	app.Run()
}

// RegisterSnowflake builds the id generator; every replica needs its own SNOWFLAKE_NODE.
func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
