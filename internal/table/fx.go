package table

import (
	"github.com/dev-arif67/restro-saas-sub000/internal/table/repository"
	"github.com/dev-arif67/restro-saas-sub000/internal/table/service"
	"go.uber.org/fx"
)

var Module = fx.Module("table.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
