package menu

import (
	"github.com/dev-arif67/restro-saas-sub000/internal/menu/repository"
	"github.com/dev-arif67/restro-saas-sub000/internal/menu/service"
	"go.uber.org/fx"
)

var Module = fx.Module("menu.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
