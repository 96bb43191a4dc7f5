package order

import (
	"github.com/dev-arif67/restro-saas-sub000/internal/order/repository"
	"github.com/dev-arif67/restro-saas-sub000/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
