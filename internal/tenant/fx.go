package tenant

import (
	"github.com/dev-arif67/restro-saas-sub000/internal/tenant/repository"
	"github.com/dev-arif67/restro-saas-sub000/internal/tenant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tenant.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
