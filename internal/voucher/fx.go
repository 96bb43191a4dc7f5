package voucher

import (
	"github.com/dev-arif67/restro-saas-sub000/internal/voucher/repository"
	"github.com/dev-arif67/restro-saas-sub000/internal/voucher/service"
	"go.uber.org/fx"
)

var Module = fx.Module("voucher.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
