package tax

import (
	"github.com/dev-arif67/restro-saas-sub000/internal/tax/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tax.engine",
	fx.Provide(service.NewEngine),
)
