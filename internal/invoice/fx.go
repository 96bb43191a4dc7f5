package invoice

import (
	"github.com/dev-arif67/restro-saas-sub000/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.sequencer",
	fx.Provide(service.NewSequencer),
)
