package profitability

import (
	"github.com/sistemascrenat/liquidaciones-sub000/internal/profitability/service"
	"go.uber.org/fx"
)

var Module = fx.Module("profitability.service",
	fx.Provide(service.New),
)
