package settlement

import (
	"github.com/sistemascrenat/liquidaciones-sub000/internal/settlement/guard"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/settlement/service"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/settlement/session"
	"go.uber.org/fx"
)

var Module = fx.Module("settlement.service",
	fx.Provide(guard.New),
	fx.Provide(session.New),
	fx.Provide(service.New),
)
