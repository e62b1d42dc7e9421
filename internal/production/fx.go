package production

import (
	"github.com/sistemascrenat/liquidaciones-sub000/internal/production/repository"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/production/service"
	"go.uber.org/fx"
)

var Module = fx.Module("production.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
