package catalog

import (
	"github.com/sistemascrenat/liquidaciones-sub000/internal/catalog/repository"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
