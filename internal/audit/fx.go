package audit

import (
	"github.com/sistemascrenat/liquidaciones-sub000/internal/audit/repository"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
