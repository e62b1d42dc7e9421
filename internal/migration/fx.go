package migration

import (
	auditdomain "github.com/sistemascrenat/liquidaciones-sub000/internal/audit/domain"
	catalogdomain "github.com/sistemascrenat/liquidaciones-sub000/internal/catalog/domain"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/config"
	productiondomain "github.com/sistemascrenat/liquidaciones-sub000/internal/production/domain"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/seed"
	settlementdomain "github.com/sistemascrenat/liquidaciones-sub000/internal/settlement/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// mysql and sqlite deployments lean on gorm's schema sync.
			if err := conn.AutoMigrate(
				&catalogdomain.Role{},
				&catalogdomain.Clinic{},
				&catalogdomain.Professional{},
				&catalogdomain.Procedure{},
				&productiondomain.Record{},
				&settlementdomain.PaymentStatus{},
				&auditdomain.AuditLog{},
			); err != nil {
				return err
			}
		}

		return seed.EnsureRoleCatalog(conn)
	}),
)
