package service

import (
	"context"

	catalogdomain "github.com/sistemascrenat/liquidaciones-sub000/internal/catalog/domain"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/config"
	productiondomain "github.com/sistemascrenat/liquidaciones-sub000/internal/production/domain"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/production/normalizer"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/profitability/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Catalogs   catalogdomain.Service
	Production productiondomain.Repository
	Rules      *config.SettlementRulesHolder
}

type service struct {
	db         *gorm.DB
	log        *zap.Logger
	catalogs   catalogdomain.Service
	production productiondomain.Repository
	rules      *config.SettlementRulesHolder
}

func New(p Params) domain.Service {
	return &service{
		db:         p.DB,
		log:        p.Log.Named("profitability.service"),
		catalogs:   p.Catalogs,
		production: p.Production,
		rules:      p.Rules,
	}
}

func (s *service) Report(ctx context.Context, year, month int, filters domain.Filters) (*domain.Report, error) {
	if year < 2000 || year > 2100 || month < 1 || month > 12 {
		return nil, domain.ErrInvalidPeriod
	}

	snapshot, err := s.catalogs.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.production.ListPeriod(ctx, s.db, productiondomain.ListRequest{
		Year: year, Month: month, ConfirmedOnly: true,
	})
	if err != nil {
		return nil, err
	}

	rules := s.rules.Rules()
	items := make([]normalizer.Item, 0, len(records))
	for _, record := range records {
		if record.Voided {
			continue
		}
		items = append(items, rules.Normalize(record.ID, record.Payload))
	}

	facts := Filter(BuildFacts(items, snapshot), filters)
	kpis, procedures, clinics, patientMix := Summarize(facts)

	s.log.Debug("profitability report computed",
		zap.Int("year", year),
		zap.Int("month", month),
		zap.Int("facts", len(facts)),
		zap.Int("tariff_incomplete", kpis.TariffIncomplete),
	)

	return &domain.Report{
		Year:             year,
		Month:            month,
		KPIs:             kpis,
		ProcedureRanking: procedures,
		ClinicRanking:    clinics,
		PatientTypeMix:   patientMix,
		Facts:            facts,
	}, nil
}
