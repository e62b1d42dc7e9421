package service

import (
	"context"
	"time"

	catalogdomain "github.com/sistemascrenat/liquidaciones-sub000/internal/catalog/domain"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/clock"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/config"
	obsmetrics "github.com/sistemascrenat/liquidaciones-sub000/internal/observability/metrics"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/operatorctx"
	productiondomain "github.com/sistemascrenat/liquidaciones-sub000/internal/production/domain"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/production/normalizer"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/search"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/settlement/domain"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/settlement/guard"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/settlement/session"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const recalcLockTTL = 5 * time.Minute

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Catalogs   catalogdomain.Service
	Production productiondomain.Repository
	Rules      *config.SettlementRulesHolder
	Guard      *guard.Guard
	Session    *session.Session
	Clock      clock.Clock
	Metrics    *obsmetrics.Metrics `optional:"true"`
}

type service struct {
	db         *gorm.DB
	log        *zap.Logger
	catalogs   catalogdomain.Service
	production productiondomain.Repository
	rules      *config.SettlementRulesHolder
	guard      *guard.Guard
	session    *session.Session
	clock      clock.Clock
	metrics    *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &service{
		db:         p.DB,
		log:        p.Log.Named("settlement.service"),
		catalogs:   p.Catalogs,
		production: p.Production,
		rules:      p.Rules,
		guard:      p.Guard,
		session:    p.Session,
		clock:      p.Clock,
		metrics:    p.Metrics,
	}
}

// Recalculate rebuilds the period wholesale: catalog snapshot, production
// fetch, normalize, build, aggregate. Any fetch failure aborts the run and
// leaves the previous result in place; per-line resolution failures are
// pending reasons, not errors.
func (s *service) Recalculate(ctx context.Context, year, month int) (*domain.Result, error) {
	if !validPeriod(year, month) {
		return nil, domain.ErrInvalidPeriod
	}
	period := domain.PeriodKey(year, month)

	release, ok, err := s.guard.TryAcquire(ctx, "liquidador:recalc:"+period, recalcLockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrRecalcInProgress
	}
	defer release()

	start := s.clock.Now()

	snapshot, err := s.catalogs.Snapshot(ctx)
	if err != nil {
		s.log.Error("catalog snapshot failed, keeping previous settlement",
			zap.String("period", period), zap.Error(err))
		return nil, err
	}

	records, err := s.production.ListPeriod(ctx, s.db, productiondomain.ListRequest{
		Year: year, Month: month, ConfirmedOnly: true,
	})
	if err != nil {
		s.log.Error("production fetch failed, keeping previous settlement",
			zap.String("period", period), zap.Error(err))
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

	lines := Build(items, snapshot)
	aggregates := Aggregate(lines)
	if err := s.applyPaymentStatus(ctx, period, aggregates); err != nil {
		return nil, err
	}

	result := &domain.Result{
		Year:        year,
		Month:       month,
		GeneratedAt: s.clock.Now(),
		Records:     len(items),
		Lines:       lines,
		Aggregates:  aggregates,
	}
	for _, line := range lines {
		result.Total += line.Amount
		if line.Pending {
			result.Pendientes++
		}
	}

	s.session.Store(period, result)
	s.metrics.RecordRecalc(ctx, period, time.Since(start), len(lines), result.Pendientes)
	s.log.Info("settlement recalculated",
		zap.String("period", period),
		zap.Int("records", result.Records),
		zap.Int("lines", len(lines)),
		zap.Int("pending", result.Pendientes),
		zap.Int64("total", result.Total),
	)
	return result, nil
}

func (s *service) Current(ctx context.Context, year, month int) (*domain.Result, error) {
	if !validPeriod(year, month) {
		return nil, domain.ErrInvalidPeriod
	}
	result, ok := s.session.Load(domain.PeriodKey(year, month))
	if !ok {
		return nil, domain.ErrNoResult
	}
	return result, nil
}

func (s *service) Search(ctx context.Context, year, month int, query string) ([]domain.Aggregate, error) {
	result, err := s.Current(ctx, year, month)
	if err != nil {
		return nil, err
	}
	matched := make([]domain.Aggregate, 0, len(result.Aggregates))
	for _, agg := range result.Aggregates {
		if search.Matches(aggregateFields(agg), query) {
			matched = append(matched, agg)
		}
	}
	return matched, nil
}

func (s *service) MarkPaid(ctx context.Context, year, month int, key string, paid bool) (*domain.Aggregate, error) {
	result, err := s.Current(ctx, year, month)
	if err != nil {
		return nil, err
	}
	period := domain.PeriodKey(year, month)

	found := false
	for _, agg := range result.Aggregates {
		if agg.Key == key {
			found = true
			break
		}
	}
	if !found {
		return nil, domain.ErrAggregateNotFound
	}

	status := domain.PaymentStatus{
		Period:    period,
		Key:       key,
		Paid:      paid,
		UpdatedAt: s.clock.Now(),
		UpdatedBy: operatorctx.OperatorFromContext(ctx),
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "period"}, {Name: "agg_key"}},
			UpdateAll: true,
		}).
		Create(&status).Error
	if err != nil {
		return nil, err
	}

	return s.session.SetPaid(period, key, paid)
}

func (s *service) applyPaymentStatus(ctx context.Context, period string, aggregates []domain.Aggregate) error {
	var statuses []domain.PaymentStatus
	err := s.db.WithContext(ctx).
		Where("period = ?", period).
		Find(&statuses).Error
	if err != nil {
		return err
	}
	paid := make(map[string]bool, len(statuses))
	for _, st := range statuses {
		paid[st.Key] = st.Paid
	}
	for i := range aggregates {
		aggregates[i].Paid = paid[aggregates[i].Key]
	}
	return nil
}

func aggregateFields(agg domain.Aggregate) []string {
	fields := []string{agg.ProfessionalName, agg.Key}
	for _, line := range agg.Lines {
		fields = append(fields, line.ClinicName, line.ProcedureName, line.RoleID, line.PatientType, line.DateISO)
	}
	return fields
}

func validPeriod(year, month int) bool {
	return year >= 2000 && year <= 2100 && month >= 1 && month <= 12
}
