package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/clock"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/operatorctx"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/production/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Repo  domain.Repository
	GenID *snowflake.Node
	Clock clock.Clock
}

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &service{
		db:    p.DB,
		log:   p.Log.Named("production.service"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *service) Import(ctx context.Context, req domain.ImportRequest) (*domain.ImportResult, error) {
	if !validPeriod(req.Year, req.Month) {
		return nil, domain.ErrInvalidPeriod
	}
	if len(req.Rows) == 0 {
		return nil, domain.ErrEmptyImport
	}

	now := s.clock.Now()
	operator := operatorctx.OperatorFromContext(ctx)
	batch := strings.TrimSpace(req.SourceBatch)
	if batch == "" {
		batch = s.genID.Generate().String()
	}

	records := make([]*domain.Record, 0, len(req.Rows))
	for _, row := range req.Rows {
		id := rowID(row)
		if id == "" {
			id = s.genID.Generate().String()
		}
		records = append(records, &domain.Record{
			ID:          id,
			Year:        req.Year,
			Month:       req.Month,
			Payload:     datatypes.JSONMap(row),
			SourceBatch: batch,
			CreatedAt:   now,
			UpdatedAt:   now,
			CreatedBy:   operator,
			UpdatedBy:   operator,
		})
	}

	if err := s.repo.SaveBatch(ctx, s.db, records); err != nil {
		return nil, err
	}

	s.log.Info("production batch imported",
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
		zap.Int("rows", len(records)),
		zap.String("batch", batch),
	)
	return &domain.ImportResult{Imported: len(records), Batch: batch}, nil
}

func (s *service) ListPeriod(ctx context.Context, req domain.ListRequest) ([]*domain.Record, error) {
	if !validPeriod(req.Year, req.Month) {
		return nil, domain.ErrInvalidPeriod
	}
	return s.repo.ListPeriod(ctx, s.db, req)
}

func (s *service) Confirm(ctx context.Context, id string) (*domain.Record, error) {
	return s.setFlag(ctx, id, func(r *domain.Record) { r.Confirmed = true })
}

func (s *service) Void(ctx context.Context, id string) (*domain.Record, error) {
	return s.setFlag(ctx, id, func(r *domain.Record) { r.Voided = true })
}

func (s *service) setFlag(ctx context.Context, id string, mutate func(*domain.Record)) (*domain.Record, error) {
	record, err := s.repo.Find(ctx, s.db, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}

	mutate(record)
	record.UpdatedAt = s.clock.Now()
	record.UpdatedBy = operatorctx.OperatorFromContext(ctx)

	if err := s.repo.Save(ctx, s.db, record); err != nil {
		return nil, err
	}
	return record, nil
}

// rowID honors an id already present in the row so re-imports merge instead
// of duplicating.
func rowID(row map[string]any) string {
	for _, key := range []string{"id", "_id"} {
		if v, ok := row[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func validPeriod(year, month int) bool {
	return year >= 2000 && year <= 2100 && month >= 1 && month <= 12
}
