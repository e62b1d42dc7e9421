package repository

import (
	"context"
	"errors"

	"github.com/sistemascrenat/liquidaciones-sub000/internal/production/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

// mergeColumns is the DO UPDATE SET list for re-imported rows. Listed
// explicitly because UpdateAll skips columns with schema defaults, which
// silently left payload untouched. Confirmed, voided and the created_*
// pair are deliberately absent: a corrected re-import replaces the data
// but never undoes an operator's confirm or void.
var mergeColumns = clause.AssignmentColumns([]string{
	"year", "month", "payload", "source_batch", "updated_at", "updated_by",
})

func (r *repo) ListPeriod(ctx context.Context, db *gorm.DB, req domain.ListRequest) ([]*domain.Record, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Record{}).
		Where("year = ? AND month = ?", req.Year, req.Month)
	if req.ConfirmedOnly {
		stmt = stmt.Where("confirmed = ?", true)
	}

	var records []*domain.Record
	if err := stmt.Order("id asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, id string) (*domain.Record, error) {
	var record domain.Record
	err := db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repo) SaveBatch(ctx context.Context, db *gorm.DB, records []*domain.Record) error {
	if len(records) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: mergeColumns,
		}).
		CreateInBatches(records, 200).Error
}

// Save writes back a single loaded record, flags included. Only the
// batch path keeps confirmed/voided out of the update list.
func (r *repo) Save(ctx context.Context, db *gorm.DB, record *domain.Record) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"year", "month", "confirmed", "voided", "payload",
				"source_batch", "updated_at", "updated_by",
			}),
		}).
		Create(record).Error
}
