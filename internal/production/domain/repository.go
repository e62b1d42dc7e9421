package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	ListPeriod(ctx context.Context, db *gorm.DB, req ListRequest) ([]*Record, error)
	Find(ctx context.Context, db *gorm.DB, id string) (*Record, error)
	// SaveBatch upserts by id with merge semantics; re-importing a month
	// replaces matching rows instead of duplicating them.
	SaveBatch(ctx context.Context, db *gorm.DB, records []*Record) error
	Save(ctx context.Context, db *gorm.DB, record *Record) error
}
