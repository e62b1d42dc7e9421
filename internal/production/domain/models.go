package domain

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

// Record is one clinical case occurrence as imported, kept schemaless: the
// payload carries whatever field names the source sheet used, and the
// normalizer resolves them through the synonym table. Year/Month/Confirmed
// are promoted columns so a month's production can be fetched by equality
// filters without touching the payload.
type Record struct {
	ID          string            `gorm:"primaryKey" json:"id"`
	Year        int               `gorm:"not null;index:idx_production_period" json:"anio"`
	Month       int               `gorm:"not null;index:idx_production_period" json:"mes"`
	Confirmed   bool              `gorm:"not null;default:false" json:"confirmada"`
	Voided      bool              `gorm:"not null;default:false" json:"anulada"`
	Payload     datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"datos"`
	SourceBatch string            `gorm:"column:source_batch" json:"lote,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	CreatedBy   string            `json:"created_by,omitempty"`
	UpdatedBy   string            `json:"updated_by,omitempty"`
}

func (Record) TableName() string { return "produccion" }

type ListRequest struct {
	Year          int
	Month         int
	ConfirmedOnly bool
}

type ImportRequest struct {
	Year        int
	Month       int
	SourceBatch string
	// Rows are already-parsed documents; CSV/sheet splitting happens
	// upstream in the browser.
	Rows []map[string]any
}

type ImportResult struct {
	Imported int    `json:"imported"`
	Batch    string `json:"batch"`
}

var (
	ErrInvalidPeriod = errors.New("invalid_period")
	ErrEmptyImport   = errors.New("empty_import")
	ErrNotFound      = errors.New("production_record_not_found")
)
