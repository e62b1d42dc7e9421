package domain

import (
	"errors"
	"fmt"
	"time"
)

// Line is the atomic unit of payout: one role-occupant's computed amount for
// one production case. Immutable once computed; a recalculation replaces the
// whole period wholesale.
type Line struct {
	RecordID         string   `json:"recordId"`
	DateISO          string   `json:"fecha"`
	ClinicID         string   `json:"clinicaId,omitempty"`
	ClinicName       string   `json:"clinica,omitempty"`
	ProcedureID      string   `json:"procedimientoId,omitempty"`
	ProcedureName    string   `json:"procedimiento,omitempty"`
	PatientType      string   `json:"tipoPaciente,omitempty"`
	RoleID           string   `json:"rolId"`
	ProfessionalID   string   `json:"profesionalId,omitempty"`
	ProfessionalName string   `json:"profesional"`
	Key              string   `json:"clave"`
	Amount           int64    `json:"monto"`
	Pending          bool     `json:"pendiente"`
	PendingReasons   []string `json:"motivos,omitempty"`
}

const (
	StatusOK      = "ok"
	StatusPending = "pending"
)

// Aggregate groups a professional's lines for the period. The key is the
// professional id when resolved, otherwise the normalized raw name, so
// unmatched identities still accumulate a visible payout.
type Aggregate struct {
	Key              string `json:"clave"`
	ProfessionalID   string `json:"profesionalId,omitempty"`
	ProfessionalName string `json:"profesional"`
	Casos            int    `json:"casos"`
	Total            int64  `json:"total"`
	PendientesCount  int    `json:"pendientes"`
	Status           string `json:"estado"`
	Paid             bool   `json:"pagado"`
	Lines            []Line `json:"lineas"`
}

// Result is one full settlement computation for a period.
type Result struct {
	Year        int         `json:"anio"`
	Month       int         `json:"mes"`
	GeneratedAt time.Time   `json:"generado_en"`
	Records     int         `json:"registros"`
	Lines       []Line      `json:"-"`
	Aggregates  []Aggregate `json:"liquidaciones"`
	Total       int64       `json:"total"`
	Pendientes  int         `json:"pendientes"`
}

// PaymentStatus marks an aggregate as paid out, persisted across
// recalculations by period and aggregate key.
type PaymentStatus struct {
	Period    string    `gorm:"primaryKey;column:period" json:"periodo"`
	Key       string    `gorm:"primaryKey;column:agg_key" json:"clave"`
	Paid      bool      `gorm:"not null;default:false" json:"pagado"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy string    `json:"updated_by,omitempty"`
}

func (PaymentStatus) TableName() string { return "liquidacion_pagos" }

// PeriodKey formats a settlement period, e.g. "2025-03".
func PeriodKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

var (
	ErrRecalcInProgress = errors.New("recalc_in_progress")
	ErrNoResult         = errors.New("settlement_not_computed")
	ErrInvalidPeriod    = errors.New("invalid_period")
	ErrAggregateNotFound = errors.New("aggregate_not_found")
)
