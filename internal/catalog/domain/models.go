package domain

import (
	"errors"
	"time"

	"github.com/sistemascrenat/liquidaciones-sub000/internal/tariff"
	"gorm.io/datatypes"
)

// Status is the lifecycle state of a catalog entry. Entries are never
// deleted; deactivation keeps historical settlement lines resolvable.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Role is a payable function inside a surgical case (cirujano, anestesista,
// ayudantes, arsenalera). Role ids key the honoraria maps in tariff tables.
type Role struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"nombre"`
	Status    Status    `gorm:"not null;default:active" json:"estado"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	CreatedBy string    `json:"created_by,omitempty"`
	UpdatedBy string    `json:"updated_by,omitempty"`
}

func (Role) TableName() string { return "roles" }

type Clinic struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"nombre"`
	ShortCode string    `gorm:"column:short_code" json:"codigo,omitempty"`
	City      string    `json:"ciudad,omitempty"`
	Status    Status    `gorm:"not null;default:active" json:"estado"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	CreatedBy string    `json:"created_by,omitempty"`
	UpdatedBy string    `json:"updated_by,omitempty"`
}

func (Clinic) TableName() string { return "clinicas" }

type Professional struct {
	ID        string                      `gorm:"primaryKey" json:"id"`
	Name      string                      `gorm:"not null" json:"nombre"`
	RUT       string                      `gorm:"column:rut" json:"rut,omitempty"`
	Email     string                      `json:"email,omitempty"`
	Specialty string                      `json:"especialidad,omitempty"`
	RoleIDs   datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"roles,omitempty"`
	Status    Status                      `gorm:"not null;default:active" json:"estado"`
	CreatedAt time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	CreatedBy string                      `json:"created_by,omitempty"`
	UpdatedBy string                      `json:"updated_by,omitempty"`
}

func (Professional) TableName() string { return "profesionales" }

// Procedure is a surgical procedure plus its tariff table: the nested
// clinic → patient-type → {price, fees, honoraria} pricing structure.
type Procedure struct {
	ID        string                          `gorm:"primaryKey" json:"id"`
	Code      string                          `json:"codigo,omitempty"`
	Name      string                          `gorm:"not null" json:"nombre"`
	RoleIDs   datatypes.JSONSlice[string]     `gorm:"type:jsonb" json:"roles,omitempty"`
	Tariffs   datatypes.JSONType[tariff.Table] `gorm:"type:jsonb" json:"tarifas"`
	Status    Status                          `gorm:"not null;default:active" json:"estado"`
	CreatedAt time.Time                       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time                       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	CreatedBy string                          `json:"created_by,omitempty"`
	UpdatedBy string                          `json:"updated_by,omitempty"`
}

func (Procedure) TableName() string { return "procedimientos" }

// TariffTable unwraps the JSONB column.
func (p *Procedure) TariffTable() tariff.Table {
	if p == nil {
		return nil
	}
	return p.Tariffs.Data()
}

var (
	ErrNotFound      = errors.New("catalog_entry_not_found")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrInvalidKind   = errors.New("invalid_catalog_kind")
)
