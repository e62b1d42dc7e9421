package domain

import (
	"context"

	"gorm.io/gorm"
)

// Repository reads and upserts catalog rows. Saves use merge semantics on
// the primary key so imported ids (e.g. "C001") survive round trips.
type Repository interface {
	ListRoles(ctx context.Context, db *gorm.DB) ([]*Role, error)
	FindRole(ctx context.Context, db *gorm.DB, id string) (*Role, error)
	SaveRole(ctx context.Context, db *gorm.DB, role *Role) error

	ListClinics(ctx context.Context, db *gorm.DB) ([]*Clinic, error)
	FindClinic(ctx context.Context, db *gorm.DB, id string) (*Clinic, error)
	SaveClinic(ctx context.Context, db *gorm.DB, clinic *Clinic) error

	ListProfessionals(ctx context.Context, db *gorm.DB) ([]*Professional, error)
	FindProfessional(ctx context.Context, db *gorm.DB, id string) (*Professional, error)
	SaveProfessional(ctx context.Context, db *gorm.DB, professional *Professional) error

	ListProcedures(ctx context.Context, db *gorm.DB) ([]*Procedure, error)
	FindProcedure(ctx context.Context, db *gorm.DB, id string) (*Procedure, error)
	SaveProcedure(ctx context.Context, db *gorm.DB, procedure *Procedure) error
}
