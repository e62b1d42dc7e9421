package domain

import (
	"context"

	"github.com/sistemascrenat/liquidaciones-sub000/internal/tariff"
)

// ListRequest filters a catalog listing. Query uses the shared AND/OR token
// grammar over name and entity-specific fields.
type ListRequest struct {
	Query           string
	IncludeInactive bool
}

type SaveRoleRequest struct {
	ID     string
	Name   string
	Status Status
}

type SaveClinicRequest struct {
	ID        string
	Name      string
	ShortCode string
	City      string
	Status    Status
}

type SaveProfessionalRequest struct {
	ID        string
	Name      string
	RUT       string
	Email     string
	Specialty string
	RoleIDs   []string
	Status    Status
}

type SaveProcedureRequest struct {
	ID      string
	Code    string
	Name    string
	RoleIDs []string
	Status  Status
}

// Service is the catalog CRUD surface plus the snapshot loader consumed by
// the settlement and statistics pipelines.
type Service interface {
	Snapshot(ctx context.Context) (*Snapshot, error)

	ListRoles(ctx context.Context, req ListRequest) ([]*Role, error)
	SaveRole(ctx context.Context, req SaveRoleRequest) (*Role, error)

	ListClinics(ctx context.Context, req ListRequest) ([]*Clinic, error)
	SaveClinic(ctx context.Context, req SaveClinicRequest) (*Clinic, error)

	ListProfessionals(ctx context.Context, req ListRequest) ([]*Professional, error)
	SaveProfessional(ctx context.Context, req SaveProfessionalRequest) (*Professional, error)

	ListProcedures(ctx context.Context, req ListRequest) ([]*Procedure, error)
	SaveProcedure(ctx context.Context, req SaveProcedureRequest) (*Procedure, error)
	GetProcedure(ctx context.Context, id string) (*Procedure, error)
	UpdateProcedureTariffs(ctx context.Context, id string, table tariff.Table) (*Procedure, error)
}
