package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/catalog/domain"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/clock"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/operatorctx"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/search"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/tariff"
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
		log:   p.Log.Named("catalog.service"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
	}
}

// Snapshot loads all four catalogs wholesale and builds the lookup indices.
// Normalized-name collisions keep the first entry and are logged, not fixed:
// catalogs are operator-curated and correction belongs at write time.
func (s *service) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	roles, err := s.repo.ListRoles(ctx, s.db)
	if err != nil {
		return nil, err
	}
	clinics, err := s.repo.ListClinics(ctx, s.db)
	if err != nil {
		return nil, err
	}
	professionals, err := s.repo.ListProfessionals(ctx, s.db)
	if err != nil {
		return nil, err
	}
	procedures, err := s.repo.ListProcedures(ctx, s.db)
	if err != nil {
		return nil, err
	}

	snapshot, collisions := domain.NewSnapshot(roles, clinics, professionals, procedures)
	for _, c := range collisions {
		s.log.Warn("catalog name collision, first entry wins",
			zap.String("key", c.Key),
			zap.String("kept_id", c.KeptID),
			zap.String("lost_id", c.LostID),
		)
	}
	return snapshot, nil
}

func (s *service) ListRoles(ctx context.Context, req domain.ListRequest) ([]*domain.Role, error) {
	roles, err := s.repo.ListRoles(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Role, 0, len(roles))
	for _, r := range roles {
		if !req.IncludeInactive && r.Status != domain.StatusActive {
			continue
		}
		if !search.Matches([]string{r.Name, r.ID}, req.Query) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *service) SaveRole(ctx context.Context, req domain.SaveRoleRequest) (*domain.Role, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	status, err := normalizeStatus(req.Status)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	operator := operatorctx.OperatorFromContext(ctx)

	role := &domain.Role{
		ID:        strings.TrimSpace(req.ID),
		Name:      name,
		Status:    status,
		UpdatedAt: now,
		UpdatedBy: operator,
	}
	if role.ID == "" {
		role.ID = s.genID.Generate().String()
		role.CreatedAt = now
		role.CreatedBy = operator
	} else if existing, err := s.repo.FindRole(ctx, s.db, role.ID); err != nil {
		return nil, err
	} else if existing != nil {
		role.CreatedAt = existing.CreatedAt
		role.CreatedBy = existing.CreatedBy
	} else {
		role.CreatedAt = now
		role.CreatedBy = operator
	}

	if err := s.repo.SaveRole(ctx, s.db, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *service) ListClinics(ctx context.Context, req domain.ListRequest) ([]*domain.Clinic, error) {
	clinics, err := s.repo.ListClinics(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Clinic, 0, len(clinics))
	for _, c := range clinics {
		if !req.IncludeInactive && c.Status != domain.StatusActive {
			continue
		}
		if !search.Matches([]string{c.Name, c.ShortCode, c.City, c.ID}, req.Query) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *service) SaveClinic(ctx context.Context, req domain.SaveClinicRequest) (*domain.Clinic, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	status, err := normalizeStatus(req.Status)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	operator := operatorctx.OperatorFromContext(ctx)

	clinic := &domain.Clinic{
		ID:        strings.TrimSpace(req.ID),
		Name:      name,
		ShortCode: strings.TrimSpace(req.ShortCode),
		City:      strings.TrimSpace(req.City),
		Status:    status,
		UpdatedAt: now,
		UpdatedBy: operator,
	}
	if clinic.ID == "" {
		clinic.ID = s.genID.Generate().String()
		clinic.CreatedAt = now
		clinic.CreatedBy = operator
	} else if existing, err := s.repo.FindClinic(ctx, s.db, clinic.ID); err != nil {
		return nil, err
	} else if existing != nil {
		clinic.CreatedAt = existing.CreatedAt
		clinic.CreatedBy = existing.CreatedBy
	} else {
		clinic.CreatedAt = now
		clinic.CreatedBy = operator
	}

	if err := s.repo.SaveClinic(ctx, s.db, clinic); err != nil {
		return nil, err
	}
	return clinic, nil
}

func (s *service) ListProfessionals(ctx context.Context, req domain.ListRequest) ([]*domain.Professional, error) {
	professionals, err := s.repo.ListProfessionals(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Professional, 0, len(professionals))
	for _, p := range professionals {
		if !req.IncludeInactive && p.Status != domain.StatusActive {
			continue
		}
		if !search.Matches([]string{p.Name, p.RUT, p.Specialty, p.Email, p.ID}, req.Query) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *service) SaveProfessional(ctx context.Context, req domain.SaveProfessionalRequest) (*domain.Professional, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	status, err := normalizeStatus(req.Status)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	operator := operatorctx.OperatorFromContext(ctx)

	professional := &domain.Professional{
		ID:        strings.TrimSpace(req.ID),
		Name:      name,
		RUT:       strings.TrimSpace(req.RUT),
		Email:     strings.TrimSpace(req.Email),
		Specialty: strings.TrimSpace(req.Specialty),
		RoleIDs:   datatypes.NewJSONSlice(req.RoleIDs),
		Status:    status,
		UpdatedAt: now,
		UpdatedBy: operator,
	}
	if professional.ID == "" {
		professional.ID = s.genID.Generate().String()
		professional.CreatedAt = now
		professional.CreatedBy = operator
	} else if existing, err := s.repo.FindProfessional(ctx, s.db, professional.ID); err != nil {
		return nil, err
	} else if existing != nil {
		professional.CreatedAt = existing.CreatedAt
		professional.CreatedBy = existing.CreatedBy
	} else {
		professional.CreatedAt = now
		professional.CreatedBy = operator
	}

	if err := s.repo.SaveProfessional(ctx, s.db, professional); err != nil {
		return nil, err
	}
	return professional, nil
}

func (s *service) ListProcedures(ctx context.Context, req domain.ListRequest) ([]*domain.Procedure, error) {
	procedures, err := s.repo.ListProcedures(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Procedure, 0, len(procedures))
	for _, p := range procedures {
		if !req.IncludeInactive && p.Status != domain.StatusActive {
			continue
		}
		if !search.Matches([]string{p.Name, p.Code, p.ID}, req.Query) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *service) SaveProcedure(ctx context.Context, req domain.SaveProcedureRequest) (*domain.Procedure, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	status, err := normalizeStatus(req.Status)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	operator := operatorctx.OperatorFromContext(ctx)

	procedure := &domain.Procedure{
		ID:        strings.TrimSpace(req.ID),
		Code:      strings.TrimSpace(req.Code),
		Name:      name,
		RoleIDs:   datatypes.NewJSONSlice(req.RoleIDs),
		Status:    status,
		UpdatedAt: now,
		UpdatedBy: operator,
	}
	if procedure.ID == "" {
		procedure.ID = s.genID.Generate().String()
		procedure.CreatedAt = now
		procedure.CreatedBy = operator
	} else if existing, err := s.repo.FindProcedure(ctx, s.db, procedure.ID); err != nil {
		return nil, err
	} else if existing != nil {
		procedure.CreatedAt = existing.CreatedAt
		procedure.CreatedBy = existing.CreatedBy
		// Saving procedure metadata must not wipe the tariff table.
		procedure.Tariffs = existing.Tariffs
	} else {
		procedure.CreatedAt = now
		procedure.CreatedBy = operator
	}

	if err := s.repo.SaveProcedure(ctx, s.db, procedure); err != nil {
		return nil, err
	}
	return procedure, nil
}

func (s *service) GetProcedure(ctx context.Context, id string) (*domain.Procedure, error) {
	procedure, err := s.repo.FindProcedure(ctx, s.db, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if procedure == nil {
		return nil, domain.ErrNotFound
	}
	return procedure, nil
}

func (s *service) UpdateProcedureTariffs(ctx context.Context, id string, table tariff.Table) (*domain.Procedure, error) {
	procedure, err := s.GetProcedure(ctx, id)
	if err != nil {
		return nil, err
	}

	procedure.Tariffs = datatypes.NewJSONType(table)
	procedure.UpdatedAt = s.clock.Now()
	procedure.UpdatedBy = operatorctx.OperatorFromContext(ctx)

	if err := s.repo.SaveProcedure(ctx, s.db, procedure); err != nil {
		return nil, err
	}
	return procedure, nil
}

func normalizeStatus(status domain.Status) (domain.Status, error) {
	if status == "" {
		return domain.StatusActive, nil
	}
	if !status.Valid() {
		return "", domain.ErrInvalidStatus
	}
	return status, nil
}
