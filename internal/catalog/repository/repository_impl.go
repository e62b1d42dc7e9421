package repository

import (
	"context"
	"errors"

	"github.com/sistemascrenat/liquidaciones-sub000/internal/catalog/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListRoles(ctx context.Context, db *gorm.DB) ([]*domain.Role, error) {
	var roles []*domain.Role
	if err := db.WithContext(ctx).Order("name asc, id asc").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *repo) FindRole(ctx context.Context, db *gorm.DB, id string) (*domain.Role, error) {
	var role domain.Role
	err := db.WithContext(ctx).Where("id = ?", id).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *repo) SaveRole(ctx context.Context, db *gorm.DB, role *domain.Role) error {
	return upsert(ctx, db, role)
}

func (r *repo) ListClinics(ctx context.Context, db *gorm.DB) ([]*domain.Clinic, error) {
	var clinics []*domain.Clinic
	if err := db.WithContext(ctx).Order("name asc, id asc").Find(&clinics).Error; err != nil {
		return nil, err
	}
	return clinics, nil
}

func (r *repo) FindClinic(ctx context.Context, db *gorm.DB, id string) (*domain.Clinic, error) {
	var clinic domain.Clinic
	err := db.WithContext(ctx).Where("id = ?", id).First(&clinic).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &clinic, nil
}

func (r *repo) SaveClinic(ctx context.Context, db *gorm.DB, clinic *domain.Clinic) error {
	return upsert(ctx, db, clinic)
}

func (r *repo) ListProfessionals(ctx context.Context, db *gorm.DB) ([]*domain.Professional, error) {
	var professionals []*domain.Professional
	if err := db.WithContext(ctx).Order("name asc, id asc").Find(&professionals).Error; err != nil {
		return nil, err
	}
	return professionals, nil
}

func (r *repo) FindProfessional(ctx context.Context, db *gorm.DB, id string) (*domain.Professional, error) {
	var professional domain.Professional
	err := db.WithContext(ctx).Where("id = ?", id).First(&professional).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &professional, nil
}

func (r *repo) SaveProfessional(ctx context.Context, db *gorm.DB, professional *domain.Professional) error {
	return upsert(ctx, db, professional)
}

func (r *repo) ListProcedures(ctx context.Context, db *gorm.DB) ([]*domain.Procedure, error) {
	var procedures []*domain.Procedure
	if err := db.WithContext(ctx).Order("name asc, id asc").Find(&procedures).Error; err != nil {
		return nil, err
	}
	return procedures, nil
}

func (r *repo) FindProcedure(ctx context.Context, db *gorm.DB, id string) (*domain.Procedure, error) {
	var procedure domain.Procedure
	err := db.WithContext(ctx).Where("id = ?", id).First(&procedure).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &procedure, nil
}

func (r *repo) SaveProcedure(ctx context.Context, db *gorm.DB, procedure *domain.Procedure) error {
	return upsert(ctx, db, procedure)
}

// upsert writes with merge-by-id semantics so re-imported catalog entries
// update in place instead of conflicting.
func upsert(ctx context.Context, db *gorm.DB, value any) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(value).Error
}
