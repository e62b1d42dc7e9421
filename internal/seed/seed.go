package seed

import (
	"context"
	"errors"
	"time"

	catalogdomain "github.com/sistemascrenat/liquidaciones-sub000/internal/catalog/domain"
	"gorm.io/gorm"
)

// The role catalog is closed: a surgical team has exactly these five payable
// functions, and tariff honoraria maps key on their ids.
var defaultRoles = []catalogdomain.Role{
	{ID: "cirujano", Name: "Cirujano"},
	{ID: "anestesista", Name: "Anestesista"},
	{ID: "ayudante1", Name: "Primer Ayudante"},
	{ID: "ayudante2", Name: "Segundo Ayudante"},
	{ID: "arsenalera", Name: "Arsenalera"},
}

// EnsureRoleCatalog seeds the fixed role catalog on startup bootstrap.
// Existing rows are left untouched so renames made by operators survive.
func EnsureRoleCatalog(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, role := range defaultRoles {
			var existing catalogdomain.Role
			err := tx.WithContext(ctx).Where("id = ?", role.ID).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			now := time.Now().UTC()
			role.Status = catalogdomain.StatusActive
			role.CreatedAt = now
			role.UpdatedAt = now
			if err := tx.WithContext(ctx).Create(&role).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
