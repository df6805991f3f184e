package tenant

import (
	"errors"

	"gorm.io/gorm"

	"github.com/akr0407/nuxt-base-project/internal/tenant"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List() ([]tenant.Tenant, error) {
	var tenants []tenant.Tenant
	if err := r.db.Order("created_at ASC").Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

func (r *Repository) GetByID(id string) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := r.db.Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repository) SlugExists(slug string) (bool, error) {
	var count int64
	if err := r.db.Model(&tenant.Tenant{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) Create(t *tenant.Tenant) error {
	return r.db.Create(t).Error
}

func (r *Repository) Update(t *tenant.Tenant) error {
	return r.db.Save(t).Error
}

// Delete relies on ON DELETE CASCADE for users, tenant-scoped roles,
// settings and theme templates.
func (r *Repository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&tenant.Tenant{}).Error
}
