package rbac

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akr0407/nuxt-base-project/internal/rbac"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// RolesForUser loads the user's assigned roles with their permission grants
// preloaded. An unknown user yields an empty slice, not an error.
func (r *Repository) RolesForUser(userID string) ([]rbac.Role, error) {
	var roleIDs []string
	if err := r.db.Table("user_roles").
		Where("user_id = ?", userID).
		Pluck("role_id", &roleIDs).Error; err != nil {
		return nil, err
	}
	if len(roleIDs) == 0 {
		return []rbac.Role{}, nil
	}

	var roles []rbac.Role
	if err := r.db.Preload("Permissions").
		Where("id IN ?", roleIDs).
		Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *Repository) ListRoles(tenantID *string) ([]rbac.Role, error) {
	query := r.db.Preload("Permissions").Order("name ASC")
	if tenantID != nil {
		query = query.Where("is_global = true OR tenant_id = ?", *tenantID)
	}

	var roles []rbac.Role
	if err := query.Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *Repository) GetRole(id string) (*rbac.Role, error) {
	var role rbac.Role
	err := r.db.Preload("Permissions").Where("id = ?", id).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *Repository) RoleNameExists(name string) (bool, error) {
	var count int64
	if err := r.db.Model(&rbac.Role{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) CreateRole(role *rbac.Role, permissionIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Permissions").Create(role).Error; err != nil {
			return err
		}
		return insertGrants(tx, role.ID, permissionIDs)
	})
}

// UpdateRole saves the role row and, when permissionIDs is non-nil,
// replaces every grant inside the same transaction. Delete-then-recreate
// keeps the grant set exactly equal to the request without diffing.
func (r *Repository) UpdateRole(role *rbac.Role, permissionIDs *[]string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Permissions").Save(role).Error; err != nil {
			return err
		}
		if permissionIDs == nil {
			return nil
		}
		if err := tx.Exec(`DELETE FROM role_permissions WHERE role_id = ?`, role.ID).Error; err != nil {
			return err
		}
		return insertGrants(tx, role.ID, *permissionIDs)
	})
}

func (r *Repository) DeleteRole(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM role_permissions WHERE role_id = ?`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM user_roles WHERE role_id = ?`, id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&rbac.Role{}).Error
	})
}

func (r *Repository) ListPermissions() ([]rbac.Permission, error) {
	var perms []rbac.Permission
	if err := r.db.Order("name ASC").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *Repository) PermissionIDsExist(ids []string) (bool, error) {
	var count int64
	if err := r.db.Model(&rbac.Permission{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return false, err
	}
	return count == int64(len(ids)), nil
}

func insertGrants(tx *gorm.DB, roleID string, permissionIDs []string) error {
	for _, permID := range permissionIDs {
		err := tx.Exec(
			`INSERT INTO role_permissions (id, role_id, permission_id) VALUES (?, ?, ?)`,
			uuid.NewString(), roleID, permID,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}
