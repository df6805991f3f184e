package user

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akr0407/nuxt-base-project/internal/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// userRow maps the users table without the role association; roles are
// loaded separately to keep the listing query simple.
type userRow struct {
	ID           string
	Email        string
	Name         *string
	IsActive     bool
	IsSuperAdmin bool
	TenantID     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

func (r *Repository) List(params user.ListParams) ([]user.User, int64, error) {
	query := r.db.Model(&userRow{})
	if params.TenantID != nil {
		query = query.Where("tenant_id = ?", *params.TenantID)
	}
	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("email LIKE ? OR name LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []userRow
	err := query.Order("created_at ASC").
		Offset(params.Offset()).
		Limit(params.PerPage).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		u := fromRow(row)
		roles, err := r.rolesFor(row.ID)
		if err != nil {
			return nil, 0, err
		}
		u.Roles = roles
		users = append(users, u)
	}
	return users, total, nil
}

func (r *Repository) GetByID(id string) (*user.User, error) {
	var row userRow
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	u := fromRow(row)
	roles, err := r.rolesFor(id)
	if err != nil {
		return nil, err
	}
	u.Roles = roles
	return &u, nil
}

func (r *Repository) EmailExists(email string) (bool, error) {
	var count int64
	if err := r.db.Model(&userRow{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) TenantIsActive(tenantID string) (bool, error) {
	var active bool
	row := r.db.Raw(`SELECT is_active FROM tenants WHERE id = ?`, tenantID).Row()
	if err := row.Scan(&active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return active, nil
}

func (r *Repository) CountRoleHolders(roleName string) (int64, error) {
	var count int64
	err := r.db.Raw(`
		SELECT COUNT(*)
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		WHERE r.name = ?`, roleName).Row().Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) Create(u *user.User, passwordHash string, roleIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		insert := `
			INSERT INTO users (id, email, password_hash, name, is_active, is_super_admin, tenant_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, false, ?, ?, ?)`
		err := tx.Exec(insert, u.ID, u.Email, passwordHash, u.Name, u.IsActive, u.TenantID, u.CreatedAt, u.UpdatedAt).Error
		if err != nil {
			return err
		}
		return assignRoles(tx, u.ID, roleIDs)
	})
}

// Update saves profile fields and optionally the password hash; a non-nil
// roleIDs replaces the user's role assignments (delete then recreate)
// inside the same transaction so the user never observably holds zero
// roles mid-update.
func (r *Repository) Update(u *user.User, passwordHash *string, roleIDs *[]string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"email":      u.Email,
			"name":       u.Name,
			"is_active":  u.IsActive,
			"updated_at": u.UpdatedAt,
		}
		if passwordHash != nil {
			updates["password_hash"] = *passwordHash
		}
		if err := tx.Model(&userRow{}).Where("id = ?", u.ID).Updates(updates).Error; err != nil {
			return err
		}

		if roleIDs == nil {
			return nil
		}
		if err := tx.Exec(`DELETE FROM user_roles WHERE user_id = ?`, u.ID).Error; err != nil {
			return err
		}
		return assignRoles(tx, u.ID, *roleIDs)
	})
}

func (r *Repository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM user_roles WHERE user_id = ?`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM refresh_tokens WHERE user_id = ?`, id).Error; err != nil {
			return err
		}
		return tx.Exec(`DELETE FROM users WHERE id = ?`, id).Error
	})
}

func (r *Repository) rolesFor(userID string) ([]user.RoleRef, error) {
	query := `
		SELECT r.id, r.name
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = ?
		ORDER BY r.name ASC`

	rows, err := r.db.Raw(query, userID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := []user.RoleRef{}
	for rows.Next() {
		var ref user.RoleRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func assignRoles(tx *gorm.DB, userID string, roleIDs []string) error {
	for _, roleID := range roleIDs {
		err := tx.Exec(
			`INSERT INTO user_roles (id, user_id, role_id) VALUES (?, ?, ?)`,
			uuid.NewString(), userID, roleID,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func fromRow(row userRow) user.User {
	return user.User{
		ID:           row.ID,
		Email:        row.Email,
		Name:         row.Name,
		IsActive:     row.IsActive,
		IsSuperAdmin: row.IsSuperAdmin,
		TenantID:     row.TenantID,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
