package auth

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akr0407/nuxt-base-project/internal/auth"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CredentialsByEmail loads everything the login flow needs in one query,
// including whether the owning tenant (if any) is active. Returns nil, nil
// when no such user exists.
func (r *Repository) CredentialsByEmail(email string) (*auth.Credentials, error) {
	query := `
		SELECT u.id, u.email, u.password_hash, u.is_active, u.tenant_id,
		       COALESCE(t.is_active, true) AS tenant_active
		FROM users u
		LEFT JOIN tenants t ON t.id = u.tenant_id
		WHERE u.email = ?`

	var creds auth.Credentials
	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&creds.UserID, &creds.Email, &creds.PasswordHash, &creds.IsActive, &creds.TenantID, &creds.TenantActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &creds, nil
}

func (r *Repository) PrincipalByID(id string) (*auth.Principal, error) {
	query := `SELECT id, email, name, is_active, is_super_admin, tenant_id FROM users WHERE id = ?`

	var p auth.Principal
	row := r.db.Raw(query, id).Row()
	if err := row.Scan(&p.ID, &p.Email, &p.Name, &p.IsActive, &p.IsSuperAdmin, &p.TenantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repository) EmailExists(email string) (bool, error) {
	var count int64
	if err := r.db.Table("users").Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateWithDefaultRole inserts the user and assigns the default user role
// in one transaction, so a registration can never produce a role-less
// account.
func (r *Repository) CreateWithDefaultRole(email, passwordHash string, name *string) (*auth.Principal, error) {
	userID := uuid.NewString()
	now := time.Now()

	err := r.db.Transaction(func(tx *gorm.DB) error {
		insertUser := `
			INSERT INTO users (id, email, password_hash, name, is_active, is_super_admin, tenant_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, true, false, NULL, ?, ?)`
		if err := tx.Exec(insertUser, userID, email, passwordHash, name, now, now).Error; err != nil {
			return err
		}

		assignRole := `
			INSERT INTO user_roles (id, user_id, role_id)
			SELECT ?, ?, id FROM roles WHERE name = 'tenant_user'`
		return tx.Exec(assignRole, uuid.NewString(), userID).Error
	})
	if err != nil {
		return nil, err
	}

	return r.PrincipalByID(userID)
}

func (r *Repository) Create(token *auth.RefreshToken) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	return r.db.Create(token).Error
}

func (r *Repository) FindByToken(token string) (*auth.RefreshToken, error) {
	var record auth.RefreshToken
	err := r.db.Where("token = ?", token).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *Repository) Revoke(token string) error {
	return r.db.Model(&auth.RefreshToken{}).
		Where("token = ? AND revoked_at IS NULL", token).
		Update("revoked_at", time.Now()).Error
}

func (r *Repository) RevokeAllForUser(userID string) error {
	return r.db.Model(&auth.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", time.Now()).Error
}

// Rotate revokes the presented token and inserts its successor atomically.
// The revocation is guarded on revoked_at being null so a concurrent
// RevokeAllForUser cannot be silently undone, and a token that lost the
// race aborts the rotation instead of minting a successor.
func (r *Repository) Rotate(oldToken string, successor *auth.RefreshToken) error {
	if successor.CreatedAt.IsZero() {
		successor.CreatedAt = time.Now()
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&auth.RefreshToken{}).
			Where("token = ? AND revoked_at IS NULL", oldToken).
			Update("revoked_at", time.Now())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(successor).Error
	})
}
