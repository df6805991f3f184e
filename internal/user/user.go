package user

import (
	"time"
)

// User is the admin-facing view of an account, roles included. The
// password hash never leaves the repository layer.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         *string   `json:"name"`
	IsActive     bool      `json:"isActive"`
	IsSuperAdmin bool      `json:"isSuperAdmin"`
	TenantID     *string   `json:"tenantId"`
	Roles        []RoleRef `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type RoleRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListParams scope and page a user listing. TenantID nil means cross-tenant
// (super-admin without an override).
type ListParams struct {
	TenantID *string
	Search   string
	Page     int
	PerPage  int
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 || p.PerPage > 100 {
		p.PerPage = 20
	}
}

func (p ListParams) Offset() int { return (p.Page - 1) * p.PerPage }

type Repository interface {
	List(params ListParams) ([]User, int64, error)
	GetByID(id string) (*User, error)
	EmailExists(email string) (bool, error)
	TenantIsActive(tenantID string) (bool, error)
	CountRoleHolders(roleName string) (int64, error)
	Create(user *User, passwordHash string, roleIDs []string) error
	Update(user *User, passwordHash *string, roleIDs *[]string) error
	Delete(id string) error
}
