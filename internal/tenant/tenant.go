package tenant

import (
	"net/http"
	"time"

	"github.com/akr0407/nuxt-base-project/internal"
	"github.com/akr0407/nuxt-base-project/internal/auth"
)

// HeaderTenantID is the explicit tenant override header. Fixed string:
// client code matches it literally. Only honored for super-admins.
const HeaderTenantID = "X-Tenant-Id"

type Tenant struct {
	ID        string    `json:"id" gorm:"primaryKey;column:id"`
	Name      string    `json:"name" gorm:"column:name"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;column:slug"`
	IsActive  bool      `json:"isActive" gorm:"column:is_active"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (Tenant) TableName() string { return "tenants" }

type Repository interface {
	List() ([]Tenant, error)
	GetByID(id string) (*Tenant, error)
	SlugExists(slug string) (bool, error)
	Create(tenant *Tenant) error
	Update(tenant *Tenant) error
	Delete(id string) error
}

// ResolveTenantID derives the acting tenant scope for a request. A regular
// user is always pinned to their own tenant, whatever headers they send.
// A super-admin has no implicit tenant and must opt in per request via the
// override header; without it they act cross-tenant (nil).
func ResolveTenantID(principal *auth.Principal, explicitTenantID string) *string {
	if principal == nil {
		return nil
	}
	if principal.IsSuperAdmin {
		if explicitTenantID != "" {
			return &explicitTenantID
		}
		return nil
	}
	return principal.TenantID
}

// RequireTenantID is ResolveTenantID for write paths that must scope data
// to exactly one tenant: a nil resolution is an error, not cross-tenant.
func RequireTenantID(principal *auth.Principal, explicitTenantID string) (string, error) {
	id := ResolveTenantID(principal, explicitTenantID)
	if id == nil || *id == "" {
		return "", internal.ErrTenantRequired
	}
	return *id, nil
}

// IsSuperAdmin is trivial but centralized: every tenant-scoped query
// branches on it.
func IsSuperAdmin(principal *auth.Principal) bool {
	return principal != nil && principal.IsSuperAdmin
}

// ScopeFromRequest resolves the tenant scope from an authenticated request,
// combining the context principal with the override header.
func ScopeFromRequest(r *http.Request) (*auth.Principal, *string, error) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		return nil, nil, internal.ErrUnauthenticated
	}
	return principal, ResolveTenantID(principal, r.Header.Get(HeaderTenantID)), nil
}
