package tenant

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akr0407/nuxt-base-project/internal"
	"github.com/akr0407/nuxt-base-project/internal/auth"
	"github.com/akr0407/nuxt-base-project/pkg/logger"
)

// ThemeInitializer seeds a new tenant's default theme settings. Implemented
// by the settings service; an interface here keeps the dependency one-way.
type ThemeInitializer interface {
	EnsureDefaultTheme(tenantID string) error
}

type Service struct {
	repo   Repository
	themes ThemeInitializer
	logger *slog.Logger
}

func NewService(repo Repository, themes ThemeInitializer) *Service {
	return &Service{repo: repo, themes: themes, logger: logger.LoggerWrapper()}
}

// List returns the tenants the principal may see: all of them for a
// super-admin, only their own for everyone else.
func (s *Service) List(principal *auth.Principal) ([]Tenant, error) {
	if IsSuperAdmin(principal) {
		tenants, err := s.repo.List()
		if err != nil {
			return nil, internal.NewInternalError("failed to list tenants", err)
		}
		return tenants, nil
	}

	if principal.TenantID == nil {
		return []Tenant{}, nil
	}
	own, err := s.Get(*principal.TenantID)
	if err != nil {
		return nil, err
	}
	return []Tenant{*own}, nil
}

func (s *Service) Get(id string) (*Tenant, error) {
	tenant, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load tenant", err)
	}
	if tenant == nil {
		return nil, internal.NewNotFoundError("Tenant not found", internal.ErrCodeResourceNotFound)
	}
	return tenant, nil
}

// Create provisions a tenant with its default theme settings. Super-admin
// only, enforced at the route.
func (s *Service) Create(dto CreateTenantDTO) (*Tenant, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	slug := strings.ToLower(strings.TrimSpace(dto.Slug))
	taken, err := s.repo.SlugExists(slug)
	if err != nil {
		return nil, internal.NewInternalError("failed to check slug", err)
	}
	if taken {
		return nil, internal.NewConflictError("Tenant slug is already in use", internal.ErrCodeTenantSlugTaken)
	}

	now := time.Now()
	tenant := &Tenant{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(dto.Name),
		Slug:      slug,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(tenant); err != nil {
		return nil, internal.NewInternalError("failed to create tenant", err)
	}

	if err := s.themes.EnsureDefaultTheme(tenant.ID); err != nil {
		s.logger.Error("failed to seed default theme for tenant", "tenant_id", tenant.ID, "error", err)
	}

	s.logger.Info("tenant created", "tenant_id", tenant.ID, "slug", tenant.Slug)
	return tenant, nil
}

func (s *Service) Update(id string, dto UpdateTenantDTO) (*Tenant, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	tenant, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		tenant.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.IsActive != nil {
		tenant.IsActive = *dto.IsActive
	}
	tenant.UpdatedAt = time.Now()

	if err := s.repo.Update(tenant); err != nil {
		return nil, internal.NewInternalError("failed to update tenant", err)
	}

	s.logger.Info("tenant updated", "tenant_id", tenant.ID)
	return tenant, nil
}

// Delete removes a tenant and, through database cascades, its users,
// tenant-scoped roles and settings.
func (s *Service) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return internal.NewInternalError("failed to delete tenant", err)
	}

	s.logger.Info("tenant deleted", "tenant_id", id)
	return nil
}
