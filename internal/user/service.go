package user

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/akr0407/nuxt-base-project/internal"
	"github.com/akr0407/nuxt-base-project/internal/auth"
	"github.com/akr0407/nuxt-base-project/internal/rbac"
	"github.com/akr0407/nuxt-base-project/pkg/logger"
)

type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int) *Service {
	return &Service{repo: repo, bcryptCost: bcryptCost, logger: logger.LoggerWrapper()}
}

func (s *Service) List(params ListParams) (*ListResponse, error) {
	params.Normalize()

	users, total, err := s.repo.List(params)
	if err != nil {
		return nil, internal.NewInternalError("failed to list users", err)
	}

	return &ListResponse{
		Users:   users,
		Total:   total,
		Page:    params.Page,
		PerPage: params.PerPage,
	}, nil
}

func (s *Service) Get(id string) (*User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if user == nil {
		return nil, internal.NewNotFoundError("User not found", internal.ErrCodeResourceNotFound)
	}
	return user, nil
}

// Create provisions a user inside one tenant. The tenant must be active;
// deactivating a tenant freezes its member list.
func (s *Service) Create(dto CreateUserDTO, tenantID string) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	active, err := s.repo.TenantIsActive(tenantID)
	if err != nil {
		return nil, internal.NewInternalError("failed to check tenant", err)
	}
	if !active {
		return nil, internal.ErrTenantInactive
	}

	email := auth.NormalizeEmail(dto.Email)
	taken, err := s.repo.EmailExists(email)
	if err != nil {
		return nil, internal.NewInternalError("failed to check email", err)
	}
	if taken {
		return nil, internal.NewConflictError("Email is already registered", internal.ErrCodeEmailTaken)
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	now := time.Now()
	user := &User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      dto.Name,
		IsActive:  true,
		TenantID:  &tenantID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(user, hash, dto.RoleIDs); err != nil {
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created", "user_id", user.ID, "tenant_id", tenantID)
	return s.Get(user.ID)
}

func (s *Service) Update(id string, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if dto.Email != nil {
		email := auth.NormalizeEmail(*dto.Email)
		if email != user.Email {
			taken, err := s.repo.EmailExists(email)
			if err != nil {
				return nil, internal.NewInternalError("failed to check email", err)
			}
			if taken {
				return nil, internal.NewConflictError("Email is already registered", internal.ErrCodeEmailTaken)
			}
		}
		user.Email = email
	}
	if dto.Name != nil {
		user.Name = dto.Name
	}
	if dto.IsActive != nil {
		user.IsActive = *dto.IsActive
	}
	user.UpdatedAt = time.Now()

	var passwordHash *string
	if dto.Password != nil {
		hash, err := auth.HashPassword(*dto.Password, s.bcryptCost)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
		passwordHash = &hash
	}

	if err := s.repo.Update(user, passwordHash, dto.RoleIDs); err != nil {
		return nil, internal.NewInternalError("failed to update user", err)
	}

	s.logger.Info("user updated", "user_id", user.ID)
	return s.Get(user.ID)
}

// Delete removes a user, their role assignments and their sessions. The
// last holder of the super_admin role cannot be deleted: the system must
// always keep at least one administrator who can reach every tenant.
func (s *Service) Delete(id string) error {
	user, err := s.Get(id)
	if err != nil {
		return err
	}

	if holdsRole(user, rbac.RoleSuperAdmin) {
		holders, err := s.repo.CountRoleHolders(rbac.RoleSuperAdmin)
		if err != nil {
			return internal.NewInternalError("failed to count admins", err)
		}
		if holders <= 1 {
			return internal.ErrLastAdmin
		}
	}

	if err := s.repo.Delete(id); err != nil {
		return internal.NewInternalError("failed to delete user", err)
	}

	s.logger.Info("user deleted", "user_id", id)
	return nil
}

func holdsRole(u *User, roleName string) bool {
	for _, role := range u.Roles {
		if role.Name == roleName {
			return true
		}
	}
	return false
}
