package rbac

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akr0407/nuxt-base-project/internal"
	"github.com/akr0407/nuxt-base-project/pkg/logger"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, logger: logger.LoggerWrapper()}
}

// PermissionsFor unions the permission names of every role the user holds.
// A user with no roles, or no user at all, resolves to an empty set rather
// than an error; authorization failures stay distinct from lookup failures.
func (s *Service) PermissionsFor(userID string) ([]string, error) {
	roles, err := s.repo.RolesForUser(userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var names []string
	for _, role := range roles {
		for _, perm := range role.Permissions {
			if _, ok := seen[perm.Name]; ok {
				continue
			}
			seen[perm.Name] = struct{}{}
			names = append(names, perm.Name)
		}
	}

	sort.Strings(names)
	return names, nil
}

// RolesFor returns the names of the user's assigned roles.
func (s *Service) RolesFor(userID string) ([]string, error) {
	roles, err := s.repo.RolesForUser(userID)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Service) HasPermission(userID, permission string) (bool, error) {
	perms, err := s.PermissionsFor(userID)
	if err != nil {
		return false, err
	}
	for _, p := range perms {
		if p == permission {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) HasAnyPermission(userID string, permissions ...string) (bool, error) {
	perms, err := s.PermissionsFor(userID)
	if err != nil {
		return false, err
	}
	set := toSet(perms)
	for _, p := range permissions {
		if _, ok := set[p]; ok {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) HasAllPermissions(userID string, permissions ...string) (bool, error) {
	perms, err := s.PermissionsFor(userID)
	if err != nil {
		return false, err
	}
	set := toSet(perms)
	for _, p := range permissions {
		if _, ok := set[p]; !ok {
			return false, nil
		}
	}
	return true, nil
}

// ListRoles returns the roles visible in a tenant scope: global roles plus
// the tenant's own. A nil tenantID (super-admin without an override) lists
// everything.
func (s *Service) ListRoles(tenantID *string) ([]Role, error) {
	roles, err := s.repo.ListRoles(tenantID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list roles", err)
	}
	return roles, nil
}

func (s *Service) GetRole(id string) (*Role, error) {
	role, err := s.repo.GetRole(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load role", err)
	}
	if role == nil {
		return nil, internal.NewNotFoundError("Role not found", internal.ErrCodeResourceNotFound)
	}
	return role, nil
}

// CreateRole creates a role in the given tenant scope, or a global role
// when dto.IsGlobal is set (in which case tenantID is ignored).
func (s *Service) CreateRole(dto CreateRoleDTO, tenantID *string) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(dto.Name)
	taken, err := s.repo.RoleNameExists(name)
	if err != nil {
		return nil, internal.NewInternalError("failed to check role name", err)
	}
	if taken {
		return nil, internal.NewConflictError("Role name is already in use", internal.ErrCodeRoleNameTaken)
	}

	if err := s.checkPermissionIDs(dto.PermissionIDs); err != nil {
		return nil, err
	}

	now := time.Now()
	role := &Role{
		ID:          uuid.NewString(),
		Name:        name,
		Description: dto.Description,
		IsGlobal:    dto.IsGlobal,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if !dto.IsGlobal {
		role.TenantID = tenantID
	}

	if err := s.repo.CreateRole(role, dto.PermissionIDs); err != nil {
		return nil, internal.NewInternalError("failed to create role", err)
	}

	s.logger.Info("role created", "role_id", role.ID, "name", role.Name)
	return s.GetRole(role.ID)
}

func (s *Service) UpdateRole(id string, dto UpdateRoleDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	role, err := s.GetRole(id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if name != role.Name {
			taken, err := s.repo.RoleNameExists(name)
			if err != nil {
				return nil, internal.NewInternalError("failed to check role name", err)
			}
			if taken {
				return nil, internal.NewConflictError("Role name is already in use", internal.ErrCodeRoleNameTaken)
			}
			role.Name = name
		}
	}
	if dto.Description != nil {
		role.Description = dto.Description
	}

	if dto.PermissionIDs != nil {
		if err := s.checkPermissionIDs(*dto.PermissionIDs); err != nil {
			return nil, err
		}
	}

	role.UpdatedAt = time.Now()
	if err := s.repo.UpdateRole(role, dto.PermissionIDs); err != nil {
		return nil, internal.NewInternalError("failed to update role", err)
	}

	s.logger.Info("role updated", "role_id", role.ID)
	return s.GetRole(role.ID)
}

// DeleteRole removes a role and its assignments. The seeded global roles
// are load-bearing (registration and the seeder reference them by name)
// and cannot be deleted.
func (s *Service) DeleteRole(id string) error {
	role, err := s.GetRole(id)
	if err != nil {
		return err
	}

	switch role.Name {
	case RoleSuperAdmin, RoleTenantAdmin, RoleTenantUser:
		return internal.NewForbiddenError("Built-in roles cannot be deleted", internal.ErrCodeForbidden)
	}

	if err := s.repo.DeleteRole(id); err != nil {
		return internal.NewInternalError("failed to delete role", err)
	}

	s.logger.Info("role deleted", "role_id", id, "name", role.Name)
	return nil
}

func (s *Service) ListPermissions() ([]Permission, error) {
	perms, err := s.repo.ListPermissions()
	if err != nil {
		return nil, internal.NewInternalError("failed to list permissions", err)
	}
	return perms, nil
}

func (s *Service) checkPermissionIDs(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	ok, err := s.repo.PermissionIDsExist(ids)
	if err != nil {
		return internal.NewInternalError("failed to check permissions", err)
	}
	if !ok {
		return internal.NewValidationFieldError("permissionIds", "one or more permissions do not exist", "unknown_permission")
	}
	return nil
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
