package rbac

import (
	"errors"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/akr0407/nuxt-base-project/internal"
)

func TestRBAC(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "RBAC Module Suite")
}

type mockRepository struct {
	userRoles map[string][]Role
	roles     map[string]*Role
	failWith  error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		userRoles: map[string][]Role{},
		roles:     map[string]*Role{},
	}
}

func perms(names ...string) []Permission {
	out := make([]Permission, len(names))
	for i, n := range names {
		out[i] = Permission{ID: "perm-" + n, Name: n}
	}
	return out
}

func (m *mockRepository) RolesForUser(userID string) ([]Role, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.userRoles[userID], nil
}

func (m *mockRepository) ListRoles(tenantID *string) ([]Role, error) {
	var out []Role
	for _, role := range m.roles {
		if tenantID == nil || role.IsGlobal || (role.TenantID != nil && *role.TenantID == *tenantID) {
			out = append(out, *role)
		}
	}
	return out, nil
}

func (m *mockRepository) GetRole(id string) (*Role, error) {
	return m.roles[id], nil
}

func (m *mockRepository) RoleNameExists(name string) (bool, error) {
	for _, role := range m.roles {
		if role.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepository) CreateRole(role *Role, permissionIDs []string) error {
	role.Permissions = nil
	for _, id := range permissionIDs {
		role.Permissions = append(role.Permissions, Permission{ID: id, Name: id})
	}
	m.roles[role.ID] = role
	return nil
}

func (m *mockRepository) UpdateRole(role *Role, permissionIDs *[]string) error {
	stored := m.roles[role.ID]
	if stored == nil {
		return errors.New("role not found")
	}
	*stored = *role
	if permissionIDs != nil {
		stored.Permissions = nil
		for _, id := range *permissionIDs {
			stored.Permissions = append(stored.Permissions, Permission{ID: id, Name: id})
		}
	}
	return nil
}

func (m *mockRepository) DeleteRole(id string) error {
	delete(m.roles, id)
	return nil
}

func (m *mockRepository) ListPermissions() ([]Permission, error) {
	return perms("users:read", "users:create"), nil
}

func (m *mockRepository) PermissionIDsExist(ids []string) (bool, error) {
	for _, id := range ids {
		if id == "missing" {
			return false, nil
		}
	}
	return true, nil
}

var _ = ginkgo.Describe("Permission resolution", func() {
	var (
		repo    *mockRepository
		service *Service
	)

	ginkgo.BeforeEach(func() {
		repo = newMockRepository()
		service = NewService(repo)
	})

	ginkgo.Describe("PermissionsFor", func() {
		ginkgo.It("unions permissions across roles without duplicates", func() {
			// Given: R1={a,b}, R2={b,c}
			repo.userRoles["user-1"] = []Role{
				{ID: "r1", Name: "editor", Permissions: perms("users:read", "users:update")},
				{ID: "r2", Name: "viewer", Permissions: perms("users:update", "roles:read")},
			}

			resolved, err := service.PermissionsFor("user-1")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(resolved).To(gomega.ConsistOf("users:read", "users:update", "roles:read"))
		})

		ginkgo.It("resolves an unknown user to an empty set, not an error", func() {
			resolved, err := service.PermissionsFor("nobody")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(resolved).To(gomega.BeEmpty())
		})

		ginkgo.It("is order-independent", func() {
			repo.userRoles["a"] = []Role{
				{ID: "r1", Permissions: perms("x", "y")},
				{ID: "r2", Permissions: perms("z")},
			}
			repo.userRoles["b"] = []Role{
				{ID: "r2", Permissions: perms("z")},
				{ID: "r1", Permissions: perms("y", "x")},
			}

			first, err := service.PermissionsFor("a")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			second, err := service.PermissionsFor("b")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(first).To(gomega.Equal(second))
		})
	})

	ginkgo.Describe("predicates", func() {
		ginkgo.BeforeEach(func() {
			repo.userRoles["user-1"] = []Role{
				{ID: "r1", Name: "viewer", Permissions: perms("users:read", "roles:read")},
			}
		})

		ginkgo.It("HasPermission checks a single membership", func() {
			ok, err := service.HasPermission("user-1", "users:read")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(ok).To(gomega.BeTrue())

			ok, err = service.HasPermission("user-1", "users:delete")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(ok).To(gomega.BeFalse())
		})

		ginkgo.It("HasAnyPermission passes when at least one matches", func() {
			ok, err := service.HasAnyPermission("user-1", "users:delete", "roles:read")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(ok).To(gomega.BeTrue())
		})

		ginkgo.It("HasAllPermissions requires every name", func() {
			ok, err := service.HasAllPermissions("user-1", "users:read", "roles:read")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(ok).To(gomega.BeTrue())

			ok, err = service.HasAllPermissions("user-1", "users:read", "users:delete")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(ok).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("RolesFor", func() {
		ginkgo.It("returns sorted role names", func() {
			repo.userRoles["user-1"] = []Role{
				{ID: "r2", Name: "viewer"},
				{ID: "r1", Name: "editor"},
			}

			names, err := service.RolesFor("user-1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(names).To(gomega.Equal([]string{"editor", "viewer"}))
		})
	})
})

var _ = ginkgo.Describe("Role management", func() {
	var (
		repo    *mockRepository
		service *Service
	)

	tenantID := "tenant-1"

	ginkgo.BeforeEach(func() {
		repo = newMockRepository()
		service = NewService(repo)
	})

	ginkgo.Describe("CreateRole", func() {
		ginkgo.It("creates a tenant-scoped role with its grants", func() {
			role, err := service.CreateRole(CreateRoleDTO{
				Name:          "auditor",
				PermissionIDs: []string{"perm-1", "perm-2"},
			}, &tenantID)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(role.TenantID).To(gomega.Equal(&tenantID))
			gomega.Expect(role.Permissions).To(gomega.HaveLen(2))
		})

		ginkgo.It("leaves a global role unbound from any tenant", func() {
			role, err := service.CreateRole(CreateRoleDTO{Name: "ops", IsGlobal: true}, &tenantID)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(role.IsGlobal).To(gomega.BeTrue())
			gomega.Expect(role.TenantID).To(gomega.BeNil())
		})

		ginkgo.It("rejects a duplicate name with a conflict", func() {
			_, err := service.CreateRole(CreateRoleDTO{Name: "auditor"}, &tenantID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.CreateRole(CreateRoleDTO{Name: "auditor"}, &tenantID)
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeRoleNameTaken))
		})

		ginkgo.It("rejects unknown permission ids", func() {
			_, err := service.CreateRole(CreateRoleDTO{
				Name:          "auditor",
				PermissionIDs: []string{"missing"},
			}, &tenantID)

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeValidationFailed))
		})
	})

	ginkgo.Describe("UpdateRole", func() {
		ginkgo.It("replaces grants when a permission list is supplied", func() {
			created, err := service.CreateRole(CreateRoleDTO{
				Name:          "auditor",
				PermissionIDs: []string{"perm-1"},
			}, &tenantID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			newPerms := []string{"perm-2", "perm-3"}
			updated, err := service.UpdateRole(created.ID, UpdateRoleDTO{PermissionIDs: &newPerms})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(updated.Permissions).To(gomega.HaveLen(2))
		})

		ginkgo.It("keeps grants untouched when no permission list is supplied", func() {
			created, err := service.CreateRole(CreateRoleDTO{
				Name:          "auditor",
				PermissionIDs: []string{"perm-1"},
			}, &tenantID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			desc := "updated description"
			updated, err := service.UpdateRole(created.ID, UpdateRoleDTO{Description: &desc})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(updated.Permissions).To(gomega.HaveLen(1))
			gomega.Expect(updated.Description).To(gomega.Equal(&desc))
		})
	})

	ginkgo.Describe("DeleteRole", func() {
		ginkgo.It("refuses to delete a built-in role", func() {
			repo.roles["r1"] = &Role{ID: "r1", Name: RoleSuperAdmin, IsGlobal: true}

			err := service.DeleteRole("r1")
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(403))
		})

		ginkgo.It("deletes a custom role", func() {
			created, err := service.CreateRole(CreateRoleDTO{Name: "auditor"}, &tenantID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(service.DeleteRole(created.ID)).To(gomega.Succeed())

			_, err = service.GetRole(created.ID)
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeResourceNotFound))
		})
	})
})
