package user

import (
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/akr0407/nuxt-base-project/internal"
	"github.com/akr0407/nuxt-base-project/internal/auth"
	"github.com/akr0407/nuxt-base-project/internal/rbac"
)

func TestUser(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "User Module Suite")
}

type mockRepository struct {
	users           map[string]*User
	hashes          map[string]string
	inactiveTenants map[string]bool
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:           map[string]*User{},
		hashes:          map[string]string{},
		inactiveTenants: map[string]bool{},
	}
}

func (m *mockRepository) List(params ListParams) ([]User, int64, error) {
	var out []User
	for _, u := range m.users {
		if params.TenantID != nil && (u.TenantID == nil || *u.TenantID != *params.TenantID) {
			continue
		}
		out = append(out, *u)
	}
	total := int64(len(out))

	start := params.Offset()
	if start > len(out) {
		return []User{}, total, nil
	}
	end := start + params.PerPage
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (m *mockRepository) GetByID(id string) (*User, error) {
	return m.users[id], nil
}

func (m *mockRepository) EmailExists(email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepository) TenantIsActive(tenantID string) (bool, error) {
	return !m.inactiveTenants[tenantID], nil
}

func (m *mockRepository) CountRoleHolders(roleName string) (int64, error) {
	var count int64
	for _, u := range m.users {
		for _, role := range u.Roles {
			if role.Name == roleName {
				count++
			}
		}
	}
	return count, nil
}

func (m *mockRepository) Create(u *User, passwordHash string, roleIDs []string) error {
	for _, id := range roleIDs {
		u.Roles = append(u.Roles, RoleRef{ID: id, Name: id})
	}
	m.users[u.ID] = u
	m.hashes[u.ID] = passwordHash
	return nil
}

func (m *mockRepository) Update(u *User, passwordHash *string, roleIDs *[]string) error {
	stored := m.users[u.ID]
	roles := stored.Roles
	*stored = *u
	stored.Roles = roles
	if passwordHash != nil {
		m.hashes[u.ID] = *passwordHash
	}
	if roleIDs != nil {
		stored.Roles = nil
		for _, id := range *roleIDs {
			stored.Roles = append(stored.Roles, RoleRef{ID: id, Name: id})
		}
	}
	return nil
}

func (m *mockRepository) Delete(id string) error {
	delete(m.users, id)
	delete(m.hashes, id)
	return nil
}

var _ = ginkgo.Describe("UserService", func() {
	var (
		repo    *mockRepository
		service *Service
	)

	tenantID := "tenant-1"

	ginkgo.BeforeEach(func() {
		repo = newMockRepository()
		service = NewService(repo, auth.MinBCryptCost)
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("creates a user with hashed password and role assignments", func() {
			created, err := service.Create(CreateUserDTO{
				Email:    "new@example.com",
				Password: "Fresh1234",
				RoleIDs:  []string{"role-1"},
			}, tenantID)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(created.TenantID).To(gomega.Equal(&tenantID))
			gomega.Expect(created.Roles).To(gomega.HaveLen(1))

			hash := repo.hashes[created.ID]
			gomega.Expect(hash).ToNot(gomega.Equal("Fresh1234"))
			gomega.Expect(auth.VerifyPassword(hash, "Fresh1234")).To(gomega.BeTrue())
		})

		ginkgo.It("lowercases the email before storing", func() {
			created, err := service.Create(CreateUserDTO{
				Email:    "Mixed.Case@Example.COM",
				Password: "Fresh1234",
			}, tenantID)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(created.Email).To(gomega.Equal("mixed.case@example.com"))
		})

		ginkgo.It("rejects a duplicate email with a conflict", func() {
			_, err := service.Create(CreateUserDTO{Email: "dup@example.com", Password: "Fresh1234"}, tenantID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Create(CreateUserDTO{Email: "dup@example.com", Password: "Fresh1234"}, tenantID)
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeEmailTaken))
		})

		ginkgo.It("refuses to create users in a deactivated tenant", func() {
			repo.inactiveTenants["tenant-1"] = true

			_, err := service.Create(CreateUserDTO{Email: "new@example.com", Password: "Fresh1234"}, tenantID)
			gomega.Expect(err).To(gomega.Equal(internal.ErrTenantInactive))
		})
	})

	ginkgo.Describe("Update", func() {
		var existing *User

		ginkgo.BeforeEach(func() {
			var err error
			existing, err = service.Create(CreateUserDTO{
				Email:    "user@example.com",
				Password: "Fresh1234",
				RoleIDs:  []string{"role-1"},
			}, tenantID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("replaces role assignments when a role list is supplied", func() {
			newRoles := []string{"role-2", "role-3"}
			updated, err := service.Update(existing.ID, UpdateUserDTO{RoleIDs: &newRoles})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(updated.Roles).To(gomega.HaveLen(2))
		})

		ginkgo.It("keeps roles untouched when no role list is supplied", func() {
			inactive := false
			updated, err := service.Update(existing.ID, UpdateUserDTO{IsActive: &inactive})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(updated.IsActive).To(gomega.BeFalse())
			gomega.Expect(updated.Roles).To(gomega.HaveLen(1))
		})

		ginkgo.It("changes the email after normalizing it", func() {
			newEmail := "Renamed.User@Example.COM"
			updated, err := service.Update(existing.ID, UpdateUserDTO{Email: &newEmail})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(updated.Email).To(gomega.Equal("renamed.user@example.com"))
		})

		ginkgo.It("rejects an email already registered to another user", func() {
			_, err := service.Create(CreateUserDTO{Email: "taken@example.com", Password: "Fresh1234"}, tenantID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			taken := "taken@example.com"
			_, err = service.Update(existing.ID, UpdateUserDTO{Email: &taken})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeEmailTaken))
		})

		ginkgo.It("accepts the user's own email in a different case", func() {
			same := "USER@example.com"
			updated, err := service.Update(existing.ID, UpdateUserDTO{Email: &same})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(updated.Email).To(gomega.Equal("user@example.com"))
		})

		ginkgo.It("rejects a malformed email", func() {
			bad := "not-an-address"
			_, err := service.Update(existing.ID, UpdateUserDTO{Email: &bad})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeValidationFailed))
		})

		ginkgo.It("rehashes a supplied password", func() {
			newPassword := "Changed123"
			_, err := service.Update(existing.ID, UpdateUserDTO{Password: &newPassword})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(auth.VerifyPassword(repo.hashes[existing.ID], "Changed123")).To(gomega.BeTrue())
		})

		ginkgo.It("fails with not-found for an unknown id", func() {
			_, err := service.Update("missing", UpdateUserDTO{})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeResourceNotFound))
		})
	})

	ginkgo.Describe("List", func() {
		ginkgo.BeforeEach(func() {
			for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
				_, err := service.Create(CreateUserDTO{Email: email, Password: "Fresh1234"}, tenantID)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
			}
			_, err := service.Create(CreateUserDTO{Email: "other@example.com", Password: "Fresh1234"}, "tenant-2")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("scopes to the given tenant", func() {
			result, err := service.List(ListParams{TenantID: &tenantID})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(result.Total).To(gomega.Equal(int64(3)))
		})

		ginkgo.It("lists across tenants when no scope is given", func() {
			result, err := service.List(ListParams{})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(result.Total).To(gomega.Equal(int64(4)))
		})

		ginkgo.It("clamps out-of-range paging values", func() {
			result, err := service.List(ListParams{TenantID: &tenantID, Page: -3, PerPage: 1000})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(result.Page).To(gomega.Equal(1))
			gomega.Expect(result.PerPage).To(gomega.Equal(20))
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("removes the user", func() {
			created, err := service.Create(CreateUserDTO{Email: "doomed@example.com", Password: "Fresh1234"}, tenantID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(service.Delete(created.ID)).To(gomega.Succeed())

			_, err = service.Get(created.ID)
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(404))
		})

		ginkgo.It("refuses to delete the last holder of the super_admin role", func() {
			created, err := service.Create(CreateUserDTO{
				Email:    "root@example.com",
				Password: "Fresh1234",
				RoleIDs:  []string{rbac.RoleSuperAdmin},
			}, tenantID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			err = service.Delete(created.ID)
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeLastAdmin))

			_, err = service.Get(created.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("deletes a super_admin while another remains", func() {
			first, err := service.Create(CreateUserDTO{
				Email:    "root1@example.com",
				Password: "Fresh1234",
				RoleIDs:  []string{rbac.RoleSuperAdmin},
			}, tenantID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			_, err = service.Create(CreateUserDTO{
				Email:    "root2@example.com",
				Password: "Fresh1234",
				RoleIDs:  []string{rbac.RoleSuperAdmin},
			}, tenantID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(service.Delete(first.ID)).To(gomega.Succeed())
		})
	})
})
