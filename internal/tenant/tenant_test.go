package tenant

import (
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/akr0407/nuxt-base-project/internal"
	"github.com/akr0407/nuxt-base-project/internal/auth"
)

func TestTenant(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Tenant Module Suite")
}

var _ = ginkgo.Describe("Tenant scope resolution", func() {
	tenantID := "tenant-1"

	regular := &auth.Principal{ID: "user-1", Email: "user@example.com", IsActive: true, TenantID: &tenantID}
	superAdmin := &auth.Principal{ID: "root-1", Email: "root@example.com", IsActive: true, IsSuperAdmin: true}

	ginkgo.Describe("ResolveTenantID", func() {
		ginkgo.It("pins a regular user to their own tenant", func() {
			resolved := ResolveTenantID(regular, "")
			gomega.Expect(resolved).ToNot(gomega.BeNil())
			gomega.Expect(*resolved).To(gomega.Equal("tenant-1"))
		})

		ginkgo.It("ignores the override header for a regular user", func() {
			resolved := ResolveTenantID(regular, "tenant-2")
			gomega.Expect(resolved).ToNot(gomega.BeNil())
			gomega.Expect(*resolved).To(gomega.Equal("tenant-1"))
		})

		ginkgo.It("resolves a super-admin without a header to no tenant", func() {
			gomega.Expect(ResolveTenantID(superAdmin, "")).To(gomega.BeNil())
		})

		ginkgo.It("honors the override header for a super-admin", func() {
			resolved := ResolveTenantID(superAdmin, "tenant-2")
			gomega.Expect(resolved).ToNot(gomega.BeNil())
			gomega.Expect(*resolved).To(gomega.Equal("tenant-2"))
		})

		ginkgo.It("resolves a nil principal to no tenant", func() {
			gomega.Expect(ResolveTenantID(nil, "tenant-2")).To(gomega.BeNil())
		})
	})

	ginkgo.Describe("RequireTenantID", func() {
		ginkgo.It("returns the resolved tenant for a regular user", func() {
			id, err := RequireTenantID(regular, "")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(id).To(gomega.Equal("tenant-1"))
		})

		ginkgo.It("fails for a super-admin without an explicit tenant", func() {
			_, err := RequireTenantID(superAdmin, "")
			gomega.Expect(err).To(gomega.Equal(internal.ErrTenantRequired))
		})

		ginkgo.It("succeeds for a super-admin with an explicit tenant", func() {
			id, err := RequireTenantID(superAdmin, "tenant-2")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(id).To(gomega.Equal("tenant-2"))
		})
	})

	ginkgo.Describe("IsSuperAdmin", func() {
		ginkgo.It("matches the principal flag", func() {
			gomega.Expect(IsSuperAdmin(superAdmin)).To(gomega.BeTrue())
			gomega.Expect(IsSuperAdmin(regular)).To(gomega.BeFalse())
			gomega.Expect(IsSuperAdmin(nil)).To(gomega.BeFalse())
		})
	})
})

var _ = ginkgo.Describe("CreateTenantDTO validation", func() {
	ginkgo.It("accepts a well-formed tenant", func() {
		dto := CreateTenantDTO{Name: "Acme Corp", Slug: "acme-corp"}
		gomega.Expect(dto.Validate()).To(gomega.Succeed())
	})

	ginkgo.It("rejects an uppercase or malformed slug", func() {
		for _, slug := range []string{"Acme", "acme corp", "-acme", "acme-", ""} {
			dto := CreateTenantDTO{Name: "Acme Corp", Slug: slug}
			gomega.Expect(dto.Validate()).ToNot(gomega.Succeed())
		}
	})
})
