package settings

import (
	"encoding/json"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/akr0407/nuxt-base-project/internal"
)

func TestSettings(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Settings Module Suite")
}

type mockRepository struct {
	settings  map[string]*Setting // tenantID+key
	templates map[string]*ThemeTemplate
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		settings:  map[string]*Setting{},
		templates: map[string]*ThemeTemplate{},
	}
}

func (m *mockRepository) GetSetting(tenantID, key string) (*Setting, error) {
	return m.settings[tenantID+"/"+key], nil
}

func (m *mockRepository) UpsertSetting(setting *Setting) error {
	m.settings[setting.TenantID+"/"+setting.Key] = setting
	return nil
}

func (m *mockRepository) ListTemplates(tenantID *string) ([]ThemeTemplate, error) {
	var out []ThemeTemplate
	for _, t := range m.templates {
		if tenantID == nil || t.IsGlobal || (t.TenantID != nil && *t.TenantID == *tenantID) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *mockRepository) GetTemplate(id string) (*ThemeTemplate, error) {
	return m.templates[id], nil
}

func (m *mockRepository) CreateTemplate(template *ThemeTemplate) error {
	m.templates[template.ID] = template
	return nil
}

func (m *mockRepository) DeleteTemplate(id string) error {
	delete(m.templates, id)
	return nil
}

var _ = ginkgo.Describe("SettingsService", func() {
	var (
		repo    *mockRepository
		service *Service
	)

	ginkgo.BeforeEach(func() {
		repo = newMockRepository()
		service = NewService(repo)
	})

	ginkgo.Describe("GetTheme", func() {
		ginkgo.It("serves the default scheme for a tenant with no stored theme", func() {
			theme, err := service.GetTheme("tenant-1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(theme).To(gomega.Equal(DefaultTheme()))
		})

		ginkgo.It("serves the stored theme once one exists", func() {
			custom := DefaultTheme()
			custom.PrimaryColor = "#ff0000"
			_, err := service.UpdateTheme("tenant-1", custom)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			theme, err := service.GetTheme("tenant-1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(theme.PrimaryColor).To(gomega.Equal("#ff0000"))
		})

		ginkgo.It("degrades unreadable stored JSON to the default scheme", func() {
			repo.settings["tenant-1/"+ThemeKey] = &Setting{TenantID: "tenant-1", Key: ThemeKey, Value: "{broken"}

			theme, err := service.GetTheme("tenant-1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(theme).To(gomega.Equal(DefaultTheme()))
		})
	})

	ginkgo.Describe("UpdateTheme", func() {
		ginkgo.It("rejects non-hex colors", func() {
			bad := DefaultTheme()
			bad.SecondaryColor = "red"

			_, err := service.UpdateTheme("tenant-1", bad)
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeValidationFailed))
		})

		ginkgo.It("rejects three-digit hex shorthand", func() {
			short := DefaultTheme()
			short.PrimaryColor = "#abc"

			_, err := service.UpdateTheme("tenant-1", short)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("allows the optional accent colors to be omitted", func() {
			minimal := ThemeSettings{PrimaryColor: "#336699", DarkMode: true}

			_, err := service.UpdateTheme("tenant-1", minimal)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			theme, err := service.GetTheme("tenant-1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(theme.DarkMode).To(gomega.BeTrue())
			gomega.Expect(theme.SecondaryColor).To(gomega.BeEmpty())
		})

		ginkgo.It("stores the theme as JSON", func() {
			_, err := service.UpdateTheme("tenant-1", DefaultTheme())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			stored := repo.settings["tenant-1/"+ThemeKey]
			gomega.Expect(stored).ToNot(gomega.BeNil())

			var decoded ThemeSettings
			gomega.Expect(json.Unmarshal([]byte(stored.Value), &decoded)).To(gomega.Succeed())
			gomega.Expect(decoded).To(gomega.Equal(DefaultTheme()))
		})
	})

	ginkgo.Describe("EnsureDefaultTheme", func() {
		ginkgo.It("creates the default theme once and leaves customizations alone", func() {
			gomega.Expect(service.EnsureDefaultTheme("tenant-1")).To(gomega.Succeed())

			custom := DefaultTheme()
			custom.PrimaryColor = "#123456"
			_, err := service.UpdateTheme("tenant-1", custom)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(service.EnsureDefaultTheme("tenant-1")).To(gomega.Succeed())

			theme, err := service.GetTheme("tenant-1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(theme.PrimaryColor).To(gomega.Equal("#123456"))
		})
	})

	ginkgo.Describe("templates", func() {
		tenantID := "tenant-1"

		ginkgo.It("lists global templates alongside the tenant's own", func() {
			_, err := service.CreateTemplate(CreateTemplateDTO{Name: "Corporate", Settings: DefaultTheme(), IsGlobal: true}, nil)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			_, err = service.CreateTemplate(CreateTemplateDTO{Name: "Internal", Settings: DefaultTheme()}, &tenantID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			otherTenant := "tenant-2"
			_, err = service.CreateTemplate(CreateTemplateDTO{Name: "Foreign", Settings: DefaultTheme()}, &otherTenant)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			templates, err := service.ListTemplates(&tenantID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(templates).To(gomega.HaveLen(2))
		})

		ginkgo.It("never marks client-created templates as the default", func() {
			created, err := service.CreateTemplate(CreateTemplateDTO{Name: "Custom", Settings: DefaultTheme()}, &tenantID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(created.IsDefault).To(gomega.BeFalse())
		})

		ginkgo.It("rejects a template with invalid colors", func() {
			bad := DefaultTheme()
			bad.PrimaryColorHover = "black"

			_, err := service.CreateTemplate(CreateTemplateDTO{Name: "Broken", Settings: bad}, &tenantID)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("deletes a template and 404s on a second delete", func() {
			created, err := service.CreateTemplate(CreateTemplateDTO{Name: "Temp", Settings: DefaultTheme()}, &tenantID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(service.DeleteTemplate(created.ID)).To(gomega.Succeed())

			err = service.DeleteTemplate(created.ID)
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(404))
		})
	})
})
