package settings

import (
	"regexp"
	"time"

	"github.com/akr0407/nuxt-base-project/internal"
)

// ThemeKey is the settings row key under which a tenant's theme lives.
const ThemeKey = "theme"

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ThemeSettings is the tenant-customizable appearance served to the
// frontend. Only primaryColor is mandatory; the rest are refinements.
type ThemeSettings struct {
	PrimaryColor        string `json:"primaryColor"`
	PrimaryColorHover   string `json:"primaryColorHover,omitempty"`
	PrimaryColorPressed string `json:"primaryColorPressed,omitempty"`
	SecondaryColor      string `json:"secondaryColor,omitempty"`
	SidebarCollapsed    bool   `json:"sidebarCollapsed"`
	DarkMode            bool   `json:"darkMode"`
}

// DefaultTheme is applied to new tenants and returned whenever a tenant
// has no stored theme.
func DefaultTheme() ThemeSettings {
	return ThemeSettings{
		PrimaryColor:        "#0ea5e9",
		PrimaryColorHover:   "#0284c7",
		PrimaryColorPressed: "#0369a1",
		SecondaryColor:      "#6366f1",
		SidebarCollapsed:    false,
		DarkMode:            false,
	}
}

func (t *ThemeSettings) Validate() error {
	var errs []internal.ValidationError

	check := func(field, value string, required bool) {
		if value == "" && !required {
			return
		}
		if !hexColorPattern.MatchString(value) {
			errs = append(errs, internal.ValidationError{
				Field:   field,
				Message: "must be a six-digit hex color like #0ea5e9",
				Code:    "invalid_color",
			})
		}
	}

	check("primaryColor", t.PrimaryColor, true)
	check("primaryColorHover", t.PrimaryColorHover, false)
	check("primaryColorPressed", t.PrimaryColorPressed, false)
	check("secondaryColor", t.SecondaryColor, false)

	if len(errs) > 0 {
		return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

// Setting is a tenant-scoped key/value row; values are stored as JSON text.
type Setting struct {
	ID        string    `gorm:"primaryKey;column:id"`
	TenantID  string    `gorm:"column:tenant_id"`
	Key       string    `gorm:"column:key"`
	Value     string    `gorm:"column:value"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Setting) TableName() string { return "settings" }

// ThemeTemplate is a reusable named theme. Global templates are visible to
// every tenant; tenant templates only to their owner.
type ThemeTemplate struct {
	ID        string        `json:"id" gorm:"primaryKey;column:id"`
	Name      string        `json:"name" gorm:"column:name"`
	IsGlobal  bool          `json:"isGlobal" gorm:"column:is_global"`
	IsDefault bool          `json:"isDefault" gorm:"column:is_default"`
	TenantID  *string       `json:"tenantId" gorm:"column:tenant_id"`
	Settings  ThemeSettings `json:"settings" gorm:"-"`
	CreatedAt time.Time     `json:"createdAt" gorm:"column:created_at"`
}

func (ThemeTemplate) TableName() string { return "theme_templates" }

type Repository interface {
	GetSetting(tenantID, key string) (*Setting, error)
	UpsertSetting(setting *Setting) error

	ListTemplates(tenantID *string) ([]ThemeTemplate, error)
	GetTemplate(id string) (*ThemeTemplate, error)
	CreateTemplate(template *ThemeTemplate) error
	DeleteTemplate(id string) error
}
