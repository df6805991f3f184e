package settings

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/akr0407/nuxt-base-project/internal/settings"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetSetting(tenantID, key string) (*settings.Setting, error) {
	var setting settings.Setting
	err := r.db.Where("tenant_id = ? AND key = ?", tenantID, key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

// UpsertSetting updates the existing (tenant, key) row in place or inserts
// a fresh one. The settings table has a unique index on that pair.
func (r *Repository) UpsertSetting(setting *settings.Setting) error {
	res := r.db.Model(&settings.Setting{}).
		Where("tenant_id = ? AND key = ?", setting.TenantID, setting.Key).
		Updates(map[string]interface{}{
			"value":      setting.Value,
			"updated_at": setting.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return r.db.Create(setting).Error
}

// templateRow carries the JSON-encoded settings column; the domain struct
// keeps it as a typed value.
type templateRow struct {
	ID        string
	Name      string
	IsGlobal  bool
	IsDefault bool
	TenantID  *string
	Settings  string
	CreatedAt time.Time
}

func (templateRow) TableName() string { return "theme_templates" }

func (r *Repository) ListTemplates(tenantID *string) ([]settings.ThemeTemplate, error) {
	query := r.db.Order("name ASC")
	if tenantID != nil {
		query = query.Where("is_global = true OR tenant_id = ?", *tenantID)
	}

	var rows []templateRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	templates := make([]settings.ThemeTemplate, 0, len(rows))
	for _, row := range rows {
		templates = append(templates, fromRow(row))
	}
	return templates, nil
}

func (r *Repository) GetTemplate(id string) (*settings.ThemeTemplate, error) {
	var row templateRow
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	template := fromRow(row)
	return &template, nil
}

func (r *Repository) CreateTemplate(template *settings.ThemeTemplate) error {
	value, err := json.Marshal(template.Settings)
	if err != nil {
		return err
	}
	row := templateRow{
		ID:        template.ID,
		Name:      template.Name,
		IsGlobal:  template.IsGlobal,
		IsDefault: template.IsDefault,
		TenantID:  template.TenantID,
		Settings:  string(value),
		CreatedAt: template.CreatedAt,
	}
	return r.db.Create(&row).Error
}

func (r *Repository) DeleteTemplate(id string) error {
	return r.db.Where("id = ?", id).Delete(&templateRow{}).Error
}

func fromRow(row templateRow) settings.ThemeTemplate {
	template := settings.ThemeTemplate{
		ID:        row.ID,
		Name:      row.Name,
		IsGlobal:  row.IsGlobal,
		IsDefault: row.IsDefault,
		TenantID:  row.TenantID,
		CreatedAt: row.CreatedAt,
	}
	// Unreadable stored settings degrade to the default scheme.
	if err := json.Unmarshal([]byte(row.Settings), &template.Settings); err != nil {
		template.Settings = settings.DefaultTheme()
	}
	return template
}
