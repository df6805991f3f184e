package settings

import (
	"encoding/json"
	"log/slog"
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

// GetTheme returns the tenant's theme, falling back to the default scheme
// when none is stored or the stored JSON is unreadable.
func (s *Service) GetTheme(tenantID string) (ThemeSettings, error) {
	setting, err := s.repo.GetSetting(tenantID, ThemeKey)
	if err != nil {
		return ThemeSettings{}, internal.NewInternalError("failed to load theme", err)
	}
	if setting == nil {
		return DefaultTheme(), nil
	}

	var theme ThemeSettings
	if err := json.Unmarshal([]byte(setting.Value), &theme); err != nil {
		s.logger.Warn("stored theme is unreadable, serving default", "tenant_id", tenantID, "error", err)
		return DefaultTheme(), nil
	}
	return theme, nil
}

func (s *Service) UpdateTheme(tenantID string, theme ThemeSettings) (ThemeSettings, error) {
	if err := theme.Validate(); err != nil {
		return ThemeSettings{}, err
	}

	value, err := json.Marshal(theme)
	if err != nil {
		return ThemeSettings{}, internal.NewInternalError("failed to encode theme", err)
	}

	now := time.Now()
	setting := &Setting{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Key:       ThemeKey,
		Value:     string(value),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.UpsertSetting(setting); err != nil {
		return ThemeSettings{}, internal.NewInternalError("failed to save theme", err)
	}

	s.logger.Info("theme updated", "tenant_id", tenantID)
	return theme, nil
}

// EnsureDefaultTheme writes the default theme for a tenant that has none.
// Called on tenant provisioning; idempotent.
func (s *Service) EnsureDefaultTheme(tenantID string) error {
	existing, err := s.repo.GetSetting(tenantID, ThemeKey)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	_, err = s.UpdateTheme(tenantID, DefaultTheme())
	return err
}

// ListTemplates returns the global templates plus the tenant's own.
func (s *Service) ListTemplates(tenantID *string) ([]ThemeTemplate, error) {
	templates, err := s.repo.ListTemplates(tenantID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list theme templates", err)
	}
	return templates, nil
}

type CreateTemplateDTO struct {
	Name     string        `json:"name"`
	IsGlobal bool          `json:"isGlobal"`
	Settings ThemeSettings `json:"settings"`
}

func (s *Service) CreateTemplate(dto CreateTemplateDTO, tenantID *string) (*ThemeTemplate, error) {
	if strings.TrimSpace(dto.Name) == "" {
		return nil, internal.NewValidationFieldError("name", "template name is required", "required")
	}
	if err := dto.Settings.Validate(); err != nil {
		return nil, err
	}

	template := &ThemeTemplate{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(dto.Name),
		IsGlobal:  dto.IsGlobal,
		Settings:  dto.Settings,
		CreatedAt: time.Now(),
	}
	if !dto.IsGlobal {
		template.TenantID = tenantID
	}

	if err := s.repo.CreateTemplate(template); err != nil {
		return nil, internal.NewInternalError("failed to create theme template", err)
	}

	s.logger.Info("theme template created", "template_id", template.ID, "name", template.Name)
	return template, nil
}

func (s *Service) DeleteTemplate(id string) error {
	template, err := s.repo.GetTemplate(id)
	if err != nil {
		return internal.NewInternalError("failed to load theme template", err)
	}
	if template == nil {
		return internal.NewNotFoundError("Theme template not found", internal.ErrCodeResourceNotFound)
	}

	if err := s.repo.DeleteTemplate(id); err != nil {
		return internal.NewInternalError("failed to delete theme template", err)
	}

	s.logger.Info("theme template deleted", "template_id", id)
	return nil
}
