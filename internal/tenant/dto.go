package tenant

import (
	"regexp"
	"strings"

	"github.com/akr0407/nuxt-base-project/internal"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type CreateTenantDTO struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (d *CreateTenantDTO) Validate() error {
	var errs []internal.ValidationError

	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, internal.ValidationError{Field: "name", Message: "tenant name is required", Code: "required"})
	}
	if !slugPattern.MatchString(d.Slug) {
		errs = append(errs, internal.ValidationError{Field: "slug", Message: "slug must be lowercase letters, digits and hyphens", Code: "invalid_slug"})
	}

	if len(errs) > 0 {
		return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

type UpdateTenantDTO struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"isActive"`
}

func (d *UpdateTenantDTO) Validate() error {
	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		return internal.NewValidationFieldError("name", "tenant name cannot be empty", "required")
	}
	return nil
}
