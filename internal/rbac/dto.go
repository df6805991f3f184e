package rbac

import (
	"strings"

	"github.com/akr0407/nuxt-base-project/internal"
)

type CreateRoleDTO struct {
	Name          string   `json:"name"`
	Description   *string  `json:"description"`
	IsGlobal      bool     `json:"isGlobal"`
	PermissionIDs []string `json:"permissionIds"`
}

func (d *CreateRoleDTO) Validate() error {
	var errs []internal.ValidationError

	name := strings.TrimSpace(d.Name)
	if name == "" {
		errs = append(errs, internal.ValidationError{Field: "name", Message: "role name is required", Code: "required"})
	} else if len(name) > 100 {
		errs = append(errs, internal.ValidationError{Field: "name", Message: "role name must be at most 100 characters", Code: "too_long"})
	}

	if len(errs) > 0 {
		return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

// UpdateRoleDTO uses pointers so absent fields are left as-is; a present
// but empty PermissionIDs slice clears every grant.
type UpdateRoleDTO struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	PermissionIDs *[]string `json:"permissionIds"`
}

func (d *UpdateRoleDTO) Validate() error {
	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		return internal.NewValidationFieldError("name", "role name cannot be empty", "required")
	}
	return nil
}
