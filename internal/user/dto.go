package user

import (
	"strings"

	"github.com/akr0407/nuxt-base-project/internal"
	"github.com/akr0407/nuxt-base-project/internal/auth"
)

type CreateUserDTO struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Name     *string  `json:"name"`
	RoleIDs  []string `json:"roleIds"`
}

func (d *CreateUserDTO) Validate() error {
	var errs []internal.ValidationError

	if !strings.Contains(d.Email, "@") || strings.TrimSpace(d.Email) == "" {
		errs = append(errs, internal.ValidationError{Field: "email", Message: "a valid email address is required", Code: "invalid_email"})
	}
	for _, problem := range auth.ValidatePasswordStrength(d.Password) {
		errs = append(errs, internal.ValidationError{Field: "password", Message: problem, Code: "weak_password"})
	}

	if len(errs) > 0 {
		return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

// UpdateUserDTO: nil fields are untouched. A non-nil RoleIDs replaces the
// user's role assignments wholesale.
type UpdateUserDTO struct {
	Email    *string   `json:"email"`
	Name     *string   `json:"name"`
	Password *string   `json:"password"`
	IsActive *bool     `json:"isActive"`
	RoleIDs  *[]string `json:"roleIds"`
}

func (d *UpdateUserDTO) Validate() error {
	var errs []internal.ValidationError

	if d.Email != nil {
		if !strings.Contains(*d.Email, "@") || strings.TrimSpace(*d.Email) == "" {
			errs = append(errs, internal.ValidationError{Field: "email", Message: "a valid email address is required", Code: "invalid_email"})
		}
	}
	if d.Password != nil {
		for _, problem := range auth.ValidatePasswordStrength(*d.Password) {
			errs = append(errs, internal.ValidationError{Field: "password", Message: problem, Code: "weak_password"})
		}
	}

	if len(errs) > 0 {
		return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

type ListResponse struct {
	Users   []User `json:"users"`
	Total   int64  `json:"total"`
	Page    int    `json:"page"`
	PerPage int    `json:"perPage"`
}
