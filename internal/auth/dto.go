package auth

import (
	"strings"

	"github.com/akr0407/nuxt-base-project/internal"
)

type LoginDTO struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

func (d *LoginDTO) Validate() error {
	var errs []internal.ValidationError

	if !isPlausibleEmail(d.Email) {
		errs = append(errs, internal.ValidationError{Field: "email", Message: "a valid email address is required", Code: "invalid_email"})
	}
	if d.Password == "" {
		errs = append(errs, internal.ValidationError{Field: "password", Message: "password is required", Code: "required"})
	}

	if len(errs) > 0 {
		return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

type RegisterDTO struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
}

func (d *RegisterDTO) Validate() error {
	var errs []internal.ValidationError

	if !isPlausibleEmail(d.Email) {
		errs = append(errs, internal.ValidationError{Field: "email", Message: "a valid email address is required", Code: "invalid_email"})
	}
	for _, problem := range ValidatePasswordStrength(d.Password) {
		errs = append(errs, internal.ValidationError{Field: "password", Message: problem, Code: "weak_password"})
	}

	if len(errs) > 0 {
		return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

// LoginResult is what the service hands back to the handler: the handler
// serializes the access token and user, and turns the refresh token into an
// HttpOnly cookie whose Max-Age comes from RefreshExpiresIn.
type LoginResult struct {
	AccessToken      string
	RefreshToken     string
	RefreshExpiresIn int
	User             *Principal
}

// SessionDTO is the /me payload: the principal plus resolved authorization.
type SessionDTO struct {
	User        *Principal `json:"user"`
	Roles       []string   `json:"roles"`
	Permissions []string   `json:"permissions"`
}

func isPlausibleEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.ContainsAny(email, " \t")
}
