package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Authentication
	ErrCodeMissingToken        ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidToken        ErrorCode = "INVALID_TOKEN"
	ErrCodeInvalidCredentials  ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserNotFound        ErrorCode = "USER_NOT_FOUND"
	ErrCodeUserInactive        ErrorCode = "USER_INACTIVE"
	ErrCodeTenantInactive      ErrorCode = "TENANT_INACTIVE"
	ErrCodeUnauthenticated     ErrorCode = "UNAUTHENTICATED"
	ErrCodeForbidden           ErrorCode = "FORBIDDEN"
	ErrCodeMissingRefreshToken ErrorCode = "MISSING_REFRESH_TOKEN"
	ErrCodeTokenNotFound       ErrorCode = "TOKEN_NOT_FOUND"
	ErrCodeTokenRevoked        ErrorCode = "TOKEN_REVOKED"
	ErrCodeTokenExpired        ErrorCode = "TOKEN_EXPIRED"
	ErrCodeTenantRequired      ErrorCode = "TENANT_REQUIRED"

	// Resources
	ErrCodeEmailTaken         ErrorCode = "EMAIL_TAKEN"
	ErrCodeRoleNameTaken      ErrorCode = "ROLE_NAME_TAKEN"
	ErrCodeTenantSlugTaken    ErrorCode = "TENANT_SLUG_TAKEN"
	ErrCodeResourceNotFound   ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeSuperAdminRequired ErrorCode = "SUPER_ADMIN_REQUIRED"
	ErrCodeLastAdmin          ErrorCode = "LAST_ADMIN"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Messages() string {
	msgs := make([]string, len(v.Errors))
	for i, e := range v.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Sentinel errors for the auth core. The credential errors are deliberately
// indistinguishable so callers cannot enumerate accounts; the token errors
// are distinguishable since token values are not user-enumerable.
var (
	ErrMissingToken        = NewUnauthorizedError("Access token is required", ErrCodeMissingToken)
	ErrInvalidToken        = NewUnauthorizedError("Invalid or expired access token", ErrCodeInvalidToken)
	ErrInvalidCredentials  = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrUserNotFound        = NewUnauthorizedError("User not found", ErrCodeUserNotFound)
	ErrUserInactive        = NewUnauthorizedError("User account is deactivated", ErrCodeUserInactive)
	ErrTenantInactive      = NewUnauthorizedError("Tenant is deactivated", ErrCodeTenantInactive)
	ErrUnauthenticated     = NewUnauthorizedError("Authentication required", ErrCodeUnauthenticated)
	ErrForbidden           = NewForbiddenError("Insufficient permissions", ErrCodeForbidden)
	ErrMissingRefreshToken = NewUnauthorizedError("Refresh token is required", ErrCodeMissingRefreshToken)
	ErrTokenNotFound       = NewUnauthorizedError("Refresh token not found", ErrCodeTokenNotFound)
	ErrTokenRevoked        = NewUnauthorizedError("Token has been revoked", ErrCodeTokenRevoked)
	ErrTokenExpired        = NewUnauthorizedError("Refresh token has expired", ErrCodeTokenExpired)
	ErrTenantRequired      = NewValidationError("Tenant context required. SuperAdmins must provide X-Tenant-Id header.", ErrCodeTenantRequired)
	ErrSuperAdminRequired  = NewForbiddenError("SuperAdmin access required", ErrCodeSuperAdminRequired)
	ErrLastAdmin           = NewConflictError("Cannot delete the last admin user", ErrCodeLastAdmin)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
