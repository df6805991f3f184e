package auth

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/akr0407/nuxt-base-project/internal"
	"github.com/akr0407/nuxt-base-project/pkg/logger"
)

// ServiceAPI is the surface the HTTP handler and the auth middleware consume.
type ServiceAPI interface {
	Login(dto LoginDTO) (*LoginResult, error)
	Refresh(refreshToken string) (*LoginResult, error)
	Logout(refreshToken string)
	Register(dto RegisterDTO) (*Principal, error)
	Authenticate(accessToken string) (*Principal, error)
	Session(principal *Principal) (*SessionDTO, error)
	HasPermission(userID, permission string) (bool, error)
}

type Service struct {
	users         UserRepository
	refreshTokens RefreshTokenRepository
	tokens        *TokenService
	perms         PermissionResolver
	bcryptCost    int
	logger        *slog.Logger
}

func NewService(users UserRepository, refreshTokens RefreshTokenRepository, tokens *TokenService, perms PermissionResolver, bcryptCost int) *Service {
	return &Service{
		users:         users,
		refreshTokens: refreshTokens,
		tokens:        tokens,
		perms:         perms,
		bcryptCost:    bcryptCost,
		logger:        logger.LoggerWrapper(),
	}
}

// Login verifies credentials and issues a fresh access/refresh pair. Every
// credential failure maps to the same ErrInvalidCredentials so callers
// cannot distinguish an unknown email from a wrong password or a
// deactivated account.
func (s *Service) Login(dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	creds, err := s.users.CredentialsByEmail(NormalizeEmail(dto.Email))
	if err != nil || creds == nil {
		s.logger.Info("login rejected: unknown email", "email", dto.Email)
		return nil, internal.ErrInvalidCredentials
	}

	if !creds.IsActive || (creds.TenantID != nil && !creds.TenantActive) {
		s.logger.Info("login rejected: inactive account or tenant", "user_id", creds.UserID)
		return nil, internal.ErrInvalidCredentials
	}

	if !VerifyPassword(creds.PasswordHash, dto.Password) {
		s.logger.Info("login rejected: password mismatch", "user_id", creds.UserID)
		return nil, internal.ErrInvalidCredentials
	}

	principal, err := s.users.PrincipalByID(creds.UserID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}

	result, err := s.issueTokens(principal, dto.RememberMe)
	if err != nil {
		return nil, err
	}

	s.logger.Info("login succeeded", "user_id", principal.ID)
	return result, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a
// successor is persisted in the same transaction. Presenting an
// already-revoked token is treated as theft of the session: every token the
// user holds gets revoked before the call fails.
func (s *Service) Refresh(refreshToken string) (*LoginResult, error) {
	if refreshToken == "" {
		return nil, internal.ErrMissingRefreshToken
	}

	if claims := s.tokens.VerifyRefreshToken(refreshToken); claims == nil {
		return nil, internal.ErrInvalidToken
	}

	record, err := s.refreshTokens.FindByToken(refreshToken)
	if err != nil || record == nil {
		return nil, internal.ErrTokenNotFound
	}

	if record.RevokedAt != nil {
		s.logger.Warn("refresh token reuse detected, revoking all sessions", "user_id", record.UserID)
		if err := s.refreshTokens.RevokeAllForUser(record.UserID); err != nil {
			s.logger.Error("failed to revoke user sessions after reuse", "user_id", record.UserID, "error", err)
		}
		return nil, internal.ErrTokenRevoked
	}

	if record.ExpiresAt.Before(time.Now()) {
		return nil, internal.ErrTokenExpired
	}

	principal, err := s.users.PrincipalByID(record.UserID)
	if err != nil || principal == nil {
		return nil, internal.ErrUserNotFound
	}
	if !principal.IsActive {
		return nil, internal.ErrUserInactive
	}

	accessToken, err := s.tokens.SignAccessToken(principal.ID, principal.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to sign access token", err)
	}

	newRefreshToken, err := s.tokens.SignRefreshToken(principal.ID, principal.Email, false)
	if err != nil {
		return nil, internal.NewInternalError("failed to sign refresh token", err)
	}

	expiresAt := s.tokens.RefreshTokenExpiry(false)
	successor := &RefreshToken{
		ID:        uuid.NewString(),
		Token:     newRefreshToken,
		UserID:    principal.ID,
		ExpiresAt: expiresAt,
	}

	if err := s.refreshTokens.Rotate(refreshToken, successor); err != nil {
		return nil, internal.NewInternalError("failed to rotate refresh token", err)
	}

	return &LoginResult{
		AccessToken:      accessToken,
		RefreshToken:     newRefreshToken,
		RefreshExpiresIn: int(time.Until(expiresAt).Seconds()),
		User:             principal,
	}, nil
}

// Logout revokes the refresh token if one is presented. Best effort: a
// missing or already-revoked token is not an error, logout always succeeds
// from the caller's point of view.
func (s *Service) Logout(refreshToken string) {
	if refreshToken == "" {
		return
	}
	if err := s.refreshTokens.Revoke(refreshToken); err != nil {
		s.logger.Debug("logout revocation skipped", "error", err)
	}
}

// Register creates a new account with the default user role assigned.
func (s *Service) Register(dto RegisterDTO) (*Principal, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	email := NormalizeEmail(dto.Email)
	taken, err := s.users.EmailExists(email)
	if err != nil {
		return nil, internal.NewInternalError("failed to check email", err)
	}
	if taken {
		return nil, internal.NewConflictError("Email is already registered", internal.ErrCodeEmailTaken)
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	principal, err := s.users.CreateWithDefaultRole(email, hash, dto.Name)
	if err != nil {
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user registered", "user_id", principal.ID)
	return principal, nil
}

// Authenticate verifies an access token and loads its principal. This is
// the backing operation for the auth middleware.
func (s *Service) Authenticate(accessToken string) (*Principal, error) {
	if accessToken == "" {
		return nil, internal.ErrMissingToken
	}

	claims := s.tokens.VerifyAccessToken(accessToken)
	if claims == nil {
		return nil, internal.ErrInvalidToken
	}

	principal, err := s.users.PrincipalByID(claims.UserID)
	if err != nil || principal == nil {
		return nil, internal.ErrUserNotFound
	}
	if !principal.IsActive {
		return nil, internal.ErrUserInactive
	}

	return principal, nil
}

// Session resolves the roles and effective permissions of an authenticated
// principal for the /me endpoint. Super-admins report their resolved sets
// as-is; their implicit full access lives in the permission gate, not here.
func (s *Service) Session(principal *Principal) (*SessionDTO, error) {
	roles, err := s.perms.RolesFor(principal.ID)
	if err != nil {
		return nil, internal.NewInternalError("failed to resolve roles", err)
	}
	permissions, err := s.perms.PermissionsFor(principal.ID)
	if err != nil {
		return nil, internal.NewInternalError("failed to resolve permissions", err)
	}

	return &SessionDTO{
		User:        principal,
		Roles:       roles,
		Permissions: permissions,
	}, nil
}

// HasPermission reports whether the user's resolved permission set contains
// the named permission. The super-admin bypass is deliberately not here.
func (s *Service) HasPermission(userID, permission string) (bool, error) {
	permissions, err := s.perms.PermissionsFor(userID)
	if err != nil {
		return false, err
	}
	for _, p := range permissions {
		if p == permission {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) issueTokens(principal *Principal, rememberMe bool) (*LoginResult, error) {
	accessToken, err := s.tokens.SignAccessToken(principal.ID, principal.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to sign access token", err)
	}

	refreshToken, err := s.tokens.SignRefreshToken(principal.ID, principal.Email, rememberMe)
	if err != nil {
		return nil, internal.NewInternalError("failed to sign refresh token", err)
	}

	expiresAt := s.tokens.RefreshTokenExpiry(rememberMe)
	record := &RefreshToken{
		ID:        uuid.NewString(),
		Token:     refreshToken,
		UserID:    principal.ID,
		ExpiresAt: expiresAt,
	}
	if err := s.refreshTokens.Create(record); err != nil {
		return nil, internal.NewInternalError("failed to persist refresh token", err)
	}

	return &LoginResult{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		RefreshExpiresIn: int(time.Until(expiresAt).Seconds()),
		User:             principal,
	}, nil
}
