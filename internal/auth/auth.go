package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Principal is the authenticated identity attached to a request after the
// access token has been verified and the user loaded. It is the only thing
// downstream handlers should trust about "who is calling".
type Principal struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Name         *string `json:"name"`
	IsActive     bool    `json:"-"`
	IsSuperAdmin bool    `json:"isSuperAdmin"`
	TenantID     *string `json:"tenantId"`
}

// Claims are the JWT claims carried by both access and refresh tokens.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// RefreshToken is the persisted record of an issued refresh token. The token
// column stores the signed JWT string itself and is the lookup key; the id is
// a fresh v4 UUID per record. A token is usable iff RevokedAt is nil and
// ExpiresAt is in the future.
type RefreshToken struct {
	ID        string     `gorm:"primaryKey;column:id"`
	Token     string     `gorm:"uniqueIndex;column:token"`
	UserID    string     `gorm:"column:user_id"`
	ExpiresAt time.Time  `gorm:"column:expires_at"`
	RevokedAt *time.Time `gorm:"column:revoked_at"`
	CreatedAt time.Time  `gorm:"column:created_at"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

// credentials is what the login path needs to know about a user before the
// password has been verified. Kept separate from Principal so the password
// hash never travels further than the login flow.
type Credentials struct {
	UserID       string
	Email        string
	PasswordHash string
	IsActive     bool
	TenantID     *string
	TenantActive bool
}

// UserRepository is the persistence surface the auth core needs for users.
type UserRepository interface {
	CredentialsByEmail(email string) (*Credentials, error)
	PrincipalByID(id string) (*Principal, error)
	CreateWithDefaultRole(email, passwordHash string, name *string) (*Principal, error)
	EmailExists(email string) (bool, error)
}

// RefreshTokenRepository is the append-only log of issued refresh tokens.
// Rotate must revoke the presented token and insert its successor in a
// single transaction so the old token is never valid alongside the new one.
type RefreshTokenRepository interface {
	Create(token *RefreshToken) error
	FindByToken(token string) (*RefreshToken, error)
	Revoke(token string) error
	RevokeAllForUser(userID string) error
	Rotate(oldToken string, successor *RefreshToken) error
}

// PermissionResolver reports the effective permissions and role names of a
// user. Implemented by the rbac package; the resolver has no knowledge of
// super-admin status, that bypass lives in the auth gate.
type PermissionResolver interface {
	PermissionsFor(userID string) ([]string, error)
	RolesFor(userID string) ([]string, error)
}

type ctxKey struct{}

// ContextWithPrincipal returns a context carrying the authenticated
// principal. Constructed once per request by the auth middleware.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// PrincipalFromContext returns the principal attached by the auth
// middleware, or false if the request was never authenticated.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(*Principal)
	return p, ok && p != nil
}
