package auth

import (
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultTokenTTL is the fallback applied when a configured duration
	// string cannot be parsed.
	DefaultTokenTTL = 15 * time.Minute

	// RememberMeTTL is the fixed refresh token lifetime when the user ticks
	// "remember me". It overrides the configured refresh duration and is
	// used both for the signed token expiry and the persisted record.
	RememberMeTTL = 30 * 24 * time.Hour
)

// ParseDuration parses duration strings of the form <int><s|m|h|d>, e.g.
// "15m" or "7d". Anything unparseable falls back to DefaultTokenTTL rather
// than failing, so a bad env var degrades to short-lived tokens instead of
// taking the service down.
func ParseDuration(s string) time.Duration {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return DefaultTokenTTL
	}

	value, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || value <= 0 {
		return DefaultTokenTTL
	}

	switch s[len(s)-1] {
	case 's':
		return time.Duration(value) * time.Second
	case 'm':
		return time.Duration(value) * time.Minute
	case 'h':
		return time.Duration(value) * time.Hour
	case 'd':
		return time.Duration(value) * 24 * time.Hour
	default:
		return DefaultTokenTTL
	}
}

// TokenService signs and verifies the HS256 access/refresh token pair. The
// two token families use distinct secrets so an access token can never be
// replayed as a refresh token or vice versa.
type TokenService struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

func NewTokenService(accessSecret, refreshSecret, accessDuration, refreshDuration string) *TokenService {
	return &TokenService{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     ParseDuration(accessDuration),
		RefreshTokenTTL:    ParseDuration(refreshDuration),
	}
}

// SignAccessToken mints a short-lived access token for the user.
func (t *TokenService) SignAccessToken(userID, email string) (string, error) {
	return t.sign(userID, email, t.AccessTokenSecret, t.AccessTokenTTL)
}

// SignRefreshToken mints a refresh token. With rememberMe the signed expiry
// is RememberMeTTL; the persisted record must carry the same expiry, see
// RefreshTokenExpiry.
func (t *TokenService) SignRefreshToken(userID, email string, rememberMe bool) (string, error) {
	ttl := t.RefreshTokenTTL
	if rememberMe {
		ttl = RememberMeTTL
	}
	return t.sign(userID, email, t.RefreshTokenSecret, ttl)
}

// RefreshTokenExpiry returns the wall-clock expiry a newly issued refresh
// token record should be stored with. Kept next to SignRefreshToken so the
// DB row and the signed claim cannot drift apart.
func (t *TokenService) RefreshTokenExpiry(rememberMe bool) time.Time {
	if rememberMe {
		return time.Now().Add(RememberMeTTL)
	}
	return time.Now().Add(t.RefreshTokenTTL)
}

func (t *TokenService) sign(userID, email string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyAccessToken returns the claims of a valid access token, or nil for
// any failure (bad signature, expiry, malformed input). Callers branch on
// nil, not on error shape.
func (t *TokenService) VerifyAccessToken(tokenString string) *Claims {
	return verify(tokenString, t.AccessTokenSecret)
}

// VerifyRefreshToken is the refresh-secret counterpart of VerifyAccessToken.
func (t *TokenService) VerifyRefreshToken(tokenString string) *Claims {
	return verify(tokenString, t.RefreshTokenSecret)
}

func verify(tokenString string, secret []byte) *Claims {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil
	}
	return claims
}
