package auth

import (
	"encoding/json"
	"net/http"

	"github.com/akr0407/nuxt-base-project/internal"
	"github.com/akr0407/nuxt-base-project/internal/transport"
	"github.com/akr0407/nuxt-base-project/pkg/logger"
)

// RefreshCookieName is fixed: browser clients match it literally.
const RefreshCookieName = "refresh_token"

type Handler struct {
	*transport.BaseHandler
	Service      ServiceAPI
	secureCookie bool
}

// NewHandler builds the auth handler. secureCookie should be true in
// production so the refresh cookie only travels over TLS.
func NewHandler(svc ServiceAPI, secureCookie bool) *Handler {
	return &Handler{
		BaseHandler:  transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:      svc,
		secureCookie: secureCookie,
	}
}

type loginResponse struct {
	AccessToken string     `json:"accessToken"`
	User        *Principal `json:"user"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.Login(dto)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}

	h.setRefreshCookie(w, result.RefreshToken, result.RefreshExpiresIn)
	h.WriteJSON(w, http.StatusOK, loginResponse{
		AccessToken: result.AccessToken,
		User:        result.User,
	})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.Refresh(h.refreshTokenFromCookie(r))
	if err != nil {
		h.clearRefreshCookie(w)
		h.WriteDomainError(w, err)
		return
	}

	h.setRefreshCookie(w, result.RefreshToken, result.RefreshExpiresIn)
	h.WriteJSON(w, http.StatusOK, loginResponse{
		AccessToken: result.AccessToken,
		User:        result.User,
	})
}

// Logout revokes the presented refresh token and clears the cookie. The
// response is 204 regardless of whether anything was actually revoked.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Service.Logout(h.refreshTokenFromCookie(r))
	h.clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	principal, err := h.Service.Register(dto)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, principal)
}

// Me returns the authenticated principal with resolved roles and
// permissions. Requires AuthMiddleware upstream.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.WriteDomainError(w, internal.ErrUnauthenticated)
		return
	}

	session, err := h.Service.Session(principal)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, session)
}

// AuthMiddleware authenticates the bearer token and attaches the principal
// to the request context. Every protected route runs through it.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteDomainError(w, internal.ErrMissingToken)
			return
		}

		principal, err := h.Service.Authenticate(token)
		if err != nil {
			h.Logger.Info("authentication failed", "path", r.URL.Path, "error", err)
			h.WriteDomainError(w, err)
			return
		}

		ctx := ContextWithPrincipal(r.Context(), principal)
		ctx = logger.With(ctx, "user_id", principal.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePermission gates a route on one permission name. Super-admins pass
// unconditionally; this is the single place that exemption lives, so the
// permission resolver itself stays ignorant of super-admin status.
func (h *Handler) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				h.WriteDomainError(w, internal.ErrUnauthenticated)
				return
			}

			if principal.IsSuperAdmin {
				next.ServeHTTP(w, r)
				return
			}

			allowed, err := h.Service.HasPermission(principal.ID, permission)
			if err != nil {
				h.Logger.Error("permission resolution failed", "user_id", principal.ID, "permission", permission, "error", err)
				h.WriteDomainError(w, internal.NewInternalError("failed to resolve permissions", err))
				return
			}
			if !allowed {
				h.Logger.Info("permission denied", "user_id", principal.ID, "permission", permission)
				h.WriteDomainError(w, internal.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperAdmin gates routes that operate cross-tenant, such as tenant
// provisioning. Unlike RequirePermission there is no resolver fallback: the
// flag on the principal is the only thing that matters.
func (h *Handler) RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			h.WriteDomainError(w, internal.ErrUnauthenticated)
			return
		}
		if !principal.IsSuperAdmin {
			h.WriteDomainError(w, internal.ErrSuperAdminRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) refreshTokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
