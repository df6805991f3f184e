package rbac

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/akr0407/nuxt-base-project/internal"
	"github.com/akr0407/nuxt-base-project/internal/tenant"
	"github.com/akr0407/nuxt-base-project/internal/transport"
	"github.com/akr0407/nuxt-base-project/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     svc,
	}
}

func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	_, tenantID, err := tenant.ScopeFromRequest(r)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}

	roles, err := h.Service.ListRoles(tenantID)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, roles)
}

func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	role, err := h.Service.GetRole(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, role)
}

func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var dto CreateRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	principal, tenantID, err := tenant.ScopeFromRequest(r)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}

	// Global roles are reserved for super-admins; everyone else creates
	// roles inside their resolved tenant scope.
	if dto.IsGlobal && !principal.IsSuperAdmin {
		h.WriteDomainError(w, internal.ErrSuperAdminRequired)
		return
	}
	if !dto.IsGlobal {
		required, err := tenant.RequireTenantID(principal, r.Header.Get(tenant.HeaderTenantID))
		if err != nil {
			h.WriteDomainError(w, err)
			return
		}
		tenantID = &required
	}

	role, err := h.Service.CreateRole(dto, tenantID)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, role)
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var dto UpdateRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	role, err := h.Service.UpdateRole(chi.URLParam(r, "id"), dto)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, role)
}

func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteRole(chi.URLParam(r, "id")); err != nil {
		h.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.Service.ListPermissions()
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, perms)
}
