package settings

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

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

func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	principal, _, err := tenant.ScopeFromRequest(r)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}

	tenantID, err := tenant.RequireTenantID(principal, r.Header.Get(tenant.HeaderTenantID))
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}

	theme, err := h.Service.GetTheme(tenantID)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, theme)
}

func (h *Handler) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	var theme ThemeSettings
	if err := json.NewDecoder(r.Body).Decode(&theme); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	principal, _, err := tenant.ScopeFromRequest(r)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}

	tenantID, err := tenant.RequireTenantID(principal, r.Header.Get(tenant.HeaderTenantID))
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}

	updated, err := h.Service.UpdateTheme(tenantID, theme)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	_, tenantID, err := tenant.ScopeFromRequest(r)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}

	templates, err := h.Service.ListTemplates(tenantID)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, templates)
}

func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var dto CreateTemplateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	principal, tenantID, err := tenant.ScopeFromRequest(r)
	if err != nil {
		h.WriteDomainError(w, err)
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

	template, err := h.Service.CreateTemplate(dto, tenantID)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, template)
}

func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteTemplate(chi.URLParam(r, "id")); err != nil {
		h.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
