package user

import (
	"encoding/json"
	"net/http"
	"strconv"

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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	_, tenantID, err := tenant.ScopeFromRequest(r)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}

	params := ListParams{
		TenantID: tenantID,
		Search:   r.URL.Query().Get("search"),
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		params.Page = page
	}
	if perPage, err := strconv.Atoi(r.URL.Query().Get("perPage")); err == nil {
		params.PerPage = perPage
	}

	result, err := h.Service.List(params)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.Service.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	principal, _, err := tenant.ScopeFromRequest(r)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}

	// Creation always lands in exactly one tenant; super-admins pick it via
	// the override header.
	tenantID, err := tenant.RequireTenantID(principal, r.Header.Get(tenant.HeaderTenantID))
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}

	user, err := h.Service.Create(dto, tenantID)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, user)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var dto UpdateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Service.Update(chi.URLParam(r, "id"), dto)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(chi.URLParam(r, "id")); err != nil {
		h.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
