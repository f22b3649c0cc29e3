// Package handler exposes expense category operations over HTTP.
package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"expense-control-plane/backend/internal/category/domain"
	"expense-control-plane/backend/internal/category/service"
	"expense-control-plane/backend/internal/platform/httpx"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the category routes on r.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/orgs/{orgID}/categories", h.create).Methods(http.MethodPost)
	r.HandleFunc("/orgs/{orgID}/categories", h.list).Methods(http.MethodGet)
	r.HandleFunc("/categories/{id}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/categories/{id}", h.update).Methods(http.MethodPatch)
	r.HandleFunc("/categories/{id}", h.delete).Methods(http.MethodDelete)
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type categoryResponse struct {
	ID          string    `json:"id"`
	OrgID       string    `json:"org_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toResponse(c *domain.Category) categoryResponse {
	return categoryResponse{
		ID: c.ID, OrgID: c.OrgID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.Principal(w, r)
	if !ok {
		return
	}
	var req categoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	c, err := h.svc.Create(r.Context(), p, mux.Vars(r)["orgID"], req.Name, req.Description)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.Principal(w, r)
	if !ok {
		return
	}
	categories, err := h.svc.List(r.Context(), p, mux.Vars(r)["orgID"])
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toResponse(c))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.Principal(w, r)
	if !ok {
		return
	}
	c, err := h.svc.GetByID(r.Context(), p, mux.Vars(r)["id"])
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.Principal(w, r)
	if !ok {
		return
	}
	var req categoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	c, err := h.svc.Update(r.Context(), p, mux.Vars(r)["id"], req.Name, req.Description)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.Principal(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), p, mux.Vars(r)["id"]); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusNoContent, nil)
}
