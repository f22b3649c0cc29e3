// Package handler exposes spending policy administration and resolution
// over HTTP.
package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"expense-control-plane/backend/internal/platform/httpx"
	"expense-control-plane/backend/internal/policy/domain"
	"expense-control-plane/backend/internal/policy/service"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the policy routes on r. The resolve route is
// registered before the collection route so mux matches it first.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/orgs/{orgID}/policies/resolve", h.resolve).Methods(http.MethodGet)
	r.HandleFunc("/orgs/{orgID}/policies", h.create).Methods(http.MethodPost)
	r.HandleFunc("/orgs/{orgID}/policies", h.list).Methods(http.MethodGet)
	r.HandleFunc("/policies/{id}", h.update).Methods(http.MethodPatch)
	r.HandleFunc("/policies/{id}", h.delete).Methods(http.MethodDelete)
}

type createRequest struct {
	CategoryID     string  `json:"category_id"`
	UserID         *string `json:"user_id"`
	MaxAmountCents int64   `json:"max_amount_cents"`
	Period         string  `json:"period"`
	RequiresReview bool    `json:"requires_review"`
}

type updateRequest struct {
	MaxAmountCents *int64  `json:"max_amount_cents"`
	Period         *string `json:"period"`
	RequiresReview *bool   `json:"requires_review"`
}

type policyResponse struct {
	ID             string    `json:"id"`
	OrgID          string    `json:"org_id"`
	CategoryID     string    `json:"category_id"`
	UserID         *string   `json:"user_id"`
	MaxAmountCents int64     `json:"max_amount_cents"`
	Period         string    `json:"period"`
	RequiresReview bool      `json:"requires_review"`
	CreatedAt      time.Time `json:"created_at"`
}

type resolutionResponse struct {
	Kind   string          `json:"kind"`
	Policy *policyResponse `json:"policy,omitempty"`
}

func toResponse(p *domain.Policy) *policyResponse {
	return &policyResponse{
		ID: p.ID, OrgID: p.OrgID, CategoryID: p.CategoryID, UserID: p.UserID,
		MaxAmountCents: p.MaxAmountCents, Period: string(p.Period),
		RequiresReview: p.RequiresReview, CreatedAt: p.CreatedAt,
	}
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.Principal(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	res, err := h.svc.Resolve(r.Context(), p, mux.Vars(r)["orgID"], q.Get("category_id"), q.Get("user_id"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	resp := resolutionResponse{Kind: string(res.Kind)}
	if res.Policy != nil {
		resp.Policy = toResponse(res.Policy)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.Principal(w, r)
	if !ok {
		return
	}
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	pol, err := h.svc.Create(r.Context(), p, mux.Vars(r)["orgID"], req.CategoryID, req.UserID, service.PolicyInput{
		MaxAmountCents: req.MaxAmountCents,
		Period:         domain.Period(req.Period),
		RequiresReview: req.RequiresReview,
	})
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toResponse(pol))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.Principal(w, r)
	if !ok {
		return
	}
	policies, err := h.svc.List(r.Context(), p, mux.Vars(r)["orgID"])
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	out := make([]*policyResponse, 0, len(policies))
	for _, pol := range policies {
		out = append(out, toResponse(pol))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.Principal(w, r)
	if !ok {
		return
	}
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	patch := service.PolicyPatch{
		MaxAmountCents: req.MaxAmountCents,
		RequiresReview: req.RequiresReview,
	}
	if req.Period != nil {
		period := domain.Period(*req.Period)
		patch.Period = &period
	}
	pol, err := h.svc.Update(r.Context(), p, mux.Vars(r)["id"], patch)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toResponse(pol))
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
