// Package handler exposes organization operations over HTTP.
package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	membershipdomain "expense-control-plane/backend/internal/membership/domain"
	"expense-control-plane/backend/internal/organization/service"
	"expense-control-plane/backend/internal/platform/httpx"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the organization routes on r.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/orgs", h.create).Methods(http.MethodPost)
	r.HandleFunc("/orgs", h.list).Methods(http.MethodGet)
	r.HandleFunc("/orgs/{orgID}", h.get).Methods(http.MethodGet)
}

type createRequest struct {
	Name string `json:"name"`
}

type orgResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Role      string    `json:"role,omitempty"`
}

type memberResponse struct {
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type detailsResponse struct {
	orgResponse
	Members []memberResponse `json:"members"`
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
	o, err := h.svc.Create(r.Context(), p, req.Name)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, orgResponse{
		ID: o.ID, Name: o.Name, CreatedAt: o.CreatedAt, Role: string(membershipdomain.RoleAdmin),
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.Principal(w, r)
	if !ok {
		return
	}
	orgs, err := h.svc.List(r.Context(), p)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	out := make([]orgResponse, 0, len(orgs))
	for _, o := range orgs {
		out = append(out, orgResponse{ID: o.ID, Name: o.Name, CreatedAt: o.CreatedAt, Role: string(o.Role)})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.Principal(w, r)
	if !ok {
		return
	}
	d, err := h.svc.GetByID(r.Context(), p, mux.Vars(r)["orgID"])
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	resp := detailsResponse{
		orgResponse: orgResponse{ID: d.Org.ID, Name: d.Org.Name, CreatedAt: d.Org.CreatedAt, Role: string(d.Role)},
		Members:     make([]memberResponse, 0, len(d.Members)),
	}
	for _, m := range d.Members {
		resp.Members = append(resp.Members, memberResponse{
			UserID: m.UserID, Name: m.UserName, Email: m.UserEmail, Role: string(m.Role), JoinedAt: m.CreatedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
