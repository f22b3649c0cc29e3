// Package handler exposes the invitation lifecycle over HTTP.
package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"expense-control-plane/backend/internal/invitation/domain"
	"expense-control-plane/backend/internal/invitation/service"
	membershipdomain "expense-control-plane/backend/internal/membership/domain"
	"expense-control-plane/backend/internal/platform/httpx"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the invitation routes on r.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/orgs/{orgID}/invitations", h.invite).Methods(http.MethodPost)
	r.HandleFunc("/orgs/{orgID}/invitations", h.listForOrganization).Methods(http.MethodGet)
	r.HandleFunc("/invitations", h.listForPrincipal).Methods(http.MethodGet)
	r.HandleFunc("/invitations/{id}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/invitations/{id}/accept", h.accept).Methods(http.MethodPost)
}

type inviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type invitationResponse struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"org_id"`
	OrgName   string    `json:"org_name,omitempty"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	InvitedBy string    `json:"invited_by,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func toResponse(inv *domain.Invitation) invitationResponse {
	return invitationResponse{
		ID: inv.ID, OrgID: inv.OrgID, Email: inv.Email, Role: string(inv.Role),
		Status: string(inv.Status), CreatedAt: inv.CreatedAt, ExpiresAt: inv.ExpiresAt,
	}
}

func toDetailedResponse(d *domain.Detailed) invitationResponse {
	resp := toResponse(&d.Invitation)
	resp.OrgName = d.OrgName
	resp.InvitedBy = d.InviterName
	if resp.InvitedBy == "" {
		resp.InvitedBy = d.InviterEmail
	}
	return resp
}

type membershipResponse struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	OrgID    string    `json:"org_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

func (h *Handler) invite(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.Principal(w, r)
	if !ok {
		return
	}
	var req inviteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	inv, err := h.svc.Invite(r.Context(), p, mux.Vars(r)["orgID"], req.Email, membershipdomain.Role(req.Role))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toResponse(inv))
}

func (h *Handler) listForOrganization(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.Principal(w, r)
	if !ok {
		return
	}
	invs, err := h.svc.ListForOrganization(r.Context(), p, mux.Vars(r)["orgID"])
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toDetailedResponses(invs))
}

func (h *Handler) listForPrincipal(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.Principal(w, r)
	if !ok {
		return
	}
	invs, err := h.svc.ListForPrincipal(r.Context(), p)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toDetailedResponses(invs))
}

func toDetailedResponses(invs []*domain.Detailed) []invitationResponse {
	out := make([]invitationResponse, 0, len(invs))
	for _, d := range invs {
		out = append(out, toDetailedResponse(d))
	}
	return out
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.Principal(w, r)
	if !ok {
		return
	}
	d, err := h.svc.GetByID(r.Context(), p, mux.Vars(r)["id"])
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toDetailedResponse(d))
}

func (h *Handler) accept(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.Principal(w, r)
	if !ok {
		return
	}
	m, err := h.svc.Accept(r.Context(), p, mux.Vars(r)["id"])
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, membershipResponse{
		ID: m.ID, UserID: m.UserID, OrgID: m.OrgID, Role: string(m.Role), JoinedAt: m.CreatedAt,
	})
}
