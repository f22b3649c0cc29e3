// Package service implements the invitation lifecycle: admin-issued offers
// of membership that are accepted within seven days or lapse. Expiry is
// written lazily when an invitation is touched by accept, never by a timer.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"expense-control-plane/backend/internal/db"
	"expense-control-plane/backend/internal/identity"
	"expense-control-plane/backend/internal/invitation/domain"
	"expense-control-plane/backend/internal/logger"
	membershipdomain "expense-control-plane/backend/internal/membership/domain"
	"expense-control-plane/backend/internal/notify"
	orgdomain "expense-control-plane/backend/internal/organization/domain"
	"expense-control-plane/backend/internal/platform/apperr"
	"expense-control-plane/backend/internal/platform/rbac"
)

const (
	// MsgInvitationNotFound covers both a nonexistent invitation and one
	// addressed to someone else; the two must not be distinguishable.
	MsgInvitationNotFound = "invitation not found"

	MsgInvitationExpired   = "this invitation has expired"
	MsgInvitationProcessed = "this invitation has already been processed"
	MsgAlreadyMember       = "User is already a member of this organization"
	MsgDuplicatePending    = "an invitation has already been sent to this email"
)

const notifyTimeout = 10 * time.Second

// InvitationRepo is the minimal invitation repository needed by the service.
type InvitationRepo interface {
	GetPendingByOrgAndEmail(ctx context.Context, orgID, email string) (*domain.Invitation, error)
	GetDetailedByIDAndEmail(ctx context.Context, id, email string) (*domain.Detailed, error)
	ListPendingByEmail(ctx context.Context, email string, now time.Time) ([]*domain.Detailed, error)
	ListByOrg(ctx context.Context, orgID string) ([]*domain.Detailed, error)
	Create(ctx context.Context, inv *domain.Invitation) error
	MarkExpired(ctx context.Context, id string) error
	AcceptPending(ctx context.Context, id string, m *membershipdomain.Membership) error
}

// MembershipDirectory is the membership lookup surface the lifecycle needs.
type MembershipDirectory interface {
	GetByUserAndOrg(ctx context.Context, userID, orgID string) (*membershipdomain.Membership, error)
	GetByEmailAndOrg(ctx context.Context, email, orgID string) (*membershipdomain.Membership, error)
}

// OrgGetter resolves an org for the notification payload.
type OrgGetter interface {
	GetByID(ctx context.Context, id string) (*orgdomain.Org, error)
}

// Service implements invitation operations.
type Service struct {
	invitations InvitationRepo
	memberships MembershipDirectory
	orgs        OrgGetter
	notifier    notify.Notifier
	now         func() time.Time
}

// NewService returns a Service with the given dependencies.
func NewService(invitations InvitationRepo, memberships MembershipDirectory, orgs OrgGetter, notifier notify.Notifier) *Service {
	return &Service{
		invitations: invitations,
		memberships: memberships,
		orgs:        orgs,
		notifier:    notifier,
		now:         time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Invite creates a pending invitation for email and dispatches a best-effort
// notification. Admin only. Existing members and addresses that already hold
// a pending invitation are rejected.
func (s *Service) Invite(ctx context.Context, p identity.Principal, orgID, email string, role membershipdomain.Role) (*domain.Invitation, error) {
	if _, err := rbac.RequireAdmin(ctx, s.memberships, p, orgID, "invite users"); err != nil {
		return nil, err
	}

	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.BadRequest("a valid email address is required")
	}
	if role == "" {
		role = membershipdomain.RoleMember
	}
	if _, ok := membershipdomain.ParseRole(string(role)); !ok {
		return nil, apperr.BadRequest("role must be admin or member")
	}

	existing, err := s.memberships.GetByEmailAndOrg(ctx, email, orgID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.BadRequest(MsgAlreadyMember)
	}

	// Any pending invitation blocks a new one, even past its deadline; the
	// expired transition belongs to Accept alone.
	pending, err := s.invitations.GetPendingByOrgAndEmail(ctx, orgID, email)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, apperr.BadRequest(MsgDuplicatePending)
	}

	now := s.now().UTC()

	inv := &domain.Invitation{
		ID:          uuid.NewString(),
		OrgID:       orgID,
		Email:       email,
		Role:        role,
		InvitedByID: p.UserID,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		ExpiresAt:   now.Add(domain.ExpiryDays * 24 * time.Hour),
	}
	if err := s.invitations.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.dispatchNotification(ctx, p, inv)
	return inv, nil
}

// dispatchNotification sends the invitation email without blocking the
// request. The parent context's cancellation is detached so the send
// survives the response; failures are logged and dropped.
func (s *Service) dispatchNotification(ctx context.Context, p identity.Principal, inv *domain.Invitation) {
	org, err := s.orgs.GetByID(ctx, inv.OrgID)
	if err != nil || org == nil {
		logger.Warn("invitation notification skipped: org lookup failed",
			"invitation_id", inv.ID, "org_id", inv.OrgID, "error", err)
		return
	}

	detached := context.WithoutCancel(ctx)
	go func() {
		nctx, cancel := context.WithTimeout(detached, notifyTimeout)
		defer cancel()
		err := s.notifier.SendInvitation(nctx, notify.Invitation{
			To:               inv.Email,
			OrganizationName: org.Name,
			InvitedByName:    p.DisplayName(),
			InvitationID:     inv.ID,
		})
		if err != nil {
			logger.Warn("invitation notification failed",
				"invitation_id", inv.ID, "to", inv.Email, "error", err)
		}
	}()
}

// GetByID returns an invitation addressed to the principal, for review
// before accepting. A mismatched email reads as not found. Unlike Accept,
// an expired invitation is reported but not rewritten here.
func (s *Service) GetByID(ctx context.Context, p identity.Principal, id string) (*domain.Detailed, error) {
	d, err := s.invitations.GetDetailedByIDAndEmail(ctx, id, normalizeEmail(p.Email))
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.NotFound(MsgInvitationNotFound)
	}
	if d.Expired(s.now().UTC()) {
		return nil, apperr.BadRequest(MsgInvitationExpired)
	}
	if d.Status != domain.StatusPending {
		return nil, apperr.BadRequest(MsgInvitationProcessed)
	}
	return d, nil
}

// Accept turns a pending invitation into a membership. The status flip and
// the membership insert commit in one transaction; an invitation past its
// deadline is flipped to expired even though the call fails.
func (s *Service) Accept(ctx context.Context, p identity.Principal, id string) (*membershipdomain.Membership, error) {
	d, err := s.invitations.GetDetailedByIDAndEmail(ctx, id, normalizeEmail(p.Email))
	if err != nil {
		return nil, err
	}
	if d == nil || d.Status != domain.StatusPending {
		return nil, apperr.NotFound(MsgInvitationNotFound)
	}

	now := s.now().UTC()
	if d.Expired(now) {
		if err := s.invitations.MarkExpired(ctx, d.ID); err != nil {
			return nil, err
		}
		return nil, apperr.BadRequest(MsgInvitationExpired)
	}

	existing, err := s.memberships.GetByUserAndOrg(ctx, p.UserID, d.OrgID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.BadRequest(MsgAlreadyMember)
	}

	m := &membershipdomain.Membership{
		ID:        uuid.NewString(),
		UserID:    p.UserID,
		OrgID:     d.OrgID,
		Role:      d.Role,
		CreatedAt: now,
	}
	switch err := s.invitations.AcceptPending(ctx, d.ID, m); {
	case err == nil:
		return m, nil
	case errors.Is(err, domain.ErrNotPending):
		// A concurrent accept won; to this caller the pending invitation no
		// longer exists.
		return nil, apperr.NotFound(MsgInvitationNotFound)
	case db.IsUniqueViolation(err):
		return nil, apperr.BadRequest(MsgAlreadyMember)
	default:
		return nil, err
	}
}

// ListForPrincipal returns the caller's own pending, unexpired invitations,
// newest first.
func (s *Service) ListForPrincipal(ctx context.Context, p identity.Principal) ([]*domain.Detailed, error) {
	return s.invitations.ListPendingByEmail(ctx, normalizeEmail(p.Email), s.now().UTC())
}

// ListForOrganization returns all of the org's invitations regardless of
// status, newest first. Admin only.
func (s *Service) ListForOrganization(ctx context.Context, p identity.Principal, orgID string) ([]*domain.Detailed, error) {
	if _, err := rbac.RequireAdmin(ctx, s.memberships, p, orgID, "view organization invitations"); err != nil {
		return nil, err
	}
	return s.invitations.ListByOrg(ctx, orgID)
}
