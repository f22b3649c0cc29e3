// Package service implements organization administration: create, list, and
// member-scoped detail reads.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"expense-control-plane/backend/internal/identity"
	membershipdomain "expense-control-plane/backend/internal/membership/domain"
	"expense-control-plane/backend/internal/organization/domain"
	"expense-control-plane/backend/internal/platform/apperr"
	"expense-control-plane/backend/internal/platform/rbac"
)

// OrgRepo is the minimal organization repository needed by the service.
type OrgRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Org, error)
	CreateWithAdmin(ctx context.Context, o *domain.Org, m *membershipdomain.Membership) error
	ListByMember(ctx context.Context, userID string) ([]*domain.OrgWithRole, error)
}

// MembershipRepo is the minimal membership repository needed by the service.
type MembershipRepo interface {
	GetByUserAndOrg(ctx context.Context, userID, orgID string) (*membershipdomain.Membership, error)
	ListByOrg(ctx context.Context, orgID string) ([]*membershipdomain.Member, error)
}

// Details is an organization with its members and the caller's own role.
type Details struct {
	Org     domain.Org
	Members []*membershipdomain.Member
	Role    membershipdomain.Role
}

// Service implements organization operations.
type Service struct {
	orgs        OrgRepo
	memberships MembershipRepo
	now         func() time.Time
}

// NewService returns a Service with the given dependencies.
func NewService(orgs OrgRepo, memberships MembershipRepo) *Service {
	return &Service{orgs: orgs, memberships: memberships, now: time.Now}
}

// Create creates an organization and assigns the creator as admin; both rows
// are written in one transaction by the repository.
func (s *Service) Create(ctx context.Context, p identity.Principal, name string) (*domain.Org, error) {
	name = strings.TrimSpace(name)
	o := &domain.Org{ID: uuid.NewString(), Name: name, CreatedAt: s.now().UTC()}
	if err := o.Validate(); err != nil {
		return nil, apperr.BadRequest("organization name is required")
	}
	m := &membershipdomain.Membership{
		ID:        uuid.NewString(),
		UserID:    p.UserID,
		OrgID:     o.ID,
		Role:      membershipdomain.RoleAdmin,
		CreatedAt: o.CreatedAt,
	}
	if err := s.orgs.CreateWithAdmin(ctx, o, m); err != nil {
		return nil, err
	}
	return o, nil
}

// List returns the organizations the principal belongs to with their role,
// newest first.
func (s *Service) List(ctx context.Context, p identity.Principal) ([]*domain.OrgWithRole, error) {
	return s.orgs.ListByMember(ctx, p.UserID)
}

// GetByID returns the organization with its members. Only members may see it;
// non-members get the same not-found as a nonexistent id.
func (s *Service) GetByID(ctx context.Context, p identity.Principal, orgID string) (*Details, error) {
	m, err := rbac.RequireMember(ctx, s.memberships, p, orgID)
	if err != nil {
		return nil, err
	}
	o, err := s.orgs.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		// Membership without an org row cannot happen under the FK; treat it
		// as not found rather than panic.
		return nil, apperr.NotFound(rbac.MsgOrgNotFound)
	}
	members, err := s.memberships.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return &Details{Org: *o, Members: members, Role: m.Role}, nil
}
