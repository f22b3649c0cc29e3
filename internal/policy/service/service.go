// Package service implements spending policy administration and the policy
// resolver. Resolution precedence is strict: a user-specific policy for the
// (org, category) pair wins, the org-wide policy is the fallback, and no
// policy at all is a valid terminal outcome.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	categorydomain "expense-control-plane/backend/internal/category/domain"
	"expense-control-plane/backend/internal/db"
	"expense-control-plane/backend/internal/identity"
	membershipdomain "expense-control-plane/backend/internal/membership/domain"
	"expense-control-plane/backend/internal/platform/apperr"
	"expense-control-plane/backend/internal/platform/rbac"
	"expense-control-plane/backend/internal/policy/domain"
)

const (
	MsgPolicyNotFound     = "policy not found"
	MsgCategoryNotInOrg   = "expense category not found in this organization"
	MsgTargetNotMember    = "User is not a member of this organization"
	MsgDuplicatePolicy    = "a policy already exists for this category and scope"
	MsgAmountNotPositive  = "maximum amount must be a positive integer in cents"
	MsgInvalidPeriod      = "period must be daily, weekly, or monthly"
	actionManagePolicies  = "manage spending policies"
	actionResolveForOther = "view policies for other members"
)

// PolicyRepo is the minimal policy repository needed by the service.
type PolicyRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Policy, error)
	GetUserSpecific(ctx context.Context, orgID, categoryID, userID string) (*domain.Policy, error)
	GetOrgWide(ctx context.Context, orgID, categoryID string) (*domain.Policy, error)
	ListByOrg(ctx context.Context, orgID string) ([]*domain.Policy, error)
	Create(ctx context.Context, p *domain.Policy) error
	Update(ctx context.Context, p *domain.Policy) error
	Delete(ctx context.Context, id string) error
}

// CategoryGetter resolves a category for scope checks.
type CategoryGetter interface {
	GetByID(ctx context.Context, id string) (*categorydomain.Category, error)
}

// MembershipDirectory is the membership lookup surface the service needs,
// used for both guards and target-member validation.
type MembershipDirectory interface {
	GetByUserAndOrg(ctx context.Context, userID, orgID string) (*membershipdomain.Membership, error)
}

// PolicyInput carries the mutable fields of a policy.
type PolicyInput struct {
	MaxAmountCents int64
	Period         domain.Period
	RequiresReview bool
}

func (in PolicyInput) validate() error {
	if in.MaxAmountCents <= 0 {
		return apperr.BadRequest(MsgAmountNotPositive)
	}
	if _, ok := domain.ParsePeriod(string(in.Period)); !ok {
		return apperr.BadRequest(MsgInvalidPeriod)
	}
	return nil
}

// Service implements policy operations.
type Service struct {
	policies    PolicyRepo
	categories  CategoryGetter
	memberships MembershipDirectory
	now         func() time.Time
}

// NewService returns a Service with the given dependencies.
func NewService(policies PolicyRepo, categories CategoryGetter, memberships MembershipDirectory) *Service {
	return &Service{policies: policies, categories: categories, memberships: memberships, now: time.Now}
}

// categoryInOrg ensures the category exists and belongs to orgID.
func (s *Service) categoryInOrg(ctx context.Context, categoryID, orgID string) error {
	c, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if c == nil || c.OrgID != orgID {
		return apperr.NotFound(MsgCategoryNotInOrg)
	}
	return nil
}

// Resolve returns the single applicable policy for (category, target user),
// or none. Members may only resolve for themselves; admins for anyone. The
// lookup is always scoped by the full (org, category) pair, so a
// user-specific policy for a different category never masks the org-wide
// policy for this one.
func (s *Service) Resolve(ctx context.Context, p identity.Principal, orgID, categoryID, targetUserID string) (*domain.Resolution, error) {
	if _, err := rbac.RequireMember(ctx, s.memberships, p, orgID); err != nil {
		return nil, err
	}
	if targetUserID == "" {
		targetUserID = p.UserID
	}
	if targetUserID != p.UserID {
		if _, err := rbac.RequireAdmin(ctx, s.memberships, p, orgID, actionResolveForOther); err != nil {
			return nil, err
		}
	}
	if err := s.categoryInOrg(ctx, categoryID, orgID); err != nil {
		return nil, err
	}

	specific, err := s.policies.GetUserSpecific(ctx, orgID, categoryID, targetUserID)
	if err != nil {
		return nil, err
	}
	if specific != nil {
		return &domain.Resolution{Kind: domain.KindUserSpecific, Policy: specific}, nil
	}

	wide, err := s.policies.GetOrgWide(ctx, orgID, categoryID)
	if err != nil {
		return nil, err
	}
	if wide != nil {
		return &domain.Resolution{Kind: domain.KindOrgWide, Policy: wide}, nil
	}

	return &domain.Resolution{Kind: domain.KindNone}, nil
}

// Create adds a policy. Admin only. The category must belong to the org and
// a user-specific policy's target must already be a member.
func (s *Service) Create(ctx context.Context, p identity.Principal, orgID, categoryID string, userID *string, in PolicyInput) (*domain.Policy, error) {
	if _, err := rbac.RequireAdmin(ctx, s.memberships, p, orgID, actionManagePolicies); err != nil {
		return nil, err
	}
	if err := s.categoryInOrg(ctx, categoryID, orgID); err != nil {
		return nil, err
	}
	if userID != nil {
		m, err := s.memberships.GetByUserAndOrg(ctx, *userID, orgID)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, apperr.NotFound(MsgTargetNotMember)
		}
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	// The NULL user slot is invisible to the plain unique key, so duplicates
	// are pre-checked here; the partial index still backstops races.
	var existing *domain.Policy
	var err error
	if userID == nil {
		existing, err = s.policies.GetOrgWide(ctx, orgID, categoryID)
	} else {
		existing, err = s.policies.GetUserSpecific(ctx, orgID, categoryID, *userID)
	}
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.BadRequest(MsgDuplicatePolicy)
	}

	pol := &domain.Policy{
		ID:             uuid.NewString(),
		OrgID:          orgID,
		CategoryID:     categoryID,
		UserID:         userID,
		MaxAmountCents: in.MaxAmountCents,
		Period:         in.Period,
		RequiresReview: in.RequiresReview,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.policies.Create(ctx, pol); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperr.BadRequest(MsgDuplicatePolicy)
		}
		return nil, err
	}
	return pol, nil
}

// getForAdmin looks the policy up first so a missing id reads as not found
// rather than forbidden, then requires admin on the owning org.
func (s *Service) getForAdmin(ctx context.Context, p identity.Principal, id string) (*domain.Policy, error) {
	pol, err := s.policies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pol == nil {
		return nil, apperr.NotFound(MsgPolicyNotFound)
	}
	if _, err := rbac.RequireAdmin(ctx, s.memberships, p, pol.OrgID, actionManagePolicies); err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.NotFound(MsgPolicyNotFound)
		}
		return nil, err
	}
	return pol, nil
}

// PolicyPatch carries optional new values for a policy's mutable fields;
// nil fields keep the stored value.
type PolicyPatch struct {
	MaxAmountCents *int64
	Period         *domain.Period
	RequiresReview *bool
}

// Update patches a policy's limit, period, and review flag; omitted fields
// are left as they are. Admin only; scope (org, category, user) is immutable.
func (s *Service) Update(ctx context.Context, p identity.Principal, id string, patch PolicyPatch) (*domain.Policy, error) {
	pol, err := s.getForAdmin(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if patch.MaxAmountCents != nil {
		if *patch.MaxAmountCents <= 0 {
			return nil, apperr.BadRequest(MsgAmountNotPositive)
		}
		pol.MaxAmountCents = *patch.MaxAmountCents
	}
	if patch.Period != nil {
		if _, ok := domain.ParsePeriod(string(*patch.Period)); !ok {
			return nil, apperr.BadRequest(MsgInvalidPeriod)
		}
		pol.Period = *patch.Period
	}
	if patch.RequiresReview != nil {
		pol.RequiresReview = *patch.RequiresReview
	}
	if err := s.policies.Update(ctx, pol); err != nil {
		return nil, err
	}
	return pol, nil
}

// Delete removes a policy. Admin only.
func (s *Service) Delete(ctx context.Context, p identity.Principal, id string) error {
	pol, err := s.getForAdmin(ctx, p, id)
	if err != nil {
		return err
	}
	return s.policies.Delete(ctx, pol.ID)
}

// List returns all of the org's policies. Admin only.
func (s *Service) List(ctx context.Context, p identity.Principal, orgID string) ([]*domain.Policy, error) {
	if _, err := rbac.RequireAdmin(ctx, s.memberships, p, orgID, actionManagePolicies); err != nil {
		return nil, err
	}
	return s.policies.ListByOrg(ctx, orgID)
}
