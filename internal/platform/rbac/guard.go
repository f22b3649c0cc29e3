// Package rbac holds the membership guards every organization-scoped
// operation must pass through. No service performs its own ad hoc
// authorization query.
package rbac

import (
	"context"

	"expense-control-plane/backend/internal/identity"
	membershipdomain "expense-control-plane/backend/internal/membership/domain"
	"expense-control-plane/backend/internal/platform/apperr"
)

// MsgOrgNotFound is the shared not-found message. A nonexistent organization
// and an organization the caller does not belong to must be indistinguishable,
// so both paths use this exact message.
const MsgOrgNotFound = "organization not found or you don't have access to it"

// MembershipGetter returns a user's membership in an org, or nil when there is none.
type MembershipGetter interface {
	GetByUserAndOrg(ctx context.Context, userID, orgID string) (*membershipdomain.Membership, error)
}

// RequireMember ensures the principal is a member of the org (any role) and
// returns the membership. Fails with the same not-found error whether the org
// is absent or the principal is simply not a member.
func RequireMember(ctx context.Context, getter MembershipGetter, p identity.Principal, orgID string) (*membershipdomain.Membership, error) {
	if p.UserID == "" || orgID == "" {
		return nil, apperr.NotFound(MsgOrgNotFound)
	}
	m, err := getter.GetByUserAndOrg(ctx, p.UserID, orgID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.NotFound(MsgOrgNotFound)
	}
	return m, nil
}

// RequireAdmin ensures the principal is an admin of the org and returns the
// membership. Membership resolves first, so a non-member still sees not-found;
// a proven member with the wrong role sees forbidden. action names the
// attempted operation in the forbidden message (e.g. "invite users").
func RequireAdmin(ctx context.Context, getter MembershipGetter, p identity.Principal, orgID, action string) (*membershipdomain.Membership, error) {
	m, err := RequireMember(ctx, getter, p, orgID)
	if err != nil {
		return nil, err
	}
	if m.Role != membershipdomain.RoleAdmin {
		return nil, apperr.Forbidden("only admins can " + action)
	}
	return m, nil
}
