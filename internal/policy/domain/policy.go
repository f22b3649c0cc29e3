package domain

import "time"

// Period is the window a spending limit applies over.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// ParsePeriod returns the Period for s, or false if s is not a known period.
func ParsePeriod(s string) (Period, bool) {
	switch Period(s) {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return Period(s), true
	}
	return "", false
}

// Policy is a spending limit for one category, optionally narrowed to one
// user. A nil UserID means the policy is organization-wide. MaxAmountCents
// is an integer amount in minor currency units; amounts never pass through
// a floating-point representation anywhere in the system.
type Policy struct {
	ID             string
	OrgID          string
	CategoryID     string
	UserID         *string
	MaxAmountCents int64
	Period         Period
	RequiresReview bool
	CreatedAt      time.Time
}

// ResolutionKind says which precedence tier produced the resolved policy.
type ResolutionKind string

const (
	KindUserSpecific ResolutionKind = "USER_SPECIFIC"
	KindOrgWide      ResolutionKind = "ORGANIZATION_WIDE"
	KindNone         ResolutionKind = "NONE"
)

// Resolution is the outcome of resolving the applicable policy for a
// (user, category) pair. Policy is nil when Kind is NONE.
type Resolution struct {
	Kind   ResolutionKind
	Policy *Policy
}
