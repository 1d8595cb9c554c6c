package nav

import (
	"fmt"
	"math"
	"time"
)

// Plan is the subscription plan tier.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
	PlanTeam Plan = "team"
)

// SubscriptionStatus is the lifecycle status of a subscription.
type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "active"
	StatusPastDue  SubscriptionStatus = "past_due"
	StatusExpired  SubscriptionStatus = "expired"
	StatusCanceled SubscriptionStatus = "canceled"
)

// PermissionLevel orders user capability within a workspace.
type PermissionLevel int

const (
	PermissionNone PermissionLevel = iota
	PermissionMember
	PermissionAdmin
	PermissionOwner
)

// AtLeast reports whether p grants at minimum the capability of min.
func (p PermissionLevel) AtLeast(min PermissionLevel) bool {
	return p >= min
}

func (p PermissionLevel) String() string {
	switch p {
	case PermissionNone:
		return "none"
	case PermissionMember:
		return "member"
	case PermissionAdmin:
		return "admin"
	case PermissionOwner:
		return "owner"
	default:
		return fmt.Sprintf("permission(%d)", int(p))
	}
}

// DegradedSources flags which raw records were replaced by fallback
// defaults, either after retry exhaustion or because the record was
// structurally missing for a known user.
type DegradedSources struct {
	Auth         bool
	Subscription bool
	Setup        bool
}

// Any reports whether at least one source is degraded.
func (d DegradedSources) Any() bool {
	return d.Auth || d.Subscription || d.Setup
}

// RawRecords carries the orchestrator's fetch results into resolution.
// A nil record means the source settled without data; the resolver
// substitutes defaults.
type RawRecords struct {
	Identity     *Identity
	Subscription *SubscriptionRecord
	Setup        *SetupRecord
	Degraded     DegradedSources
}

// ResolvedState is the canonical, fully-defaulted snapshot handed to
// rule evaluation. Every field is defined; missing data is replaced by
// the documented defaults below before the snapshot is built.
type ResolvedState struct {
	UserID          string
	Authenticated   bool
	EmailVerified   bool
	Plan            Plan
	Status          SubscriptionStatus
	Trial           bool
	DaysUntilExpiry *int
	NeedsOnboarding bool
	NeedsSetup      bool
	FirstTimeSetup  bool
	Permission      PermissionLevel
	// ExplicitRedirect is an already-validated override; when set it wins
	// over any rule-derived route.
	ExplicitRedirect *Route
	Degraded         DegradedSources
}

// Fingerprint returns a canonical string covering every routing-relevant
// field. The dispatcher keys side-effect idempotency on it.
func (s ResolvedState) Fingerprint() string {
	expiry := "-"
	if s.DaysUntilExpiry != nil {
		expiry = fmt.Sprintf("%d", *s.DaysUntilExpiry)
	}
	redirect := "-"
	if s.ExplicitRedirect != nil {
		redirect = string(*s.ExplicitRedirect)
	}
	return fmt.Sprintf("u=%s a=%t v=%t p=%s st=%s tr=%t ex=%s ob=%t su=%t ft=%t pm=%d r=%s dg=%t/%t/%t",
		s.UserID, s.Authenticated, s.EmailVerified, s.Plan, s.Status, s.Trial, expiry,
		s.NeedsOnboarding, s.NeedsSetup, s.FirstTimeSetup, int(s.Permission), redirect,
		s.Degraded.Auth, s.Degraded.Subscription, s.Degraded.Setup)
}

// Defaults substituted when a source settles without data.
//
// Auth defaults to an unauthenticated, unverified identity: without a
// trustworthy identity the router sends the user to the auth group.
// Subscription defaults fail open (free, active, no trial) so a billing
// outage never locks anyone out. Setup defaults to "nothing pending" so
// bad data never re-runs onboarding.
var (
	defaultIdentity     = Identity{Permission: PermissionNone}
	defaultSubscription = SubscriptionRecord{Plan: PlanFree, Status: StatusActive}
	defaultSetup        = SetupRecord{}
)

// Resolve builds a ResolvedState from raw records. Pure: the same
// records and clock always produce the same snapshot.
//
// Structurally missing records (nil without a degraded flag) get the
// same defaults as retry exhaustion. For a known user they also set the
// source's degraded flag; with no user at all the subscription and
// setup records are vacuously absent and stay non-degraded.
func Resolve(raw RawRecords, now time.Time) ResolvedState {
	identity := defaultIdentity
	degraded := raw.Degraded
	if raw.Identity != nil {
		identity = *raw.Identity
	} else {
		degraded.Auth = true
	}

	subscription := defaultSubscription
	setup := defaultSetup
	if identity.Authenticated {
		if raw.Subscription != nil {
			subscription = *raw.Subscription
		} else {
			degraded.Subscription = true
		}
		if raw.Setup != nil {
			setup = *raw.Setup
		} else {
			degraded.Setup = true
		}
	}

	state := ResolvedState{
		UserID:          identity.UserID,
		Authenticated:   identity.Authenticated,
		EmailVerified:   identity.EmailVerified,
		Plan:            subscription.Plan,
		Status:          subscription.Status,
		Trial:           subscription.Trial,
		NeedsOnboarding: setup.ShowOnboarding,
		NeedsSetup:      setup.FirstTimeSetup,
		FirstTimeSetup:  setup.FirstTimeSetup,
		Permission:      identity.Permission,
		Degraded:        degraded,
	}
	if subscription.ExpiresAt != nil {
		days := int(math.Floor(subscription.ExpiresAt.Sub(now).Hours() / 24))
		state.DaysUntilExpiry = &days
	}
	if identity.RedirectPath != "" {
		if route, err := ParseRoute(identity.RedirectPath); err == nil {
			state.ExplicitRedirect = &route
		}
	}
	return state
}
