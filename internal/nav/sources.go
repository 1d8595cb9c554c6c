package nav

import (
	"context"
	"time"
)

// Identity is the auth source's view of the current user. It may be
// momentarily stale right after a verification event; the dispatcher
// re-fetches on every cycle so staleness self-corrects.
type Identity struct {
	UserID        string
	Authenticated bool
	EmailVerified bool
	Permission    PermissionLevel
	// RedirectPath is an optional free-form route string set by upstream
	// logic (e.g. a just-completed verification step). It is validated
	// with ParseRoute during resolution.
	RedirectPath string
}

// SubscriptionRecord is the raw subscription row for a user.
type SubscriptionRecord struct {
	Plan      Plan
	Status    SubscriptionStatus
	Trial     bool
	ExpiresAt *time.Time
}

// SetupRecord is the raw setup/onboarding progress row for a user.
type SetupRecord struct {
	ShowOnboarding bool
	FirstTimeSetup bool
}

// SetupPatch updates a subset of setup flags. Nil fields are left alone.
// Stores must tolerate receiving the same patch more than once.
type SetupPatch struct {
	ShowOnboarding *bool
	FirstTimeSetup *bool
}

// AuthSource reads the current identity.
type AuthSource interface {
	CurrentIdentity(ctx context.Context) (Identity, error)
}

// SubscriptionStore reads subscription records. A missing record is
// (nil, nil), not an error.
type SubscriptionStore interface {
	SubscriptionByUser(ctx context.Context, userID string) (*SubscriptionRecord, error)
}

// SetupStore reads and patches setup/onboarding records. A missing
// record is (nil, nil), not an error.
type SetupStore interface {
	SetupByUser(ctx context.Context, userID string) (*SetupRecord, error)
	UpdateSetup(ctx context.Context, userID string, patch SetupPatch) error
}

// NavigationHost owns the actual screen. Navigate is fire-and-forget
// from the engine's perspective; a rejected route is logged, never fatal.
type NavigationHost interface {
	CurrentRoute() Route
	Navigate(Route) error
}
