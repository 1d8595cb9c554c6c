package nav

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func TestResolveSignedOut(t *testing.T) {
	state := Resolve(RawRecords{Identity: &Identity{}}, testNow)

	if state.Authenticated {
		t.Fatal("signed-out identity resolved as authenticated")
	}
	// record stores were never consulted; defaults apply without degradation
	if state.Degraded.Any() {
		t.Fatalf("vacuously absent records marked degraded: %+v", state.Degraded)
	}
	if state.Plan != PlanFree || state.Status != StatusActive {
		t.Fatalf("subscription defaults = %s/%s, want free/active", state.Plan, state.Status)
	}
	if state.NeedsOnboarding || state.NeedsSetup {
		t.Fatal("setup defaults should leave nothing pending")
	}
}

func TestResolveMissingIdentityDegradesAuth(t *testing.T) {
	state := Resolve(RawRecords{}, testNow)

	if !state.Degraded.Auth {
		t.Fatal("missing identity not flagged degraded")
	}
	if state.Authenticated {
		t.Fatal("degraded auth must default to unauthenticated")
	}
}

func TestResolveMissingRecordsForKnownUser(t *testing.T) {
	identity := Identity{UserID: "u1", Authenticated: true, EmailVerified: true}
	state := Resolve(RawRecords{Identity: &identity}, testNow)

	if !state.Degraded.Subscription || !state.Degraded.Setup {
		t.Fatalf("missing records for a known user not flagged: %+v", state.Degraded)
	}
	// fail open: a billing outage must not lock the workspace
	if state.Plan != PlanFree || state.Status != StatusActive {
		t.Fatalf("degraded subscription = %s/%s, want free/active", state.Plan, state.Status)
	}
	if state.NeedsOnboarding || state.NeedsSetup {
		t.Fatal("degraded setup must not re-run onboarding")
	}
}

func TestResolveCarriesRecords(t *testing.T) {
	expires := testNow.Add(72 * time.Hour)
	raw := RawRecords{
		Identity: &Identity{UserID: "u1", Authenticated: true, EmailVerified: true, Permission: PermissionAdmin},
		Subscription: &SubscriptionRecord{
			Plan: PlanPro, Status: StatusPastDue, Trial: true, ExpiresAt: &expires,
		},
		Setup: &SetupRecord{ShowOnboarding: true, FirstTimeSetup: true},
	}
	state := Resolve(raw, testNow)

	if state.UserID != "u1" || !state.Authenticated || !state.EmailVerified {
		t.Fatalf("identity fields lost: %+v", state)
	}
	if state.Plan != PlanPro || state.Status != StatusPastDue || !state.Trial {
		t.Fatalf("subscription fields lost: %+v", state)
	}
	if state.DaysUntilExpiry == nil || *state.DaysUntilExpiry != 3 {
		t.Fatalf("DaysUntilExpiry = %v, want 3", state.DaysUntilExpiry)
	}
	if !state.NeedsOnboarding || !state.NeedsSetup || !state.FirstTimeSetup {
		t.Fatalf("setup fields lost: %+v", state)
	}
	if !state.Permission.AtLeast(PermissionAdmin) {
		t.Fatalf("permission lost: %v", state.Permission)
	}
	if state.Degraded.Any() {
		t.Fatalf("complete records marked degraded: %+v", state.Degraded)
	}
}

func TestResolveExpiryInThePast(t *testing.T) {
	expires := testNow.Add(-30 * time.Hour)
	raw := RawRecords{
		Identity:     &Identity{UserID: "u1", Authenticated: true},
		Subscription: &SubscriptionRecord{Plan: PlanPro, Status: StatusActive, Trial: true, ExpiresAt: &expires},
		Setup:        &SetupRecord{},
	}
	state := Resolve(raw, testNow)
	if state.DaysUntilExpiry == nil || *state.DaysUntilExpiry != -2 {
		t.Fatalf("DaysUntilExpiry = %v, want -2", state.DaysUntilExpiry)
	}
}

func TestResolveRedirectPath(t *testing.T) {
	identity := Identity{UserID: "u1", Authenticated: true, RedirectPath: "billing"}
	state := Resolve(RawRecords{Identity: &identity, Subscription: &SubscriptionRecord{Plan: PlanFree, Status: StatusActive}, Setup: &SetupRecord{}}, testNow)
	if state.ExplicitRedirect == nil || *state.ExplicitRedirect != RouteBilling {
		t.Fatalf("redirect not parsed: %v", state.ExplicitRedirect)
	}

	identity.RedirectPath = "not-a-route"
	state = Resolve(RawRecords{Identity: &identity, Subscription: &SubscriptionRecord{}, Setup: &SetupRecord{}}, testNow)
	if state.ExplicitRedirect != nil {
		t.Fatalf("invalid redirect kept: %v", *state.ExplicitRedirect)
	}
}

func TestResolveIsPure(t *testing.T) {
	raw := RawRecords{Identity: &Identity{UserID: "u1", Authenticated: true}}
	a := Resolve(raw, testNow)
	b := Resolve(raw, testNow)
	if a != b {
		t.Fatalf("same input produced different states:\n%+v\n%+v", a, b)
	}
}

func TestFingerprintDistinguishesStates(t *testing.T) {
	base := ResolvedState{UserID: "u1", Authenticated: true, Plan: PlanFree, Status: StatusActive}

	changed := base
	changed.EmailVerified = true
	if base.Fingerprint() == changed.Fingerprint() {
		t.Fatal("fingerprint ignores EmailVerified")
	}

	changed = base
	days := 3
	changed.DaysUntilExpiry = &days
	if base.Fingerprint() == changed.Fingerprint() {
		t.Fatal("fingerprint ignores DaysUntilExpiry")
	}

	changed = base
	redirect := RouteSetup
	changed.ExplicitRedirect = &redirect
	if base.Fingerprint() == changed.Fingerprint() {
		t.Fatal("fingerprint ignores ExplicitRedirect")
	}

	changed = base
	changed.Degraded.Subscription = true
	if base.Fingerprint() == changed.Fingerprint() {
		t.Fatal("fingerprint ignores degradation")
	}

	if base.Fingerprint() != base.Fingerprint() {
		t.Fatal("fingerprint unstable for equal states")
	}
}
