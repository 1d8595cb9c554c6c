package nav

import "context"

// Rule priorities for the standard rule set. Spread out so app-specific
// rules can slot between them.
const (
	priorityUnauthenticated = 100
	priorityUnverifiedEmail = 90
	priorityExpiredAdmin    = 81
	priorityExpired         = 80
	priorityTrialEnded      = 75
	priorityFirstTimeSetup  = 70
	priorityOnboarding      = 60
	priorityWorkspace       = 0
)

// DefaultRules returns the standard jaskdesk rule set. The setup store
// backs the onboarding rule's clear-flags side effect.
func DefaultRules(setup SetupStore) []Rule {
	return []Rule{
		{
			Name:     "unauthenticated",
			Priority: priorityUnauthenticated,
			When:     func(s ResolvedState) bool { return !s.Authenticated },
			Target:   ToGroup(GroupAuth),
		},
		{
			Name:     "email-unverified",
			Priority: priorityUnverifiedEmail,
			When:     func(s ResolvedState) bool { return s.Authenticated && !s.EmailVerified },
			Target:   To(RouteVerifyEmail),
		},
		{
			Name:     "subscription-expired-admin",
			Priority: priorityExpiredAdmin,
			When: func(s ResolvedState) bool {
				return subscriptionLapsed(s) && s.Permission.AtLeast(PermissionAdmin)
			},
			Target: ToGroup(GroupAccount),
		},
		{
			Name:     "subscription-expired",
			Priority: priorityExpired,
			When:     subscriptionLapsed,
			Target:   To(RouteLocked),
		},
		{
			Name:     "trial-ended",
			Priority: priorityTrialEnded,
			When: func(s ResolvedState) bool {
				return s.Trial && s.DaysUntilExpiry != nil && *s.DaysUntilExpiry <= 0
			},
			Target: ToGroup(GroupAccount),
		},
		{
			Name:     "first-time-setup",
			Priority: priorityFirstTimeSetup,
			When:     func(s ResolvedState) bool { return s.NeedsSetup },
			Target:   To(RouteSetup),
		},
		{
			Name:     "onboarding",
			Priority: priorityOnboarding,
			When:     func(s ResolvedState) bool { return s.NeedsOnboarding },
			Target:   ToGroup(GroupWorkspace),
			OnMatch:  clearOnboardingFlags(setup),
		},
		{
			Name:     "workspace",
			Priority: priorityWorkspace,
			Target:   ToGroup(GroupWorkspace),
		},
	}
}

func subscriptionLapsed(s ResolvedState) bool {
	return !s.Trial && (s.Status == StatusExpired || s.Status == StatusCanceled)
}

// clearOnboardingFlags marks onboarding as seen. The patch is the same
// on every attempt, so a retried write cannot corrupt setup state.
func clearOnboardingFlags(setup SetupStore) func(ResolvedState) SideEffect {
	return func(s ResolvedState) SideEffect {
		userID := s.UserID
		return func(ctx context.Context) error {
			off := false
			return setup.UpdateSetup(ctx, userID, SetupPatch{
				ShowOnboarding: &off,
				FirstTimeSetup: &off,
			})
		}
	}
}
