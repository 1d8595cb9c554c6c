// Package nav decides which screen the app should be showing based on
// resolved account state (auth, subscription, setup progress).
//
// The pieces compose in one direction: Orchestrator fetches raw records,
// Resolve turns them into a ResolvedState, Engine matches it against a
// prioritized rule set to produce a Decision, and Dispatcher turns the
// Decision into at most one navigation with at-most-once side effects.
package nav
