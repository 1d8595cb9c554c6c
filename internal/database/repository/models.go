package repository

import "time"

// Session represents the local session row. There is at most one live
// session per install, kept under a fixed id.
type Session struct {
	ID            string
	UserID        string
	Email         string
	Authenticated bool
	EmailVerified bool
	Permission    int
	RedirectPath  *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Subscription represents a subscription row.
type Subscription struct {
	UserID    string
	Plan      string
	Status    string
	IsTrial   bool
	ExpiresAt *time.Time
	UpdatedAt time.Time
}

// SetupState represents a user's setup/onboarding progress row.
type SetupState struct {
	UserID         string
	ShowOnboarding bool
	FirstTimeSetup bool
	UpdatedAt      time.Time
}

// Project represents a project row.
type Project struct {
	ID        string
	UserID    string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
