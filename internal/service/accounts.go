package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jask/jaskdesk/internal/database/repository"
	"github.com/jask/jaskdesk/internal/nav"
)

// AccountService is the auth source: it owns the local session and the
// sign-in / verification flows that mutate it.
type AccountService struct {
	Sessions      *repository.SessionRepo
	Subscriptions *repository.SubscriptionRepo
	Setup         *repository.SetupRepo
}

// CurrentIdentity implements nav.AuthSource.
func (s *AccountService) CurrentIdentity(ctx context.Context) (nav.Identity, error) {
	session, err := s.Sessions.Current(ctx)
	if err != nil {
		return nav.Identity{}, fmt.Errorf("read session: %w", err)
	}
	if session == nil {
		return nav.Identity{}, nil
	}
	identity := nav.Identity{
		UserID:        session.UserID,
		Authenticated: session.Authenticated,
		EmailVerified: session.EmailVerified,
		Permission:    nav.PermissionLevel(session.Permission),
	}
	if session.RedirectPath != nil {
		identity.RedirectPath = *session.RedirectPath
	}
	return identity, nil
}

// SignIn creates the local session for the given address and ensures
// the user's subscription and setup rows exist. New users start on a
// 14-day trial with onboarding and first-time setup pending.
func (s *AccountService) SignIn(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("sign in: email is required")
	}
	userID := UserIDFor(email)
	session := repository.Session{
		ID:            repository.LocalSessionID,
		UserID:        userID,
		Email:         email,
		Authenticated: true,
		Permission:    int(nav.PermissionOwner), // local installs act as their own workspace owner
	}
	if err := s.Sessions.Upsert(ctx, session); err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	existing, err := s.Subscriptions.ByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("sign in: read subscription: %w", err)
	}
	if existing == nil {
		expires := time.Now().UTC().Add(14 * 24 * time.Hour)
		if err := s.Subscriptions.Upsert(ctx, repository.Subscription{
			UserID:    userID,
			Plan:      string(nav.PlanFree),
			Status:    string(nav.StatusActive),
			IsTrial:   true,
			ExpiresAt: &expires,
		}); err != nil {
			return fmt.Errorf("sign in: seed subscription: %w", err)
		}
	}

	state, err := s.Setup.ByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("sign in: read setup: %w", err)
	}
	if state == nil {
		if err := s.Setup.Upsert(ctx, repository.SetupState{
			UserID:         userID,
			ShowOnboarding: true,
			FirstTimeSetup: true,
		}); err != nil {
			return fmt.Errorf("sign in: seed setup: %w", err)
		}
	}
	return nil
}

// SignOut removes the local session.
func (s *AccountService) SignOut(ctx context.Context) error {
	if err := s.Sessions.Delete(ctx); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// VerifyEmail marks the session verified and records an explicit
// redirect so the next routing cycle lands on the workspace regardless
// of lower-priority rules.
func (s *AccountService) VerifyEmail(ctx context.Context) error {
	if err := s.Sessions.SetVerified(ctx, string(nav.RouteProjects)); err != nil {
		return fmt.Errorf("verify email: %w", err)
	}
	return nil
}

// ClearRedirect drops a consumed redirect path.
func (s *AccountService) ClearRedirect(ctx context.Context) error {
	if err := s.Sessions.ClearRedirect(ctx); err != nil {
		return fmt.Errorf("clear redirect: %w", err)
	}
	return nil
}

// UserIDFor derives a stable user id from an email address, so the same
// address signs back into the same account.
func UserIDFor(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("user:"+strings.ToLower(strings.TrimSpace(email)))).String()
}
