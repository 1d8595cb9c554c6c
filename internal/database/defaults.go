package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/jask/jaskdesk/internal/database/repository"
)

// SeedDefaults backfills subscription and setup rows for the live
// session's user. Fresh sign-ins create these rows themselves; this
// repairs databases from older versions or interrupted sign-ins.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	sessions := repository.NewSessionRepo(db)
	session, err := sessions.Current(ctx)
	if err != nil {
		return err
	}
	if session == nil || !session.Authenticated {
		return nil
	}

	subs := repository.NewSubscriptionRepo(db)
	existing, err := subs.ByUser(ctx, session.UserID)
	if err != nil {
		return err
	}
	if existing == nil {
		expires := Now().Add(14 * 24 * time.Hour)
		if err := subs.Upsert(ctx, repository.Subscription{
			UserID:    session.UserID,
			Plan:      "free",
			Status:    "active",
			IsTrial:   true,
			ExpiresAt: &expires,
		}); err != nil {
			return err
		}
	}

	setup := repository.NewSetupRepo(db)
	state, err := setup.ByUser(ctx, session.UserID)
	if err != nil {
		return err
	}
	if state == nil {
		if err := setup.Upsert(ctx, repository.SetupState{
			UserID:         session.UserID,
			ShowOnboarding: true,
			FirstTimeSetup: true,
		}); err != nil {
			return err
		}
	}
	return nil
}
