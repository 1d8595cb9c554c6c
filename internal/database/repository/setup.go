package repository

import (
	"context"
	"database/sql"
)

// SetupRepo handles setup/onboarding progress rows.
type SetupRepo struct {
	db *sql.DB
}

func NewSetupRepo(db *sql.DB) *SetupRepo {
	return &SetupRepo{db: db}
}

// ByUser returns the user's setup row, or nil when none exists.
func (r *SetupRepo) ByUser(ctx context.Context, userID string) (*SetupState, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT user_id, show_onboarding, first_time_setup, updated_at
	FROM setup_state WHERE user_id = ?`, userID)
	var s SetupState
	err := row.Scan(&s.UserID, &s.ShowOnboarding, &s.FirstTimeSetup, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SetupRepo) Upsert(ctx context.Context, s SetupState) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO setup_state(user_id, show_onboarding, first_time_setup, updated_at)
	VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(user_id) DO UPDATE SET
	 show_onboarding=excluded.show_onboarding,
	 first_time_setup=excluded.first_time_setup,
	 updated_at=CURRENT_TIMESTAMP;
	`, s.UserID, s.ShowOnboarding, s.FirstTimeSetup)
	return err
}

// UpdateFlags patches individual flags, leaving nil fields untouched.
// Writes are absolute values, so repeating the same patch is a no-op —
// the store-side idempotency the routing side effects rely on.
func (r *SetupRepo) UpdateFlags(ctx context.Context, userID string, showOnboarding, firstTimeSetup *bool) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO setup_state(user_id, show_onboarding, first_time_setup, updated_at)
	VALUES (?, COALESCE(?, 0), COALESCE(?, 0), CURRENT_TIMESTAMP)
	ON CONFLICT(user_id) DO UPDATE SET
	 show_onboarding=COALESCE(?, show_onboarding),
	 first_time_setup=COALESCE(?, first_time_setup),
	 updated_at=CURRENT_TIMESTAMP;
	`, userID, showOnboarding, firstTimeSetup, showOnboarding, firstTimeSetup)
	return err
}
