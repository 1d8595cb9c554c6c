package repository

import (
	"context"
	"database/sql"
)

// SubscriptionRepo handles subscription rows.
type SubscriptionRepo struct {
	db *sql.DB
}

func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo {
	return &SubscriptionRepo{db: db}
}

// ByUser returns the user's subscription, or nil when none exists.
func (r *SubscriptionRepo) ByUser(ctx context.Context, userID string) (*Subscription, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT user_id, plan, status, is_trial, expires_at, updated_at
	FROM subscriptions WHERE user_id = ?`, userID)
	var s Subscription
	err := row.Scan(&s.UserID, &s.Plan, &s.Status, &s.IsTrial, &s.ExpiresAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubscriptionRepo) Upsert(ctx context.Context, s Subscription) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO subscriptions(user_id, plan, status, is_trial, expires_at, updated_at)
	VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(user_id) DO UPDATE SET
	 plan=excluded.plan,
	 status=excluded.status,
	 is_trial=excluded.is_trial,
	 expires_at=excluded.expires_at,
	 updated_at=CURRENT_TIMESTAMP;
	`, s.UserID, s.Plan, s.Status, s.IsTrial, s.ExpiresAt)
	return err
}

// SetStatus updates the lifecycle status only.
func (r *SubscriptionRepo) SetStatus(ctx context.Context, userID, status string) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE subscriptions SET status = ?, updated_at = CURRENT_TIMESTAMP
	WHERE user_id = ?`, status, userID)
	return err
}
