package repository

import (
	"context"
	"database/sql"
)

// LocalSessionID keys the single live session row.
const LocalSessionID = "local"

// SessionRepo handles the local session.
type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Current returns the live session, or nil when signed out.
func (r *SessionRepo) Current(ctx context.Context) (*Session, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, user_id, email, authenticated, email_verified, permission, redirect_path, created_at, updated_at
	FROM sessions WHERE id = ?`, LocalSessionID)
	var s Session
	err := row.Scan(&s.ID, &s.UserID, &s.Email, &s.Authenticated, &s.EmailVerified, &s.Permission, &s.RedirectPath, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepo) Upsert(ctx context.Context, s Session) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO sessions(id, user_id, email, authenticated, email_verified, permission, redirect_path, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 user_id=excluded.user_id,
	 email=excluded.email,
	 authenticated=excluded.authenticated,
	 email_verified=excluded.email_verified,
	 permission=excluded.permission,
	 redirect_path=excluded.redirect_path,
	 updated_at=CURRENT_TIMESTAMP;
	`, s.ID, s.UserID, s.Email, s.Authenticated, s.EmailVerified, s.Permission, s.RedirectPath)
	return err
}

// SetVerified marks the session's email as verified and records the
// post-verification redirect path.
func (r *SessionRepo) SetVerified(ctx context.Context, redirectPath string) error {
	var redirect *string
	if redirectPath != "" {
		redirect = &redirectPath
	}
	_, err := r.db.ExecContext(ctx, `
	UPDATE sessions SET email_verified = 1, redirect_path = ?, updated_at = CURRENT_TIMESTAMP
	WHERE id = ?`, redirect, LocalSessionID)
	return err
}

// ClearRedirect drops a consumed redirect path. Safe to call when none
// is set.
func (r *SessionRepo) ClearRedirect(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE sessions SET redirect_path = NULL, updated_at = CURRENT_TIMESTAMP
	WHERE id = ?`, LocalSessionID)
	return err
}

// Delete removes the live session (sign out).
func (r *SessionRepo) Delete(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, LocalSessionID)
	return err
}
