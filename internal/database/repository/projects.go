package repository

import (
	"context"
	"database/sql"
)

// ProjectRepo handles projects.
type ProjectRepo struct {
	db *sql.DB
}

func NewProjectRepo(db *sql.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

func (r *ProjectRepo) ListByUser(ctx context.Context, userID string) ([]Project, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, user_id, name, created_at, updated_at
	FROM projects WHERE user_id = ? ORDER BY created_at, name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProjectRepo) Create(ctx context.Context, p Project) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO projects(id, user_id, name, created_at, updated_at)
	VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`, p.ID, p.UserID, p.Name)
	return err
}

func (r *ProjectRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE user_id = ?`, userID)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
