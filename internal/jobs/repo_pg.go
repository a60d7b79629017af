package jobs

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a job and returns it with the assigned ID.
func (r *PGRepo) Create(ctx context.Context, job Job) (Job, error) {
	const query = `
INSERT INTO jobs (user_id, title, company, location, description, url, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`
	err := r.DB.QueryRowContext(ctx, query,
		job.UserID,
		job.Title,
		job.Company,
		job.Location,
		job.Description,
		job.URL,
		job.CreatedAt,
	).Scan(&job.ID)
	if err != nil {
		return Job{}, err
	}
	return job, nil
}

// GetByID returns a job by its ID.
func (r *PGRepo) GetByID(ctx context.Context, jobID int64) (Job, error) {
	const query = `
SELECT id, user_id, title, company, location, description, url, created_at
FROM jobs
WHERE id = $1
LIMIT 1`
	var job Job
	err := r.DB.QueryRowContext(ctx, query, jobID).Scan(
		&job.ID,
		&job.UserID,
		&job.Title,
		&job.Company,
		&job.Location,
		&job.Description,
		&job.URL,
		&job.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return job, nil
}

// ListByUser lists jobs ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Job, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, user_id, title, company, location, description, url, created_at
FROM jobs
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		var job Job
		if err := rows.Scan(
			&job.ID,
			&job.UserID,
			&job.Title,
			&job.Company,
			&job.Location,
			&job.Description,
			&job.URL,
			&job.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
