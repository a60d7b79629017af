package generation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"jobsearch-backend/internal/artifacts"
)

// PGRepo stores artifacts in Postgres.
type PGRepo struct {
	DB *sql.DB
}

// CanPersist reports whether a database handle is configured.
func (r *PGRepo) CanPersist() bool {
	return r != nil && r.DB != nil
}

// Create inserts an artifact row with JSONB content and metadata.
func (r *PGRepo) Create(ctx context.Context, artifact artifacts.Artifact) error {
	content, err := json.Marshal(artifact.Content)
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}
	metadata, err := json.Marshal(artifact.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	const q = `
		INSERT INTO artifacts (id, user_id, job_id, kind, title, model, preview, content, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.DB.ExecContext(ctx, q,
		artifact.ID,
		artifact.UserID,
		nullableJobID(artifact.JobID),
		string(artifact.Kind),
		artifact.Title,
		artifact.Model,
		artifact.Preview,
		content,
		metadata,
		artifact.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert artifact: %w", err)
	}
	return nil
}

// GetByID returns one artifact scoped to the user.
func (r *PGRepo) GetByID(ctx context.Context, userID, artifactID string) (artifacts.Artifact, error) {
	const q = `
		SELECT id, user_id, job_id, kind, title, model, preview, content, metadata, created_at
		FROM artifacts
		WHERE id = $1 AND user_id = $2`
	return r.scanOne(r.DB.QueryRowContext(ctx, q, artifactID, userID))
}

// ListByUser returns the user's artifacts, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]artifacts.Artifact, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const q = `
		SELECT id, user_id, job_id, kind, title, model, preview, content, metadata, created_at
		FROM artifacts
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	var out []artifacts.Artifact
	for rows.Next() {
		a, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanOne(row rowScanner) (artifacts.Artifact, error) {
	var (
		a        artifacts.Artifact
		jobID    sql.NullInt64
		kind     string
		content  []byte
		metadata []byte
	)
	err := row.Scan(&a.ID, &a.UserID, &jobID, &kind, &a.Title, &a.Model, &a.Preview, &content, &metadata, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return artifacts.Artifact{}, ErrNotFound
	}
	if err != nil {
		return artifacts.Artifact{}, fmt.Errorf("scan artifact: %w", err)
	}
	if jobID.Valid {
		a.JobID = jobID.Int64
	}
	a.Kind = artifacts.Kind(kind)
	if len(content) > 0 {
		var doc any
		if err := json.Unmarshal(content, &doc); err != nil {
			return artifacts.Artifact{}, fmt.Errorf("decode content: %w", err)
		}
		a.Content = doc
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &a.Metadata); err != nil {
			return artifacts.Artifact{}, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return a, nil
}

func nullableJobID(jobID int64) any {
	if jobID <= 0 {
		return nil
	}
	return jobID
}

var _ ArtifactRepo = (*PGRepo)(nil)
