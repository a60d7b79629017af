package generation

import (
	"context"
	"errors"

	"jobsearch-backend/internal/artifacts"
)

// ErrNotFound indicates an artifact was not found.
var ErrNotFound = errors.New("not found")

// ArtifactRepo is the persistence gateway for generated artifacts. Writes
// are best-effort: the orchestrator downgrades any failure to a metadata
// flag and never surfaces it to the caller.
type ArtifactRepo interface {
	// CanPersist is a pure configuration check; when false every write is
	// a no-op reporting persisted = false.
	CanPersist() bool
	Create(ctx context.Context, artifact artifacts.Artifact) error
	GetByID(ctx context.Context, userID, artifactID string) (artifacts.Artifact, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]artifacts.Artifact, error)
}

// NoopRepo reports persistence unavailable. Used when no store is configured.
type NoopRepo struct{}

// CanPersist always reports false.
func (NoopRepo) CanPersist() bool { return false }

// Create is a no-op.
func (NoopRepo) Create(ctx context.Context, artifact artifacts.Artifact) error {
	_ = ctx
	_ = artifact
	return nil
}

// GetByID always reports not found.
func (NoopRepo) GetByID(ctx context.Context, userID, artifactID string) (artifacts.Artifact, error) {
	_ = ctx
	_ = userID
	_ = artifactID
	return artifacts.Artifact{}, ErrNotFound
}

// ListByUser returns no artifacts.
func (NoopRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]artifacts.Artifact, error) {
	_ = ctx
	_ = userID
	_ = limit
	_ = offset
	return nil, nil
}

var _ ArtifactRepo = NoopRepo{}
