package generation

import (
	"context"
	"sort"
	"sync"

	"jobsearch-backend/internal/artifacts"
)

// MemoryRepo is an in-memory ArtifactRepo for development and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]artifacts.Artifact
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: map[string]artifacts.Artifact{}}
}

// CanPersist always reports true for the in-memory store.
func (r *MemoryRepo) CanPersist() bool { return true }

// Create stores the artifact keyed by ID.
func (r *MemoryRepo) Create(ctx context.Context, artifact artifacts.Artifact) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[artifact.ID] = artifact
	return nil
}

// GetByID returns the artifact if it exists and belongs to the user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, artifactID string) (artifacts.Artifact, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.items[artifactID]
	if !ok || a.UserID != userID {
		return artifacts.Artifact{}, ErrNotFound
	}
	return a, nil
}

// ListByUser returns the user's artifacts, newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]artifacts.Artifact, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []artifacts.Artifact
	for _, a := range r.items {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

var _ ArtifactRepo = (*MemoryRepo)(nil)
