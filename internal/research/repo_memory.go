package research

import (
	"context"
	"sync"

	"jobsearch-backend/internal/artifacts"
)

// MemoryRepo stores research data in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu        sync.RWMutex
	cache     map[string]CacheEntry
	companies map[string]artifacts.CompanyResearchContent
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		cache:     make(map[string]CacheEntry),
		companies: make(map[string]artifacts.CompanyResearchContent),
	}
}

// GetCacheEntry returns the cache entry for the normalized company name.
func (r *MemoryRepo) GetCacheEntry(ctx context.Context, companyName string) (CacheEntry, error) {
	if err := ctx.Err(); err != nil {
		return CacheEntry{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[companyName]
	if !ok {
		return CacheEntry{}, ErrCacheMiss
	}
	return entry, nil
}

// SaveCacheEntry upserts the cache entry.
func (r *MemoryRepo) SaveCacheEntry(ctx context.Context, entry CacheEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[entry.CompanyName] = entry
	return nil
}

// UpsertCompanyInfo upserts the company metadata row.
func (r *MemoryRepo) UpsertCompanyInfo(ctx context.Context, content artifacts.CompanyResearchContent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.companies[NormalizeCompanyName(content.CompanyName)] = content
	return nil
}

// CompanyInfo returns the stored company row, for tests.
func (r *MemoryRepo) CompanyInfo(companyName string) (artifacts.CompanyResearchContent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	content, ok := r.companies[NormalizeCompanyName(companyName)]
	return content, ok
}

var _ Repo = (*MemoryRepo)(nil)
