package research

import (
	"context"

	"jobsearch-backend/internal/artifacts"
)

// Repo persists company-research cache entries and company metadata rows.
type Repo interface {
	GetCacheEntry(ctx context.Context, companyName string) (CacheEntry, error)
	SaveCacheEntry(ctx context.Context, entry CacheEntry) error
	UpsertCompanyInfo(ctx context.Context, content artifacts.CompanyResearchContent) error
}
