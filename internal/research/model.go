package research

import (
	"strings"
	"time"

	"jobsearch-backend/internal/artifacts"
)

// CacheEntry is one cached company-research record, keyed by normalized
// company name.
type CacheEntry struct {
	CompanyName string
	Content     artifacts.CompanyResearchContent
	CachedAt    time.Time
}

// Fresh reports whether the entry is within the freshness window at now.
func (e CacheEntry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CachedAt) < ttl
}

// NormalizeCompanyName produces the cache key for a company name: lowercase
// with collapsed internal whitespace.
func NormalizeCompanyName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
