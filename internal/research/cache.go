package research

import (
	"context"
	"errors"
	"time"

	"jobsearch-backend/internal/artifacts"
	"jobsearch-backend/internal/llm"
	"jobsearch-backend/internal/shared/telemetry"
)

// Result sources reported to callers.
const (
	SourceCached = "cached"
	SourceAPI    = "api"
)

const writeThroughTimeout = 10 * time.Second

// ContentFetcher retrieves best-effort supporting web content for a company.
type ContentFetcher interface {
	CompanyContent(ctx context.Context, companyName string) string
}

// Cache avoids repeated expensive company lookups within a freshness window.
// The backing store arbitrates concurrent writers; the process holds no
// authoritative state beyond one lookup.
type Cache struct {
	repo    Repo
	client  llm.Client
	fetcher ContentFetcher
	ttl     time.Duration
	buckets artifacts.SizeBuckets
	model   string

	now      func() time.Time
	runAsync func(func())
}

// NewCache constructs a Cache with the given freshness window.
func NewCache(repo Repo, client llm.Client, fetcher ContentFetcher, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Cache{
		repo:     repo,
		client:   client,
		fetcher:  fetcher,
		ttl:      ttl,
		buckets:  artifacts.DefaultSizeBuckets(),
		now:      time.Now,
		runAsync: func(fn func()) { go fn() },
	}
}

// SetSizeBuckets overrides the company-size bucket policy.
func (c *Cache) SetSizeBuckets(buckets artifacts.SizeBuckets) {
	if len(buckets) > 0 {
		c.buckets = buckets
	}
}

// SetModel pins the generation model used for research lookups.
func (c *Cache) SetModel(model string) {
	c.model = model
}

// SetClock overrides the clock, for tests.
func (c *Cache) SetClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

// SetAsyncRunner overrides how write-through tasks are scheduled, for tests.
func (c *Cache) SetAsyncRunner(run func(func())) {
	if run != nil {
		c.runAsync = run
	}
}

// Lookup returns research content for the company, from cache when fresh.
// On a miss or stale entry it performs a live lookup and returns before the
// cache write completes; the write runs as a detached best-effort task.
// A not-found sentinel from the capability yields artifacts.ErrNoResult and
// never writes the cache.
func (c *Cache) Lookup(ctx context.Context, companyName string) (artifacts.CompanyResearchContent, string, error) {
	key := NormalizeCompanyName(companyName)
	if key == "" {
		return artifacts.CompanyResearchContent{}, "", errors.New("companyName is required")
	}

	if c.repo != nil {
		entry, err := c.repo.GetCacheEntry(ctx, key)
		switch {
		case err == nil && entry.Fresh(c.now(), c.ttl):
			return entry.Content, SourceCached, nil
		case err != nil && !errors.Is(err, ErrCacheMiss):
			// A degraded store reads as a miss; the live path still works.
			telemetry.Error("research.cache_read_failed", map[string]any{
				"company": key,
				"error":   err.Error(),
			})
		}
	}

	var supporting string
	if c.fetcher != nil {
		supporting = c.fetcher.CompanyContent(ctx, companyName)
	}

	res, err := c.client.Generate(ctx, llm.GenerateInput{
		Kind:   string(artifacts.KindCompanyResearch),
		Prompt: buildCompanyResearchPrompt(companyName, supporting),
		Model:  c.model,
	})
	if err != nil {
		return artifacts.CompanyResearchContent{}, "", err
	}

	doc, err := artifacts.DecodeResponse(res.JSON, res.Text)
	if err != nil {
		return artifacts.CompanyResearchContent{}, "", err
	}
	content, err := artifacts.NormalizeCompanyResearch(doc, c.buckets)
	if err != nil {
		return artifacts.CompanyResearchContent{}, "", err
	}

	if c.repo != nil {
		cachedAt := c.now().UTC()
		c.runAsync(func() {
			c.writeThrough(key, content, cachedAt)
		})
	}
	return content, SourceAPI, nil
}

// CachedOnly returns a fresh cache entry without any external calls, for
// best-effort enrichment lookups.
func (c *Cache) CachedOnly(ctx context.Context, companyName string) (artifacts.CompanyResearchContent, bool) {
	key := NormalizeCompanyName(companyName)
	if key == "" || c.repo == nil {
		return artifacts.CompanyResearchContent{}, false
	}
	entry, err := c.repo.GetCacheEntry(ctx, key)
	if err != nil || !entry.Fresh(c.now(), c.ttl) {
		return artifacts.CompanyResearchContent{}, false
	}
	return entry.Content, true
}

// writeThrough upserts the company row, then the cache entry. The cache save
// depends on the company upsert; both are best-effort and observable only in
// logs. The original response has already been sent by the time this runs.
func (c *Cache) writeThrough(key string, content artifacts.CompanyResearchContent, cachedAt time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), writeThroughTimeout)
	defer cancel()

	if err := c.repo.UpsertCompanyInfo(ctx, content); err != nil {
		telemetry.Error("research.company_upsert_failed", map[string]any{
			"company": key,
			"error":   err.Error(),
		})
		return
	}
	if err := c.repo.SaveCacheEntry(ctx, CacheEntry{CompanyName: key, Content: content, CachedAt: cachedAt}); err != nil {
		telemetry.Error("research.cache_save_failed", map[string]any{
			"company": key,
			"error":   err.Error(),
		})
	}
}
