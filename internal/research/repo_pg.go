package research

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"jobsearch-backend/internal/artifacts"
)

// PGRepo implements Repo using Postgres. Cache and company rows live in
// separate tables that fail independently.
type PGRepo struct {
	DB *sql.DB
}

// GetCacheEntry returns the cache entry for the normalized company name.
func (r *PGRepo) GetCacheEntry(ctx context.Context, companyName string) (CacheEntry, error) {
	const query = `
SELECT company_name, content, cached_at
FROM company_research_cache
WHERE company_name = $1
LIMIT 1`
	var (
		entry   CacheEntry
		rawJSON []byte
	)
	err := r.DB.QueryRowContext(ctx, query, companyName).Scan(&entry.CompanyName, &rawJSON, &entry.CachedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CacheEntry{}, ErrCacheMiss
		}
		return CacheEntry{}, err
	}
	if err := json.Unmarshal(rawJSON, &entry.Content); err != nil {
		return CacheEntry{}, err
	}
	return entry, nil
}

// SaveCacheEntry upserts the cache entry. Existing rows are only ever
// superseded, never deleted.
func (r *PGRepo) SaveCacheEntry(ctx context.Context, entry CacheEntry) error {
	payload, err := json.Marshal(entry.Content)
	if err != nil {
		return err
	}
	cachedAt := entry.CachedAt
	if cachedAt.IsZero() {
		cachedAt = time.Now().UTC()
	}
	const query = `
INSERT INTO company_research_cache (company_name, content, cached_at)
VALUES ($1, $2, $3)
ON CONFLICT (company_name) DO UPDATE SET content = EXCLUDED.content, cached_at = EXCLUDED.cached_at`
	_, err = r.DB.ExecContext(ctx, query, entry.CompanyName, payload, cachedAt)
	return err
}

// UpsertCompanyInfo upserts the company metadata row.
func (r *PGRepo) UpsertCompanyInfo(ctx context.Context, content artifacts.CompanyResearchContent) error {
	companyData, err := json.Marshal(map[string]any{
		"culture":    content.Culture,
		"leadership": content.Leadership,
		"products":   content.Products,
	})
	if err != nil {
		return err
	}
	news, err := json.Marshal(content.News)
	if err != nil {
		return err
	}
	const query = `
INSERT INTO company_info (company_name, industry, size, location, founded, website, description, company_data, news, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (company_name) DO UPDATE SET
    industry = EXCLUDED.industry,
    size = EXCLUDED.size,
    location = EXCLUDED.location,
    founded = EXCLUDED.founded,
    website = EXCLUDED.website,
    description = EXCLUDED.description,
    company_data = EXCLUDED.company_data,
    news = EXCLUDED.news,
    updated_at = EXCLUDED.updated_at`
	_, err = r.DB.ExecContext(ctx, query,
		NormalizeCompanyName(content.CompanyName),
		content.Industry,
		content.Size,
		content.Location,
		content.Founded,
		content.Website,
		content.Description,
		companyData,
		news,
		time.Now().UTC(),
	)
	return err
}

var _ Repo = (*PGRepo)(nil)
