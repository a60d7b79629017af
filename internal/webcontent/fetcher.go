package webcontent

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"jobsearch-backend/internal/shared/telemetry"
)

const (
	defaultSearchURL = "https://duckduckgo.com/html/"
	maxContentRunes  = 6000
	maxBodyBytes     = 2 << 20
)

// Fetcher retrieves rendered web content for a company name. All failures
// reduce to empty content; an empty result is a valid generation input, not
// an error.
type Fetcher struct {
	httpClient *http.Client
	searchURL  string
}

// New constructs a Fetcher with the given request timeout.
func New(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		searchURL:  defaultSearchURL,
	}
}

// NewWithBaseURL constructs a Fetcher against a specific search endpoint.
func NewWithBaseURL(baseURL string, timeout time.Duration) *Fetcher {
	f := New(timeout)
	if strings.TrimSpace(baseURL) != "" {
		f.searchURL = baseURL
	}
	return f
}

// CompanyContent fetches search results for the company and converts them to
// Markdown suitable for prompt context. Best-effort: returns "" on failure.
func (f *Fetcher) CompanyContent(ctx context.Context, companyName string) string {
	query := strings.TrimSpace(companyName)
	if query == "" {
		return ""
	}

	reqURL := f.searchURL + "?q=" + url.QueryEscape(query+" company overview")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "jobsearch-backend/1.0")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		telemetry.Info("webcontent.fetch_failed", map[string]any{
			"company": query,
			"error":   err.Error(),
		})
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		telemetry.Info("webcontent.fetch_failed", map[string]any{
			"company": query,
			"status":  resp.StatusCode,
		})
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return ""
	}

	markdown, err := htmltomarkdown.ConvertString(string(body))
	if err != nil {
		return ""
	}
	return truncateRunes(strings.TrimSpace(markdown), maxContentRunes)
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
