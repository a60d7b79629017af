package webcontent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCompanyContentConvertsHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.RawQuery, "Acme") {
			t.Errorf("expected company in query, got %q", r.URL.RawQuery)
		}
		w.Write([]byte("<html><body><h1>Acme Corp</h1><p>Makes anvils.</p></body></html>"))
	}))
	defer srv.Close()

	f := NewWithBaseURL(srv.URL, time.Second)
	content := f.CompanyContent(context.Background(), "Acme")
	if !strings.Contains(content, "Acme Corp") || !strings.Contains(content, "Makes anvils.") {
		t.Fatalf("unexpected content %q", content)
	}
}

func TestCompanyContentSwallowsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewWithBaseURL(srv.URL, time.Second)
	if content := f.CompanyContent(context.Background(), "Acme"); content != "" {
		t.Fatalf("expected empty content on server error, got %q", content)
	}
}

func TestCompanyContentEmptyName(t *testing.T) {
	f := New(time.Second)
	if content := f.CompanyContent(context.Background(), "   "); content != "" {
		t.Fatalf("expected empty content for blank name, got %q", content)
	}
}

func TestCompanyContentTruncates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<p>" + strings.Repeat("long ", 4000) + "</p>"))
	}))
	defer srv.Close()

	f := NewWithBaseURL(srv.URL, time.Second)
	content := f.CompanyContent(context.Background(), "Acme")
	if len([]rune(content)) > maxContentRunes {
		t.Fatalf("content length %d exceeds cap", len([]rune(content)))
	}
}
