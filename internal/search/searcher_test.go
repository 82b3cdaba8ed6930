package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/athenahq/athena/internal/model"
)

func TestHTTPSearcher_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "flat earth" {
			t.Errorf("query = %q, want %q", got, "flat earth")
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}
		_ = json.NewEncoder(w).Encode(searchResponse{Results: []model.SearchResult{
			{URL: "https://reuters.com/a", Title: "A", Snippet: "snippet a"},
			{Title: "missing url, dropped"},
			{URL: "https://example.com/b", Title: "B"},
		}})
	}))
	defer srv.Close()

	s := NewHTTPSearcher(Config{Endpoint: srv.URL, APIKey: "test-key"})
	results, err := s.Search(context.Background(), "flat earth")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 usable results, got %d", len(results))
	}
	if results[0].URL != "https://reuters.com/a" {
		t.Errorf("first result = %q", results[0].URL)
	}
}

func TestHTTPSearcher_SearchNoEndpoint(t *testing.T) {
	s := NewHTTPSearcher(Config{})

	results, err := s.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results without endpoint, got %d", len(results))
	}
}

func TestHTTPSearcher_SearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewHTTPSearcher(Config{Endpoint: srv.URL})
	if _, err := s.Search(context.Background(), "q"); err == nil {
		t.Error("expected error on 502 response")
	}
}

func TestHTTPSearcher_SearchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	s := NewHTTPSearcher(Config{Endpoint: srv.URL})
	if _, err := s.Search(context.Background(), "q"); err == nil {
		t.Error("expected error on malformed body")
	}
}
