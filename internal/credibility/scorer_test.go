package credibility

import (
	"testing"

	"github.com/athenahq/athena/internal/model"
)

func TestScorer_ScoreDomain(t *testing.T) {
	scorer := NewScorer(nil)

	tests := []struct {
		name   string
		domain string
		want   float64
	}{
		{"known fact checker", "snopes.com", 0.95},
		{"known outlet", "reuters.com", 0.9},
		{"www prefix stripped", "www.bbc.com", 0.9},
		{"subdomain inherits", "news.bbc.com", 0.9},
		{"port stripped", "reuters.com:443", 0.9},
		{"unknown domain", "randomblog.example", DefaultUnknownScore},
		{"empty domain", "", DefaultUnknownScore},
		{"case insensitive", "SNOPES.COM", 0.95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scorer.ScoreDomain(tt.domain); got != tt.want {
				t.Errorf("ScoreDomain(%q) = %v, want %v", tt.domain, got, tt.want)
			}
		})
	}
}

func TestScorer_CustomScoresClamped(t *testing.T) {
	scorer := NewScorer(map[string]float64{"over.example": 1.5, "under.example": -0.2})

	if got := scorer.ScoreDomain("over.example"); got != 1.0 {
		t.Errorf("expected clamp to 1.0, got %v", got)
	}
	if got := scorer.ScoreDomain("under.example"); got != 0.0 {
		t.Errorf("expected clamp to 0.0, got %v", got)
	}
}

func TestScorer_ScoreResult(t *testing.T) {
	scorer := NewScorer(nil)

	t.Run("derives domain from url", func(t *testing.T) {
		scored := scorer.ScoreResult(model.SearchResult{URL: "https://www.reuters.com/article/x"})
		if scored.Domain != "reuters.com" {
			t.Errorf("domain = %q, want reuters.com", scored.Domain)
		}
		if scored.CredibilityScore != 0.9 {
			t.Errorf("score = %v, want 0.9", scored.CredibilityScore)
		}
	})

	t.Run("keeps explicit domain", func(t *testing.T) {
		scored := scorer.ScoreResult(model.SearchResult{URL: "https://mirror.example/x", Domain: "snopes.com"})
		if scored.CredibilityScore != 0.95 {
			t.Errorf("score = %v, want 0.95", scored.CredibilityScore)
		}
	})
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		rawURL string
		want   string
	}{
		{"https://www.example.com/path", "example.com"},
		{"http://example.com:8080/x", "example.com"},
		{"not a url", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExtractDomain(tt.rawURL); got != tt.want {
			t.Errorf("ExtractDomain(%q) = %q, want %q", tt.rawURL, got, tt.want)
		}
	}
}
