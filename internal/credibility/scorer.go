// Package credibility scores the trustworthiness of source domains.
package credibility

import (
	"net/url"
	"strings"

	"github.com/athenahq/athena/internal/model"
)

// DefaultUnknownScore is assigned to domains with no explicit rating
const DefaultUnknownScore = 0.5

// Scorer maps domains to credibility scores in [0,1]
type Scorer struct {
	domainScores map[string]float64
}

// NewScorer creates a scorer from an explicit domain rating map. Nil or
// empty maps fall back to the built-in ratings.
func NewScorer(domainScores map[string]float64) *Scorer {
	if len(domainScores) == 0 {
		domainScores = DefaultDomainScores()
	}
	scores := make(map[string]float64, len(domainScores))
	for domain, score := range domainScores {
		scores[strings.ToLower(domain)] = model.ClampScore(score)
	}
	return &Scorer{domainScores: scores}
}

// ScoreDomain returns the credibility score for a domain, or
// DefaultUnknownScore when the domain is unrated. Subdomains inherit the
// parent domain's rating (news.bbc.com matches bbc.com).
func (s *Scorer) ScoreDomain(domain string) float64 {
	domain = normalizeDomain(domain)
	if domain == "" {
		return DefaultUnknownScore
	}
	if score, ok := s.domainScores[domain]; ok {
		return score
	}
	for rated, score := range s.domainScores {
		if strings.HasSuffix(domain, "."+rated) {
			return score
		}
	}
	return DefaultUnknownScore
}

// ScoreResult attaches a credibility score to a search result, deriving the
// domain from the URL when the result does not carry one
func (s *Scorer) ScoreResult(result model.SearchResult) model.ScoredResult {
	domain := result.Domain
	if domain == "" {
		domain = ExtractDomain(result.URL)
		result.Domain = domain
	}
	return model.ScoredResult{
		SearchResult:     result,
		CredibilityScore: s.ScoreDomain(domain),
	}
}

// ExtractDomain returns the host of a URL without port or www prefix
func ExtractDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return normalizeDomain(parsed.Host)
}

func normalizeDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if idx := strings.Index(domain, ":"); idx > 0 {
		domain = domain[:idx]
	}
	return strings.TrimPrefix(domain, "www.")
}

// DefaultDomainScores returns the built-in ratings for well-known outlets
// and fact-checking organizations
func DefaultDomainScores() map[string]float64 {
	return map[string]float64{
		"factcheck.org":      0.95,
		"snopes.com":         0.95,
		"politifact.com":     0.95,
		"reuters.com":        0.9,
		"apnews.com":         0.9,
		"ap.org":             0.9,
		"bbc.com":            0.9,
		"npr.org":            0.85,
		"nytimes.com":        0.85,
		"washingtonpost.com": 0.85,
		"theguardian.com":    0.85,
	}
}
