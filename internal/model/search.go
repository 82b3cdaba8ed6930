package model

// SearchResult is a raw result record from the web search collaborator.
// URL is the only required field; everything else is best-effort.
type SearchResult struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Domain      string `json:"domain,omitempty"`
	Snippet     string `json:"snippet,omitempty"`
	Content     string `json:"content,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// ScoredResult pairs a search result with its domain credibility score
type ScoredResult struct {
	SearchResult
	CredibilityScore float64 `json:"credibility_score"` // [0,1]
}
