package model

// QueryResponse is what the fact-check pipeline returns for a query.
// Shape differs by path: a database match carries the reviewed verdict
// and its source; the web fallback carries ranked external sources and
// is always flagged for human review.
type QueryResponse struct {
	QueryID            string             `json:"query_id"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	Summary            string             `json:"summary"`
	Details            string             `json:"details,omitempty"`
	ConfidenceScore    float64            `json:"confidence_score"`
	Sources            []ResponseSource   `json:"sources"`
	IsFromDatabase     bool               `json:"is_from_database"`
	NeedsHumanReview   bool               `json:"needs_human_review,omitempty"`
}

// ResponseSource describes one source backing a response. Database matches
// fill Name/Type/VerificationDate; web results fill the URL-centric fields.
type ResponseSource struct {
	Name             string     `json:"name,omitempty"`
	Type             SourceType `json:"type,omitempty"`
	VerificationDate string     `json:"verification_date,omitempty"` // ISO-8601

	Title            string  `json:"title,omitempty"`
	URL              string  `json:"url,omitempty"`
	Snippet          string  `json:"snippet,omitempty"`
	Domain           string  `json:"domain,omitempty"`
	CredibilityScore float64 `json:"credibility_score,omitempty"`
	ContentType      string  `json:"content_type,omitempty"`
}
