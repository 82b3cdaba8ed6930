package model

import "time"

// ContentType classifies submitted content by the normalization it needs
type ContentType string

const (
	ContentTypeText      ContentType = "text"       // Plain text, passed through
	ContentTypeAudio     ContentType = "audio"      // Audio, transcribed to text
	ContentTypeVideo     ContentType = "video"      // Video, audio track transcribed
	ContentTypeWebScript ContentType = "web_script" // HTML/script, main text extracted
)

// IsValid reports whether the content type is one the pipeline understands
func (t ContentType) IsValid() bool {
	switch t {
	case ContentTypeText, ContentTypeAudio, ContentTypeVideo, ContentTypeWebScript:
		return true
	}
	return false
}

// VerificationStatus is the outcome of a fact verification
type VerificationStatus string

const (
	StatusTrue          VerificationStatus = "true"
	StatusFalse         VerificationStatus = "false"
	StatusMisleading    VerificationStatus = "misleading"
	StatusUnverified    VerificationStatus = "unverified"
	StatusPartiallyTrue VerificationStatus = "partially_true"
)

// SourceType categorizes a curated credible source
type SourceType string

const (
	SourceTypeFactCheckingOrg SourceType = "fact_checking_org"
	SourceTypeNewsOutlet      SourceType = "news_outlet"
	SourceTypeGovernment      SourceType = "government"
	SourceTypeAcademic        SourceType = "academic"
	SourceTypeOther           SourceType = "other"
)

// UserQuery is a single submitted piece of content. Created once per
// incoming request and immutable afterwards.
type UserQuery struct {
	ID             string      `json:"id"`
	Content        string      `json:"content"`
	ContentType    ContentType `json:"content_type"`
	OriginalFormat string      `json:"original_format,omitempty"` // e.g. mp3, mp4, txt
	UserID         string      `json:"user_id,omitempty"`         // Empty for anonymous queries
	SubmittedAt    time.Time   `json:"submitted_at"`
}

// CredibleSource is curated, long-lived reference data about a trusted
// information source. Not created by the query pipeline itself.
type CredibleSource struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`   // Unique
	Domain           string     `json:"domain"` // Unique
	SourceType       SourceType `json:"source_type"`
	CredibilityScore float64    `json:"credibility_score"` // [0,1]
	Description      string     `json:"description,omitempty"`
	LastVerified     time.Time  `json:"last_verified"`
	IsActive         bool       `json:"is_active"`
}

// VerifiedFact links a UserQuery to a verification outcome. Facts created
// by the web-fallback path always have status unverified and reference an
// ExternalSource; facts created by out-of-band review reference a
// CredibleSource.
type VerifiedFact struct {
	ID               string             `json:"id"`
	QueryID          string             `json:"query_id"`
	SourceID         string             `json:"source_id,omitempty"`          // CredibleSource, if reviewed
	ExternalSourceID string             `json:"external_source_id,omitempty"` // ExternalSource, if web-derived
	Status           VerificationStatus `json:"status"`
	Summary          string             `json:"summary,omitempty"`
	Details          string             `json:"details,omitempty"`
	ConfidenceScore  float64            `json:"confidence_score"` // [0,1]
	VerifiedAt       time.Time          `json:"verified_at"`
}

// ExternalSource is a web page discovered via search and cached for future
// reference. Deduplicated by URL at the storage layer.
type ExternalSource struct {
	ID               string    `json:"id"`
	URL              string    `json:"url"` // Unique
	Domain           string    `json:"domain"`
	Title            string    `json:"title,omitempty"`
	Content          string    `json:"content,omitempty"` // Truncated to 4000 chars on store
	ContentType      string    `json:"content_type,omitempty"`
	CredibilityScore float64   `json:"credibility_score"` // [0,1]
	LastChecked      time.Time `json:"last_checked"`
	IsWhitelisted    bool      `json:"is_whitelisted"`

	// Promotion candidates for the curated credible source list
	SuggestedName  string     `json:"suggested_source_name,omitempty"`
	SuggestedType  SourceType `json:"suggested_source_type,omitempty"`
	SuggestedBy    string     `json:"suggested_by,omitempty"` // User ID or "system"
	SuggestionDate *time.Time `json:"suggestion_date,omitempty"`
}

// FactMatch is a VerifiedFact joined to its originating query and, when
// present, the credible source that backs it.
type FactMatch struct {
	Fact   VerifiedFact
	Query  UserQuery
	Source *CredibleSource // nil for web-derived facts
}

// ClampScore clamps a credibility or confidence score into [0,1]
func ClampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
