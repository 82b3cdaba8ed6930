package factcheck

import "errors"

var (
	// ErrEmptyContent is returned when a query has no content to check.
	ErrEmptyContent = errors.New("factcheck: empty content")
	// ErrUnsupportedContentType is returned for content types the
	// pipeline cannot normalize.
	ErrUnsupportedContentType = errors.New("factcheck: unsupported content type")
	// ErrExtractionFailed wraps failures turning raw content into text
	// (transcription, HTML extraction).
	ErrExtractionFailed = errors.New("factcheck: text extraction failed")
	// ErrSearchFailed wraps web search collaborator failures.
	ErrSearchFailed = errors.New("factcheck: web search failed")
)
