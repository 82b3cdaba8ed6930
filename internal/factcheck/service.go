// Package factcheck orchestrates the query verification pipeline: a
// database lookup against previously verified facts with a web-search
// fallback that caches what it finds.
package factcheck

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/athenahq/athena/internal/model"
	"github.com/athenahq/athena/internal/store"
)

const (
	// maxStoredContentChars caps how much fetched page text is persisted
	// per external source.
	maxStoredContentChars = 4000
	// maxSummaryChars caps the summary stored on web-derived facts.
	maxSummaryChars = 500
	// snippetChars caps snippets shown in web-fallback responses.
	snippetChars = 200
	// webConfidenceDiscount scales a domain credibility score down to a
	// confidence score for an unreviewed web-derived fact.
	webConfidenceDiscount = 0.8
	// maxWebSources is how many scored results survive ranking.
	maxWebSources = 5

	webFallbackSummary = "No exact match found in our database. Here are some relevant sources:"
)

// TextExtractor normalizes raw content into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, content string, contentType model.ContentType) (string, error)
}

// KeywordExtractor pulls search keywords out of normalized text.
type KeywordExtractor interface {
	ExtractKeywords(text string) []string
}

// Searcher finds candidate sources on the web.
type Searcher interface {
	Search(ctx context.Context, query string) ([]model.SearchResult, error)
}

// CredibilityScorer rates a search result's domain.
type CredibilityScorer interface {
	ScoreResult(result model.SearchResult) model.ScoredResult
}

// Service runs the fact-checking pipeline.
type Service struct {
	store     store.Store
	extractor TextExtractor
	keywords  KeywordExtractor
	searcher  Searcher
	scorer    CredibilityScorer
	now       func() time.Time
}

// NewService wires the pipeline's collaborators together.
func NewService(st store.Store, extractor TextExtractor, keywords KeywordExtractor, searcher Searcher, scorer CredibilityScorer) *Service {
	return &Service{
		store:     st,
		extractor: extractor,
		keywords:  keywords,
		searcher:  searcher,
		scorer:    scorer,
		now:       time.Now,
	}
}

// Request is a single piece of content submitted for checking.
type Request struct {
	Content        string
	ContentType    model.ContentType
	OriginalFormat string
	UserID         string
}

// ProcessQuery runs the full pipeline for one request. The submitted
// query is persisted before any other work, so even failed requests
// leave an audit record.
func (s *Service) ProcessQuery(ctx context.Context, req Request) (*model.QueryResponse, error) {
	if req.Content == "" {
		return nil, ErrEmptyContent
	}

	// The query is committed before any type dispatch so history keeps
	// a record even of requests the pipeline cannot process.
	query := model.UserQuery{
		ID:             uuid.NewString(),
		Content:        req.Content,
		ContentType:    req.ContentType,
		OriginalFormat: req.OriginalFormat,
		UserID:         req.UserID,
		SubmittedAt:    s.now().UTC(),
	}
	if err := s.store.CreateQuery(ctx, &query); err != nil {
		return nil, eris.Wrap(err, "persisting query")
	}

	if !req.ContentType.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedContentType, req.ContentType)
	}

	text, err := s.extractor.Extract(ctx, req.Content, req.ContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	keywords := s.keywords.ExtractKeywords(text)
	zap.L().Debug("query normalized",
		zap.String("query_id", query.ID),
		zap.String("content_type", string(query.ContentType)),
		zap.Int("keywords", len(keywords)))

	if match, err := s.findMatch(ctx, keywords); err != nil {
		return nil, err
	} else if match != nil {
		zap.L().Info("database match",
			zap.String("query_id", query.ID),
			zap.String("fact_id", match.Fact.ID),
			zap.String("status", string(match.Fact.Status)))
		return s.databaseResponse(query.ID, match), nil
	}

	results, err := s.searcher.Search(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	ranked := s.rankResults(results)
	if err := s.persistWebResults(ctx, query.ID, ranked); err != nil {
		return nil, eris.Wrap(err, "caching web results")
	}

	zap.L().Info("web fallback",
		zap.String("query_id", query.ID),
		zap.Int("results", len(results)),
		zap.Int("selected", len(ranked)))
	return s.webResponse(query.ID, ranked), nil
}

// findMatch looks for a previously verified fact covering the keywords.
// Queries with no usable keywords skip the lookup, and facts still
// awaiting verification never count as matches.
func (s *Service) findMatch(ctx context.Context, keywords []string) (*model.FactMatch, error) {
	if len(keywords) == 0 {
		return nil, nil
	}
	match, err := s.store.FindBestFactMatch(ctx, keywords)
	if err != nil {
		if eris.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "matching verified facts")
	}
	if match.Fact.Status == model.StatusUnverified {
		return nil, nil
	}
	return match, nil
}

func (s *Service) databaseResponse(queryID string, match *model.FactMatch) *model.QueryResponse {
	resp := &model.QueryResponse{
		QueryID:            queryID,
		VerificationStatus: match.Fact.Status,
		Summary:            match.Fact.Summary,
		Details:            match.Fact.Details,
		ConfidenceScore:    match.Fact.ConfidenceScore,
		Sources:            []model.ResponseSource{},
		IsFromDatabase:     true,
	}
	if match.Source != nil {
		resp.Sources = append(resp.Sources, model.ResponseSource{
			Name:             match.Source.Name,
			Type:             match.Source.SourceType,
			VerificationDate: match.Fact.VerifiedAt.UTC().Format(time.RFC3339),
		})
	}
	return resp
}

// rankResults scores each result's domain and keeps the top results by
// credibility. The sort is stable so equally scored results keep the
// search engine's ordering.
func (s *Service) rankResults(results []model.SearchResult) []model.ScoredResult {
	scored := make([]model.ScoredResult, 0, len(results))
	for _, r := range results {
		if r.URL == "" {
			continue
		}
		scored = append(scored, s.scorer.ScoreResult(r))
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].CredibilityScore > scored[j].CredibilityScore
	})
	if len(scored) > maxWebSources {
		scored = scored[:maxWebSources]
	}
	return scored
}

// persistWebResults caches the ranked results and records one unverified
// fact per result, all in one transaction. Results whose URL is already
// cached reuse the existing source row.
func (s *Service) persistWebResults(ctx context.Context, queryID string, ranked []model.ScoredResult) error {
	if len(ranked) == 0 {
		return nil
	}
	now := s.now().UTC()
	batch := store.WebResultBatch{}
	for _, r := range ranked {
		sourceID := ""
		existing, err := s.store.GetExternalSourceByURL(ctx, r.URL)
		switch {
		case err == nil:
			sourceID = existing.ID
		case eris.Is(err, store.ErrNotFound):
			sourceID = uuid.NewString()
			batch.Sources = append(batch.Sources, model.ExternalSource{
				ID:               sourceID,
				URL:              r.URL,
				Domain:           r.Domain,
				Title:            r.Title,
				Content:          truncate(r.Content, maxStoredContentChars),
				ContentType:      r.ContentType,
				CredibilityScore: r.CredibilityScore,
				LastChecked:      now,
			})
		default:
			return eris.Wrap(err, "looking up external source")
		}

		batch.Facts = append(batch.Facts, model.VerifiedFact{
			ID:               uuid.NewString(),
			QueryID:          queryID,
			ExternalSourceID: sourceID,
			Status:           model.StatusUnverified,
			Summary:          truncate(r.Snippet, maxSummaryChars),
			ConfidenceScore:  model.ClampScore(r.CredibilityScore * webConfidenceDiscount),
			VerifiedAt:       now,
		})
	}
	return s.store.SaveWebResults(ctx, batch)
}

func (s *Service) webResponse(queryID string, ranked []model.ScoredResult) *model.QueryResponse {
	sources := make([]model.ResponseSource, 0, len(ranked))
	best := 0.0
	for _, r := range ranked {
		if r.CredibilityScore > best {
			best = r.CredibilityScore
		}
		sources = append(sources, model.ResponseSource{
			Title:            r.Title,
			URL:              r.URL,
			Snippet:          snippet(r.Snippet),
			Domain:           r.Domain,
			CredibilityScore: r.CredibilityScore,
			ContentType:      r.ContentType,
		})
	}
	return &model.QueryResponse{
		QueryID:            queryID,
		VerificationStatus: model.StatusUnverified,
		Summary:            webFallbackSummary,
		ConfidenceScore:    best,
		Sources:            sources,
		IsFromDatabase:     false,
		NeedsHumanReview:   true,
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func snippet(s string) string {
	if len([]rune(s)) <= snippetChars {
		return s
	}
	return truncate(s, snippetChars) + "..."
}
