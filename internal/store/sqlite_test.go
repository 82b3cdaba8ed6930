package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athenahq/athena/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_CreateQuery(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	q := &model.UserQuery{Content: "the moon landing happened in 1969", ContentType: model.ContentTypeText}
	require.NoError(t, s.CreateQuery(ctx, q))

	assert.NotEmpty(t, q.ID)
	assert.False(t, q.SubmittedAt.IsZero())
}

func TestSQLiteStore_FindBestFactMatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	src := &model.CredibleSource{
		Name:             "FactCheck.org",
		Domain:           "factcheck.org",
		SourceType:       model.SourceTypeFactCheckingOrg,
		CredibilityScore: 0.95,
		IsActive:         true,
	}
	require.NoError(t, s.CreateCredibleSource(ctx, src))

	q1 := &model.UserQuery{Content: "vaccines cause autism in children", ContentType: model.ContentTypeText}
	require.NoError(t, s.CreateQuery(ctx, q1))
	require.NoError(t, s.CreateFact(ctx, &model.VerifiedFact{
		QueryID:         q1.ID,
		SourceID:        src.ID,
		Status:          model.StatusFalse,
		Summary:         "No causal link has been established.",
		ConfidenceScore: 0.6,
	}))

	q2 := &model.UserQuery{Content: "studies show vaccines cause autism", ContentType: model.ContentTypeText}
	require.NoError(t, s.CreateQuery(ctx, q2))
	require.NoError(t, s.CreateFact(ctx, &model.VerifiedFact{
		QueryID:         q2.ID,
		SourceID:        src.ID,
		Status:          model.StatusFalse,
		Summary:         "Thoroughly debunked.",
		ConfidenceScore: 0.9,
	}))

	t.Run("conjunctive match orders by confidence", func(t *testing.T) {
		m, err := s.FindBestFactMatch(ctx, []string{"vaccines", "autism"})
		require.NoError(t, err)
		assert.Equal(t, q2.ID, m.Fact.QueryID, "highest confidence fact should win")
		assert.Equal(t, 0.9, m.Fact.ConfidenceScore)
		require.NotNil(t, m.Source)
		assert.Equal(t, "FactCheck.org", m.Source.Name)
	})

	t.Run("all keywords must match", func(t *testing.T) {
		_, err := s.FindBestFactMatch(ctx, []string{"vaccines", "nonexistentterm"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("no keywords means no match", func(t *testing.T) {
		_, err := s.FindBestFactMatch(ctx, nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("like wildcards in keywords are literal", func(t *testing.T) {
		_, err := s.FindBestFactMatch(ctx, []string{"%"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSQLiteStore_FindBestFactMatch_WebDerivedFact(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	q := &model.UserQuery{Content: "sharks are older than trees", ContentType: model.ContentTypeText}
	require.NoError(t, s.CreateQuery(ctx, q))
	require.NoError(t, s.CreateFact(ctx, &model.VerifiedFact{
		QueryID:         q.ID,
		Status:          model.StatusUnverified,
		ConfidenceScore: 0.4,
	}))

	m, err := s.FindBestFactMatch(ctx, []string{"sharks", "trees"})
	require.NoError(t, err)
	assert.Nil(t, m.Source, "web-derived fact has no credible source")
	assert.Equal(t, model.StatusUnverified, m.Fact.Status)
}

func TestSQLiteStore_SaveWebResults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	q := &model.UserQuery{Content: "some claim", ContentType: model.ContentTypeText}
	require.NoError(t, s.CreateQuery(ctx, q))

	src := model.ExternalSource{
		URL:              "https://reuters.com/article/1",
		Domain:           "reuters.com",
		Title:            "Article one",
		CredibilityScore: 0.9,
	}
	batch := WebResultBatch{
		Sources: []model.ExternalSource{src},
		Facts: []model.VerifiedFact{{
			QueryID:         q.ID,
			Status:          model.StatusUnverified,
			ConfidenceScore: 0.72,
		}},
	}
	require.NoError(t, s.SaveWebResults(ctx, batch))

	got, err := s.GetExternalSourceByURL(ctx, "https://reuters.com/article/1")
	require.NoError(t, err)
	assert.Equal(t, "reuters.com", got.Domain)
	assert.Equal(t, "Article one", got.Title)
}

func TestSQLiteStore_SaveWebResults_DuplicateURLRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	q := &model.UserQuery{Content: "claim", ContentType: model.ContentTypeText}
	require.NoError(t, s.CreateQuery(ctx, q))

	first := WebResultBatch{Sources: []model.ExternalSource{{
		URL: "https://example.com/a", Domain: "example.com",
	}}}
	require.NoError(t, s.SaveWebResults(ctx, first))

	// Same URL again plus a fact: unique constraint fails the whole batch.
	dup := WebResultBatch{
		Sources: []model.ExternalSource{{URL: "https://example.com/a", Domain: "example.com"}},
		Facts:   []model.VerifiedFact{{QueryID: q.ID, Status: model.StatusUnverified}},
	}
	err := s.SaveWebResults(ctx, dup)
	require.Error(t, err)

	// The fact from the failed batch must not have been committed.
	_, err = s.FindBestFactMatch(ctx, []string{"claim"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_GetExternalSourceByURL_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetExternalSourceByURL(context.Background(), "https://nope.example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_ListCredibleSources(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateCredibleSource(ctx, &model.CredibleSource{
		Name: "Snopes", Domain: "snopes.com", SourceType: model.SourceTypeFactCheckingOrg,
		CredibilityScore: 0.95, IsActive: true,
	}))
	require.NoError(t, s.CreateCredibleSource(ctx, &model.CredibleSource{
		Name: "Old Blog", Domain: "oldblog.example", SourceType: model.SourceTypeOther,
		CredibilityScore: 0.3, IsActive: false,
	}))

	all, err := s.ListCredibleSources(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "Snopes", all[0].Name, "sorted by credibility desc")

	active, err := s.ListCredibleSources(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestSQLiteStore_ScoreClamping(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	q := &model.UserQuery{Content: "clamp me please", ContentType: model.ContentTypeText}
	require.NoError(t, s.CreateQuery(ctx, q))

	f := &model.VerifiedFact{QueryID: q.ID, Status: model.StatusTrue, ConfidenceScore: 1.7}
	require.NoError(t, s.CreateFact(ctx, f))
	assert.Equal(t, 1.0, f.ConfidenceScore)
}
