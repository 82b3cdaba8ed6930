// Package verify checks the reputation of web sources and caches the
// outcome so repeated lookups for the same URL stay cheap.
package verify

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/athenahq/athena/internal/cache"
	"github.com/athenahq/athena/internal/credibility"
	"github.com/athenahq/athena/internal/worker"
)

// TrustThreshold is the minimum credibility score for a source to be
// considered trusted.
const TrustThreshold = 0.7

// Verification is the cached outcome of a source check.
type Verification struct {
	URL        string    `json:"url"`
	Domain     string    `json:"domain"`
	Score      float64   `json:"score"`
	Trusted    bool      `json:"trusted"`
	VerifiedAt time.Time `json:"verified_at"`
}

// SourceVerifier scores source URLs by domain reputation.
type SourceVerifier struct {
	scorer  *credibility.Scorer
	cache   cache.Cache
	ttl     time.Duration
	workers int
	now     func() time.Time
}

// Option configures a SourceVerifier.
type Option func(*SourceVerifier)

// WithTTL overrides how long verification results stay cached.
func WithTTL(ttl time.Duration) Option {
	return func(v *SourceVerifier) { v.ttl = ttl }
}

// WithWorkers overrides the batch verification concurrency.
func WithWorkers(n int) Option {
	return func(v *SourceVerifier) { v.workers = n }
}

// NewSourceVerifier creates a verifier. The cache may be nil, in which
// case every call re-scores the URL.
func NewSourceVerifier(scorer *credibility.Scorer, c cache.Cache, opts ...Option) *SourceVerifier {
	v := &SourceVerifier{
		scorer:  scorer,
		cache:   c,
		ttl:     time.Hour,
		workers: 4,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify scores a single URL, consulting the cache first.
func (v *SourceVerifier) Verify(_ context.Context, rawURL string) Verification {
	if v.cache != nil {
		if data, found := v.cache.Get(cache.Key(rawURL)); found {
			var cached Verification
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached
			}
			// Corrupt entry, fall through and recompute.
			v.cache.Delete(cache.Key(rawURL))
		}
	}

	domain := credibility.ExtractDomain(rawURL)
	score := v.scorer.ScoreDomain(domain)
	result := Verification{
		URL:        rawURL,
		Domain:     domain,
		Score:      score,
		Trusted:    score >= TrustThreshold,
		VerifiedAt: v.now().UTC(),
	}

	if v.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			v.cache.Set(cache.Key(rawURL), data, v.ttl)
		}
	}
	return result
}

type verifyJob struct {
	verifier *SourceVerifier
	url      string
}

func (j verifyJob) Execute(ctx context.Context) (interface{}, error) {
	return j.verifier.Verify(ctx, j.url), nil
}

// VerifyBatch scores a set of URLs concurrently. Results are keyed by
// URL; order of input does not matter.
func (v *SourceVerifier) VerifyBatch(ctx context.Context, urls []string) map[string]Verification {
	results := make(map[string]Verification, len(urls))
	if len(urls) == 0 {
		return results
	}

	pool := worker.NewPool(v.workers)
	pool.Start(ctx)
	go func() {
		for _, u := range urls {
			if err := pool.Submit(ctx, verifyJob{verifier: v, url: u}); err != nil {
				zap.L().Debug("batch verification submit aborted", zap.Error(err))
				break
			}
		}
		pool.Close()
	}()

	for res := range pool.Results() {
		verification, ok := res.Value.(Verification)
		if !ok {
			continue
		}
		results[verification.URL] = verification
	}
	return results
}
