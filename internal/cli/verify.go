package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/athenahq/athena/internal/cache"
	"github.com/athenahq/athena/internal/credibility"
	"github.com/athenahq/athena/internal/verify"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <url> [url...]",
	Short: "Check the domain reputation of one or more source URLs",
	Long: `Score source URLs by domain reputation. Unrated domains receive the
neutral default score; results are cached for the configured TTL.

Example:
  athena verify https://reuters.com/article/x
  athena verify https://a.example/1 https://b.example/2`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, flush, err := loadConfig()
	if err != nil {
		return err
	}
	defer flush()

	verifier := verify.NewSourceVerifier(
		credibility.NewScorer(cfg.Credibility.DomainScores),
		cache.NewMemoryCache(cfg.Verify.CacheTTL),
		verify.WithTTL(cfg.Verify.CacheTTL),
		verify.WithWorkers(cfg.Verify.Workers),
	)

	results := verifier.VerifyBatch(context.Background(), args)

	// Deterministic output regardless of worker completion order.
	urls := make([]string, 0, len(results))
	for u := range results {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	for _, u := range urls {
		r := results[u]
		verdict := "untrusted"
		if r.Trusted {
			verdict = "trusted"
		}
		fmt.Printf("[%.2f] %-9s %s (%s)\n", r.Score, verdict, r.URL, r.Domain)
	}
	return nil
}
