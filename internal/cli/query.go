package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/athenahq/athena/internal/factcheck"
	"github.com/athenahq/athena/internal/model"
)

var (
	queryContentType string
	queryUserID      string
	queryTimeout     time.Duration
	queryJSONOut     bool
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query <content>",
	Short: "Fact-check a piece of content from the command line",
	Long: `Run the fact-checking pipeline on a single piece of content without
starting the HTTP server. The query is persisted to the configured
database exactly as API queries are.

Example:
  athena query "drinking bleach cures the flu"
  athena query --type web_script "$(cat page.html)"
  athena query --json "the 2024 eclipse was faked"`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringVar(&queryContentType, "type", "text", "content type (text, audio, video, web_script)")
	queryCmd.Flags().StringVar(&queryUserID, "user", "", "user ID to record on the query")
	queryCmd.Flags().DurationVar(&queryTimeout, "timeout", time.Minute, "overall query timeout")
	queryCmd.Flags().BoolVar(&queryJSONOut, "json", false, "print the raw JSON response")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, flush, err := loadConfig()
	if err != nil {
		return err
	}
	defer flush()

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	app, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.close()

	resp, err := app.service.ProcessQuery(ctx, factcheck.Request{
		Content:     args[0],
		ContentType: model.ContentType(queryContentType),
		UserID:      queryUserID,
	})
	if err != nil {
		return err
	}

	if queryJSONOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	printResponse(resp)
	return nil
}

func printResponse(resp *model.QueryResponse) {
	fmt.Printf("Query:      %s\n", resp.QueryID)
	fmt.Printf("Status:     %s\n", resp.VerificationStatus)
	fmt.Printf("Confidence: %.2f\n", resp.ConfidenceScore)
	if resp.IsFromDatabase {
		fmt.Printf("Source:     verified database match\n")
	} else {
		fmt.Printf("Source:     web search fallback\n")
	}
	if resp.NeedsHumanReview {
		fmt.Printf("Review:     flagged for human review\n")
	}
	fmt.Printf("\n%s\n", resp.Summary)
	if resp.Details != "" {
		fmt.Printf("\n%s\n", resp.Details)
	}

	if len(resp.Sources) == 0 {
		return
	}
	fmt.Printf("\nSources:\n")
	for _, src := range resp.Sources {
		switch {
		case src.Name != "":
			fmt.Printf("  - %s (%s), verified %s\n", src.Name, src.Type, src.VerificationDate)
		default:
			fmt.Printf("  - [%.2f] %s\n", src.CredibilityScore, src.URL)
			if src.Snippet != "" {
				fmt.Printf("    %s\n", src.Snippet)
			}
		}
	}
}
