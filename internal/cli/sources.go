package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/athenahq/athena/internal/model"
	"github.com/athenahq/athena/internal/store"
)

var (
	sourcesAll        bool
	sourceAddType     string
	sourceAddScore    float64
	sourceAddDescribe string
)

// sourcesCmd represents the sources command group
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage the curated credible source list",
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List curated credible sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, flush, err := openStore()
		if err != nil {
			return err
		}
		defer flush()

		sources, err := st.ListCredibleSources(context.Background(), !sourcesAll)
		if err != nil {
			return err
		}
		if len(sources) == 0 {
			fmt.Println("No credible sources configured.")
			return nil
		}
		for _, s := range sources {
			active := " "
			if s.IsActive {
				active = "*"
			}
			fmt.Printf("%s [%.2f] %-30s %s (%s)\n", active, s.CredibilityScore, s.Name, s.Domain, s.SourceType)
		}
		return nil
	},
}

var sourcesAddCmd = &cobra.Command{
	Use:   "add <name> <domain>",
	Short: "Add a curated credible source",
	Long: `Add a source to the curated list used to back reviewed verdicts.

Example:
  athena sources add "Reuters" reuters.com --type news_outlet --score 0.9`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, flush, err := openStore()
		if err != nil {
			return err
		}
		defer flush()

		src := model.CredibleSource{
			ID:               uuid.NewString(),
			Name:             args[0],
			Domain:           args[1],
			SourceType:       model.SourceType(sourceAddType),
			CredibilityScore: model.ClampScore(sourceAddScore),
			Description:      sourceAddDescribe,
			LastVerified:     time.Now().UTC(),
			IsActive:         true,
		}
		if err := st.CreateCredibleSource(context.Background(), &src); err != nil {
			return err
		}
		fmt.Printf("Added credible source %s (%s)\n", src.Name, src.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
	sourcesCmd.AddCommand(sourcesListCmd)
	sourcesCmd.AddCommand(sourcesAddCmd)

	sourcesListCmd.Flags().BoolVar(&sourcesAll, "all", false, "include inactive sources")
	sourcesAddCmd.Flags().StringVar(&sourceAddType, "type", string(model.SourceTypeOther), "source type (fact_checking_org, news_outlet, government, academic, other)")
	sourcesAddCmd.Flags().Float64Var(&sourceAddScore, "score", 0.8, "credibility score in [0,1]")
	sourcesAddCmd.Flags().StringVar(&sourceAddDescribe, "description", "", "optional description")
}

func openStore() (store.Store, func(), error) {
	cfg, flush, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		flush()
		return nil, nil, err
	}
	if err := st.Migrate(context.Background()); err != nil {
		_ = st.Close()
		flush()
		return nil, nil, err
	}
	cleanup := func() {
		_ = st.Close()
		flush()
	}
	return st, cleanup, nil
}
