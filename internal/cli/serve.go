package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/athenahq/athena/internal/api"
	"github.com/athenahq/athena/internal/config"
	"github.com/athenahq/athena/internal/credibility"
	"github.com/athenahq/athena/internal/factcheck"
	"github.com/athenahq/athena/internal/inference"
	"github.com/athenahq/athena/internal/platform"
	"github.com/athenahq/athena/internal/search"
	"github.com/athenahq/athena/internal/store"
	"github.com/athenahq/athena/internal/textproc"
	"github.com/athenahq/athena/internal/watermark"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Athena HTTP API server",
	Long: `Start the HTTP server exposing fact-checking, misinformation analysis,
watermarking, and source listing endpoints.

Example:
  athena serve
  athena serve --config ./athena.yaml
  ATHENA_SERVER_ADDRESS=:9000 athena serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, flush, err := loadConfig()
	if err != nil {
		return err
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.close()

	server := api.NewServer(app.service, app.analyzer, app.watermark, app.store, app.kv, app.bus, cfg.GCP.QueryTopic)
	return server.Run(ctx, cfg.Server.Address, cfg.Server.ShutdownTimeout)
}

// app bundles the wired service graph and its closers.
type app struct {
	service   *factcheck.Service
	analyzer  inference.Analyzer
	watermark *watermark.Engine
	store     store.Store
	kv        platform.KeyValueStore
	bus       platform.MessageBus
	closers   []func() error
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			zap.L().Warn("close failed", zap.Error(err))
		}
	}
}

// buildApp wires the service graph from configuration. GCP and OpenAI
// integrations are optional; absent configuration leaves placeholder
// implementations in place.
func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, eris.Wrap(err, "opening store")
	}
	a.closers = append(a.closers, st.Close)
	if err := st.Migrate(ctx); err != nil {
		a.close()
		return nil, eris.Wrap(err, "migrating store")
	}
	a.store = st

	var transcriber textproc.Transcriber
	a.analyzer = inference.NewNullAnalyzer()
	if cfg.OpenAI.APIKey != "" {
		oa := platform.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.ChatModel)
		transcriber = oa
		a.analyzer = inference.NewServingAnalyzer(oa)

		// With a media bucket configured, audio/video queries may
		// reference gs:// objects instead of local files.
		if cfg.GCP.MediaBucket != "" {
			blobs, err := platform.NewGCSStore(ctx)
			if err != nil {
				a.close()
				return nil, err
			}
			a.closers = append(a.closers, blobs.Close)
			transcriber = platform.NewMediaTranscriber(blobs, oa)
		}
	}
	if cfg.GCP.VertexEndpoint != "" {
		vertex, err := platform.NewVertexClient(ctx, cfg.GCP.Location, cfg.GCP.VertexEndpoint)
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, vertex.Close)
		a.analyzer = inference.NewServingAnalyzer(vertex)
	}
	if cfg.GCP.ProjectID != "" {
		kv, err := platform.NewFirestoreStore(ctx, cfg.GCP.ProjectID)
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, kv.Close)
		a.kv = kv
	}
	if cfg.GCP.ProjectID != "" && cfg.GCP.QueryTopic != "" {
		bus, err := platform.NewPubSubBus(ctx, cfg.GCP.ProjectID)
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, bus.Close)
		a.bus = bus
	}

	searcher := search.NewHTTPSearcher(search.Config{
		Endpoint:     cfg.Search.Endpoint,
		APIKey:       cfg.Search.APIKey,
		MaxResults:   cfg.Search.MaxResults,
		Timeout:      cfg.Search.Timeout,
		UserAgent:    cfg.Search.UserAgent,
		FetchContent: cfg.Search.FetchContent,
		RatePerHost:  cfg.Search.RatePerHost,
	})

	a.service = factcheck.NewService(
		st,
		textproc.NewExtractor(transcriber),
		textproc.NewProcessor(),
		searcher,
		credibility.NewScorer(cfg.Credibility.DomainScores),
	)
	a.watermark = watermark.NewEngine(cfg.Watermark.Secret)
	return a, nil
}
