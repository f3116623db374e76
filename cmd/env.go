package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lumen-bio/leadscout/internal/enrich"
	"github.com/lumen-bio/leadscout/internal/extract"
	"github.com/lumen-bio/leadscout/internal/pipeline"
	"github.com/lumen-bio/leadscout/internal/scorer"
	"github.com/lumen-bio/leadscout/internal/store"
	"github.com/lumen-bio/leadscout/pkg/entrez"
)

// pipelineEnv holds the initialized store and pipeline shared by the
// scrape/rescore/serve commands.
type pipelineEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initStore opens the configured database backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "sqlite":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initPipeline sets up the store, the PubMed client and the scorer, and
// builds the Pipeline. Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	opts := []entrez.Option{
		entrez.WithTool(cfg.PubMed.Tool),
		entrez.WithBatchSize(cfg.PubMed.BatchSize),
	}
	if cfg.PubMed.BaseURL != "" {
		opts = append(opts, entrez.WithBaseURL(cfg.PubMed.BaseURL))
	}
	if cfg.PubMed.APIKey != "" {
		opts = append(opts, entrez.WithAPIKey(cfg.PubMed.APIKey))
	}
	client := entrez.NewClient(cfg.PubMed.Email, opts...)

	weights := scorer.DefaultWeights()
	if cfg.Scoring.WeightsFile != "" {
		weights, err = scorer.LoadWeights(cfg.Scoring.WeightsFile)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		zap.L().Info("loaded scoring weights", zap.String("file", cfg.Scoring.WeightsFile))
	}

	p := pipeline.New(
		client,
		st,
		extract.New(cfg.Extract.DataSource, cfg.Extract.PlaceholderTitle),
		enrich.New(cfg.Enrich.ProfileURLTemplate),
		scorer.New(weights, cfg.Scoring.ReferenceYear),
		cfg.Pipeline.MaxConcurrentLeads,
	)

	return &pipelineEnv{Store: st, Pipeline: p}, nil
}
