package main

import (
	"fmt"

	"github.com/janavarta/news-platform/internal/config"
	"github.com/janavarta/news-platform/internal/genai"
	"github.com/janavarta/news-platform/internal/notify"
	"github.com/janavarta/news-platform/internal/pipeline"
	"github.com/janavarta/news-platform/internal/prompt"
	"github.com/janavarta/news-platform/internal/quota"
	"github.com/janavarta/news-platform/internal/store"
	"github.com/janavarta/news-platform/internal/taxonomy"
	"github.com/janavarta/news-platform/pkg/log"
	"github.com/janavarta/news-platform/pkg/migrations"
	"go.uber.org/zap"
)

type worker struct {
	cfg    *config.Config
	store  store.Store
	runner *pipeline.Runner
}

// buildWorker wires the full pipeline from configuration: store, provider,
// prompt store, taxonomy resolver, quota meter, notifier, orchestrator.
func buildWorker() (*worker, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}

	logger := log.InitLog(log.AtomicLevelFrom(cfg.Service.LogLevel))
	zap.ReplaceGlobals(logger)

	db, err := store.InitDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing data store: %w", err)
	}
	s := store.NewStore(db)

	if cfg.Service.MigrationFolder != "" {
		if err := migrations.MigrateStore(db, cfg.Service.MigrationFolder); err != nil {
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	} else if err := s.InitialMigration(); err != nil {
		return nil, fmt.Errorf("running initial migration: %w", err)
	}

	provider := genai.NewGeminiClient(
		cfg.Provider.BaseURL, cfg.Provider.APIKey, cfg.Provider.Model, cfg.Provider.Timeout)

	prompts := prompt.NewStore(s.PromptTemplate(), cfg.Pipeline.TemplateCacheTTL, nil)

	translator := taxonomy.NewTranslator(s.Category(), provider, cfg.Pipeline.Languages)
	resolver := taxonomy.NewResolver(s.Category(), translator, taxonomy.Options{
		SimilarityThreshold: cfg.Pipeline.SimilarityThreshold,
		AutoCreate:          cfg.Pipeline.CategoryAutoCreate,
		MinChars:            cfg.Pipeline.CategoryMinChars,
		MaxChars:            cfg.Pipeline.CategoryMaxChars,
		MaxWords:            cfg.Pipeline.CategoryMaxWords,
		Languages:           cfg.Pipeline.Languages,
	})

	meter := quota.NewMeter(s.Usage(), cfg.Pipeline.MonthlyTokenQuota)
	notifier := notify.NewNotifier(cfg.Pipeline.CallbackTimeout)

	orchestrator := pipeline.NewOrchestrator(s, provider, prompts, resolver, meter, notifier, cfg)

	return &worker{
		cfg:    cfg,
		store:  s,
		runner: pipeline.NewRunner(s, orchestrator, cfg),
	}, nil
}
