package main

import (
	"strings"
	"sync"
	"time"

	"log/slog"

	"powerfulchat/internal/catalog"
	"powerfulchat/internal/config"
	"powerfulchat/internal/enrichment"
	"powerfulchat/internal/images"
	"powerfulchat/internal/logging"
	"powerfulchat/internal/retrypolicy"
	"powerfulchat/internal/services/llm"
	"powerfulchat/internal/services/tmdb"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// pipeline bundles the wired collaborators a command needs. Close releases
// the catalog store.
type pipeline struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *catalog.Store
	enricher *enrichment.Enricher
}

func (p *pipeline) Close() error {
	return p.store.Close()
}

// buildPipeline wires the store, the external clients, and the enricher from
// configuration. Every command that touches the catalog goes through here so
// the wiring lives in one place.
func (c *commandContext) buildPipeline() (*pipeline, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	store, err := catalog.Open(cfg.Paths.DataDir)
	if err != nil {
		return nil, err
	}

	source, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	texts := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		Referer:        cfg.LLM.Referer,
		Title:          cfg.LLM.Title,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})

	imageStore, err := images.New(cfg.Paths.MediaDir)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	enricher, err := enrichment.New(enrichment.Options{
		Store:    store,
		Source:   source,
		Texts:    texts,
		Images:   imageStore,
		Importer: enrichment.NewCatalogFilmImporter(store, source, logger),
		Logger:   logger,
		Visibility: retrypolicy.Policy{
			MaxAttempts: cfg.Enrichment.VisibilityRetryAttempts,
			Backoff: retrypolicy.Linear(
				time.Duration(cfg.Enrichment.VisibilityRetryBaseMS)*time.Millisecond,
				time.Duration(cfg.Enrichment.VisibilityRetryStepMS)*time.Millisecond,
			),
		},
		PowerMeterMin: cfg.Enrichment.PowerMeterMin,
		PowerMeterMax: cfg.Enrichment.PowerMeterMax,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &pipeline{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		enricher: enricher,
	}, nil
}

// openStore opens only the catalog store, for read-side commands that never
// talk to external services.
func (c *commandContext) openStore() (*catalog.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return catalog.Open(cfg.Paths.DataDir)
}
