package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/minju-kim98/personal-ai-hub/client"
	"github.com/minju-kim98/personal-ai-hub/internal/launcher"
	"github.com/minju-kim98/personal-ai-hub/internal/logger"
	"github.com/minju-kim98/personal-ai-hub/internal/news"
	"github.com/minju-kim98/personal-ai-hub/internal/store/memory"
	"github.com/minju-kim98/personal-ai-hub/internal/store/postgres"
	"github.com/minju-kim98/personal-ai-hub/internal/workflows"
	"github.com/minju-kim98/personal-ai-hub/internal/workflows/coverletter"
	"github.com/minju-kim98/personal-ai-hub/internal/workflows/proposal"
	"github.com/minju-kim98/personal-ai-hub/internal/workflows/translate"
	"github.com/minju-kim98/personal-ai-hub/internal/workflows/travel"
	"github.com/minju-kim98/personal-ai-hub/internal/workflows/weeklyreport"
	"github.com/minju-kim98/personal-ai-hub/job"
	"github.com/minju-kim98/personal-ai-hub/workflow"
)

// store is everything the app persists.
type store interface {
	job.Store
	job.DocumentStore
	news.ArticleStore
}

// app holds the wired components shared by the commands.
type app struct {
	cfg    *Config
	logger *slog.Logger

	store    store
	pg       *postgres.Store
	redis    *redis.Client
	events   chan client.Event
	gateway  *client.Client
	launcher *launcher.Launcher
	news     *news.Scheduler
}

func newLogger(cfg *Config) *slog.Logger {
	level, _ := logger.ParseLevel(cfg.LogLevel)
	return logger.New(logger.Config{Level: level, Format: cfg.LogFormat})
}

// newApp connects storage and builds the gateway, workflows, launcher and
// news pipeline.
func newApp(ctx context.Context, cfg *Config) (*app, error) {
	a := &app{cfg: cfg, logger: newLogger(cfg)}

	if err := a.openStore(ctx); err != nil {
		return nil, err
	}

	a.events = make(chan client.Event, 256)
	a.gateway = client.New(client.Config{
		APIKeys: client.APIKeys{
			Anthropic: cfg.AnthropicKey,
			OpenAI:    cfg.OpenAIKey,
			Google:    cfg.GoogleKey,
		},
		Timeout: cfg.ModelTimeout,
		Events:  a.events,
	})

	registry, err := a.buildWorkflows()
	if err != nil {
		a.Close()
		return nil, err
	}
	var runOpts []workflow.Option
	if cfg.StepTimeout > 0 {
		runOpts = append(runOpts, workflow.WithStepTimeout(cfg.StepTimeout))
	}
	a.launcher = launcher.New(registry, a.store,
		launcher.WithLogger(a.logger),
		launcher.WithRunOptions(runOpts...),
	)

	if err := a.buildNews(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	if a.cfg.DatabaseURL == "" {
		a.logger.Warn("DATABASE_URL not set, using in-memory storage")
		a.store = memory.New()
		return nil
	}

	pg, err := postgres.Connect(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return err
	}
	applied, err := pg.Migrate(ctx)
	if err != nil {
		pg.Close()
		return err
	}
	a.logger.Info("database ready", "migrations", applied)
	a.pg, a.store = pg, pg
	return nil
}

func (a *app) buildWorkflows() (*launcher.Registry, error) {
	deps := workflows.Deps{
		Gateway:   a.gateway,
		Jobs:      a.store,
		Documents: a.store,
		Logger:    a.logger,
	}

	registry := launcher.NewRegistry()
	builders := []func(workflows.Deps) (workflows.Workflow, error){
		func(d workflows.Deps) (workflows.Workflow, error) { return coverletter.Build(d) },
		func(d workflows.Deps) (workflows.Workflow, error) { return proposal.Build(d) },
		func(d workflows.Deps) (workflows.Workflow, error) { return translate.Build(d) },
		func(d workflows.Deps) (workflows.Workflow, error) { return travel.Build(d) },
		func(d workflows.Deps) (workflows.Workflow, error) { return weeklyreport.Build(d) },
	}
	for _, build := range builders {
		w, err := build(deps)
		if err != nil {
			return nil, fmt.Errorf("build workflow: %w", err)
		}
		registry.Register(w)
	}
	a.logger.Info("workflows registered", "kinds", registry.Kinds())
	return registry, nil
}

func (a *app) buildNews() error {
	// Without a Google key the summarizer falls back to the article opening.
	var summarizerGateway news.Invoker
	if a.cfg.GoogleKey != "" {
		summarizerGateway = a.gateway
	}

	opts := []news.IngestorOption{news.WithLogger(a.logger)}
	if a.cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(a.cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		a.redis = redis.NewClient(redisOpts)
		opts = append(opts, news.WithSeenCache(news.NewRedisSeenCache(a.redis, news.DefaultSeenTTL)))
	}

	ingestor := news.NewIngestor(
		news.NewFetcher(news.WithFetcherLogger(a.logger), news.WithPerFeed(a.cfg.NewsPerFeed)),
		news.NewSummarizer(summarizerGateway, a.logger),
		a.store,
		opts...,
	)
	a.news = news.NewScheduler(ingestor, a.logger, news.WithRetention(a.cfg.NewsRetention))
	return nil
}

// ready reports whether storage is reachable.
func (a *app) ready(ctx context.Context) error {
	if a.pg != nil {
		return a.pg.Ping(ctx)
	}
	return nil
}

// Close releases connections.
func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.pg != nil {
		a.pg.Close()
	}
}
