// Package app wires the pipeline together and exposes the operations
// the CLI runs.
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/j3859/Africa-lens-bot/internal/ai"
	"github.com/j3859/Africa-lens-bot/internal/config"
	"github.com/j3859/Africa-lens-bot/internal/facebook"
	"github.com/j3859/Africa-lens-bot/internal/fetch"
	"github.com/j3859/Africa-lens-bot/internal/freshness"
	"github.com/j3859/Africa-lens-bot/internal/images"
	"github.com/j3859/Africa-lens-bot/internal/metrics"
	"github.com/j3859/Africa-lens-bot/internal/pipeline"
	"github.com/j3859/Africa-lens-bot/internal/report"
	"github.com/j3859/Africa-lens-bot/internal/scrape"
	"github.com/j3859/Africa-lens-bot/internal/selector"
	"github.com/j3859/Africa-lens-bot/internal/storage"
)

type App struct {
	cfg        *config.Config
	catalog    *config.Catalog
	store      *storage.Store
	dispatcher *pipeline.Dispatcher
	engine     *pipeline.Engine
	generator  *ai.Generator
	poster     *facebook.Poster
	reporter   *report.Reporter
}

// New loads config, connects storage and wires every stage.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	catalog, err := config.LoadCatalog(cfg.SourcesConfigPath)
	if err != nil {
		return nil, err
	}

	store, err := storage.New(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := store.SyncSources(catalog.Sources); err != nil {
		store.Close()
		return nil, fmt.Errorf("sync sources: %w", err)
	}

	client := fetch.NewClient(cfg.RequestTimeout, cfg.PolitenessDelay, cfg.RetryAttempts)
	resolver := images.NewResolver(client,
		&images.Pexels{APIKey: cfg.PexelsAPIKey, BaseURL: cfg.PexelsBaseURL},
		&images.Unsplash{AccessKey: cfg.UnsplashAPIKey, BaseURL: cfg.UnsplashBaseURL},
	)
	fresh := freshness.NewFilter(time.Duration(cfg.MaxAgeHours) * time.Hour)
	registry := scrape.DefaultRegistry(cfg.GNewsAPIKey, cfg.NewsAPIKey, cfg.YouTubeAPIKey)

	generator, err := ai.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.OpenAIAPIKey, cfg.OpenAIModel)
	if err != nil {
		store.Close()
		return nil, err
	}

	poster := facebook.NewPoster(cfg.FacebookPageID, cfg.FacebookAccessToken, cfg.FacebookAPIVersion)
	sel := selector.New(store, cfg.FrenchShare)

	return &App{
		cfg:        cfg,
		catalog:    catalog,
		store:      store,
		dispatcher: pipeline.NewDispatcher(registry, client, fresh, resolver, store, cfg.PolitenessDelay),
		engine:     pipeline.NewEngine(store, sel, resolver, generator, poster, cfg.MaxAttempts),
		generator:  generator,
		poster:     poster,
		reporter:   report.NewReporter(store, cfg.TelegramToken, cfg.TelegramChatID),
	}, nil
}

func (a *App) Close() {
	a.generator.Close()
	if err := a.store.Close(); err != nil {
		log.Printf("⚠️ closing store: %v", err)
	}
}

// Scrape runs one full scrape cycle over all active sources.
func (a *App) Scrape(ctx context.Context) error {
	_, err := a.dispatcher.Run(ctx)
	return err
}

// Post runs one posting cycle, using the schedule hint for the current
// UTC hour.
func (a *App) Post(ctx context.Context) error {
	return a.engine.RunCycle(ctx, a.currentHint())
}

// Cleanup removes unposted content older than the given window.
func (a *App) Cleanup(olderThan time.Duration) error {
	_, err := a.store.Cleanup(olderThan)
	return err
}

// Status prints store and runtime counters.
func (a *App) Status() error {
	stats, err := a.store.Stats()
	if err != nil {
		return err
	}
	log.Println("📋 Store:")
	for k, v := range stats {
		log.Printf("  %s: %d", k, v)
	}
	log.Println("📋 Runtime:")
	for k, v := range metrics.Global.GetStats() {
		log.Printf("  %s: %v", k, v)
	}
	return nil
}

// Report sends the daily report.
func (a *App) Report() error {
	return a.reporter.Daily()
}

// Analytics refreshes engagement metrics for recent posts and logs
// the current performance summary.
func (a *App) Analytics(ctx context.Context) error {
	if _, err := a.poster.UpdateRecentPosts(ctx, a.store, 72*time.Hour); err != nil {
		return err
	}
	posts, err := a.store.RecentPosts(7 * 24 * time.Hour)
	if err != nil {
		return err
	}
	log.Println(report.PerformanceReport(posts, 7))
	return nil
}

func (a *App) currentHint() selector.Hint {
	slot, ok := a.catalog.SlotFor(time.Now().UTC().Hour())
	if !ok {
		return selector.Hint{}
	}
	return selector.Hint{
		CountryCode: selector.CountryCode(slot.Country),
		Niche:       slot.Niche,
	}
}

// Run is the continuous mode: a minute ticker drives each job at its
// scheduled time until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	a.reporter.Startup()
	log.Println("🤖 Continuous mode started")

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	var lastFired = map[string]time.Time{}
	fire := func(name string, job func() error) {
		now := time.Now().UTC()
		if last, ok := lastFired[name]; ok && now.Sub(last) < 2*time.Minute {
			return
		}
		lastFired[name] = now
		if err := job(); err != nil {
			log.Printf("❌ %s: %v", name, err)
			metrics.Global.SetError(err.Error())
			a.reporter.Alert(name, err)
			// back off so a broken dependency doesn't alert every tick
			time.Sleep(5 * time.Minute)
		}
	}

	for {
		select {
		case <-ctx.Done():
			log.Println("👋 Shutting down")
			return ctx.Err()
		case <-ticker.C:
		}

		now := time.Now().UTC()
		hour, minute := now.Hour(), now.Minute()

		if minute == 5 {
			fire("post", func() error { return a.Post(ctx) })
		}
		if minute == 30 && hour%3 == 0 {
			fire("scrape", func() error { return a.Scrape(ctx) })
		}
		if hour == 3 && minute == 0 {
			fire("cleanup", func() error {
				return a.Cleanup(time.Duration(a.cfg.RetentionHours) * time.Hour)
			})
		}
		if minute == 45 && hour%6 == 0 {
			fire("analytics", func() error { return a.Analytics(ctx) })
		}
		if hour == 0 && minute == 0 {
			fire("daily report", a.Report)
		}
		if now.Weekday() == time.Sunday && hour == 12 && minute == 0 {
			fire("weekly report", a.reporter.Weekly)
		}
	}
}
