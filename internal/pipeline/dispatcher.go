// Package pipeline runs the two halves of the bot: the scrape cycle
// that fills the content store, and the posting cycle that drains it.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/j3859/Africa-lens-bot/internal/content"
	"github.com/j3859/Africa-lens-bot/internal/fetch"
	"github.com/j3859/Africa-lens-bot/internal/freshness"
	"github.com/j3859/Africa-lens-bot/internal/images"
	"github.com/j3859/Africa-lens-bot/internal/metrics"
	"github.com/j3859/Africa-lens-bot/internal/scrape"
)

// ScrapeStore is the slice of storage the dispatcher needs.
type ScrapeStore interface {
	ActiveSources() ([]content.Source, error)
	HasContent(articleURL, headlineHash string) (bool, error)
	AddItem(item *content.Item) error
	MarkSourceScraped(name string) error
}

// Counters summarizes one scrape cycle.
type Counters struct {
	SourcesOK     int
	SourcesFailed int
	Found         int
	Fresh         int
	Saved         int
	Duplicates    int
	NoImage       int
}

func (c Counters) String() string {
	return fmt.Sprintf("sources %d ok / %d failed, found %d, fresh %d, saved %d, dup %d, no image %d",
		c.SourcesOK, c.SourcesFailed, c.Found, c.Fresh, c.Saved, c.Duplicates, c.NoImage)
}

type Dispatcher struct {
	registry   *scrape.Registry
	client     *fetch.Client
	fresh      *freshness.Filter
	resolver   *images.Resolver
	store      ScrapeStore
	politeness time.Duration
}

func NewDispatcher(registry *scrape.Registry, client *fetch.Client, fresh *freshness.Filter,
	resolver *images.Resolver, store ScrapeStore, politeness time.Duration) *Dispatcher {
	return &Dispatcher{
		registry:   registry,
		client:     client,
		fresh:      fresh,
		resolver:   resolver,
		store:      store,
		politeness: politeness,
	}
}

// Run scrapes every active source in sequence. A broken source never
// stops the cycle; it just counts as failed.
func (d *Dispatcher) Run(ctx context.Context) (Counters, error) {
	start := time.Now()
	var counters Counters

	sources, err := d.store.ActiveSources()
	if err != nil {
		return counters, fmt.Errorf("load sources: %w", err)
	}
	log.Printf("🔍 Scraping %d sources", len(sources))

	for _, src := range sources {
		if ctx.Err() != nil {
			return counters, ctx.Err()
		}
		if err := d.scrapeSource(ctx, src, &counters); err != nil {
			counters.SourcesFailed++
			metrics.Global.IncrementSourcesFailed()
			log.Printf("❌ Source %s failed: %v", src.Name, err)
			continue
		}
		counters.SourcesOK++
		if err := d.store.MarkSourceScraped(src.Name); err != nil {
			log.Printf("⚠️ can't mark %s scraped: %v", src.Name, err)
		}
	}

	metrics.Global.AddArticlesFound(counters.Found)
	metrics.Global.AddArticlesFresh(counters.Fresh)
	metrics.Global.AddArticlesSaved(counters.Saved)
	metrics.Global.RecordScrapeTime(time.Since(start))
	metrics.Global.SetLastRun()

	log.Printf("✅ Scrape cycle done in %v: %s", time.Since(start).Round(time.Second), counters)
	return counters, nil
}

func (d *Dispatcher) scrapeSource(ctx context.Context, src content.Source, counters *Counters) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in scraper: %v", r)
		}
	}()

	scraper := d.registry.Resolve(src.ScrapeType)
	articles, err := scraper.Scrape(ctx, d.client, src)
	if err != nil {
		return err
	}
	counters.Found += len(articles)
	log.Printf("📰 %s: %d articles", src.Name, len(articles))

	for i := range articles {
		article := &articles[i]

		if !d.fresh.IsFresh(article.Headline, article.Summary, article.URL, article.PublishedAt) {
			continue
		}
		counters.Fresh++

		hash := content.HeadlineHash(article.Headline)
		exists, err := d.store.HasContent(article.URL, hash)
		if err != nil {
			return fmt.Errorf("dedup check: %w", err)
		}
		if exists {
			counters.Duplicates++
			metrics.Global.IncrementDuplicatesFiltered()
			continue
		}

		scrape.Enrich(ctx, d.client, article)

		imageURL, err := d.resolver.Resolve(ctx, article.ImageURL, article.URL, article.Headline)
		if err != nil {
			counters.NoImage++
			metrics.Global.IncrementImagesRejected()
			log.Printf("🖼️ Skipping %q: %v", article.Headline, err)
			continue
		}

		item := &content.Item{
			SourceName:   src.Name,
			Country:      src.Country,
			CountryCode:  src.CountryCode,
			Language:     src.Language,
			Niche:        src.Niche,
			Headline:     article.Headline,
			URL:          article.URL,
			Summary:      article.Summary,
			ImageURL:     imageURL,
			HeadlineHash: hash,
		}
		if err := d.store.AddItem(item); err != nil {
			log.Printf("⚠️ can't save %q: %v", article.Headline, err)
			continue
		}
		counters.Saved++

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d.politeness):
		}
	}
	return nil
}
