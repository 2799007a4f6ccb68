// Package scrape turns catalog sources into raw articles. Each source
// names a scraper; sites without a dedicated one fall back to the
// generic link-scanning extractor.
package scrape

import (
	"context"
	"strings"
	"sync"

	"github.com/j3859/Africa-lens-bot/internal/content"
	"github.com/j3859/Africa-lens-bot/internal/fetch"
)

// Extractor limits: list pages repeat stories endlessly, so every
// scraper caps its output.
const (
	maxArticles     = 15
	maxVideos       = 10
	minHeadlineLen  = 15
	minSiteHeadline = 20
	maxSummaryLen   = 500
)

// Scraper fetches one source and returns raw articles.
type Scraper interface {
	Name() string
	Scrape(ctx context.Context, client *fetch.Client, src content.Source) ([]content.RawArticle, error)
}

// Registry resolves a source's scrape_type to a Scraper.
type Registry struct {
	mu       sync.RWMutex
	scrapers map[string]Scraper
	fallback Scraper
}

func NewRegistry() *Registry {
	return &Registry{scrapers: make(map[string]Scraper)}
}

func (r *Registry) Register(s Scraper) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scrapers[s.Name()] = s
}

// SetFallback sets the scraper used for unknown scrape types.
func (r *Registry) SetFallback(s Scraper) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = s
}

// Resolve returns the scraper for the given type, or the fallback.
func (r *Registry) Resolve(scrapeType string) Scraper {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.scrapers[strings.ToLower(strings.TrimSpace(scrapeType))]; ok {
		return s
	}
	return r.fallback
}

// DefaultRegistry wires up every built-in scraper.
func DefaultRegistry(gnewsKey, newsAPIKey, youtubeKey string) *Registry {
	r := NewRegistry()
	for _, s := range siteScrapers() {
		r.Register(s)
	}
	r.Register(&RSSScraper{})
	if gnewsKey != "" {
		r.Register(&GNewsScraper{APIKey: gnewsKey})
	}
	if newsAPIKey != "" {
		r.Register(&NewsAPIScraper{APIKey: newsAPIKey})
	}
	if youtubeKey != "" {
		r.Register(&YouTubeScraper{APIKey: youtubeKey})
	}
	g := &GenericScraper{}
	r.Register(g)
	r.SetFallback(g)
	return r
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
