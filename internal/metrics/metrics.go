package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	ArticlesFound      int64
	ArticlesFresh      int64
	ArticlesSaved      int64
	DuplicatesFiltered int64
	SourcesFailed      int64
	ImagesRejected     int64
	PostsPublished     int64
	PostsFailed        int64
	CandidatesSkipped  int64

	// Timings
	LastScrapeTime    time.Duration
	TotalScrapeTime   time.Duration
	ScrapeCount       int64
	AverageScrapeTime time.Duration

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddArticlesFound(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesFound += int64(n)
}

func (m *Metrics) AddArticlesFresh(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesFresh += int64(n)
}

func (m *Metrics) AddArticlesSaved(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesSaved += int64(n)
}

func (m *Metrics) IncrementDuplicatesFiltered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered++
}

func (m *Metrics) IncrementSourcesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesFailed++
}

func (m *Metrics) IncrementImagesRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ImagesRejected++
}

func (m *Metrics) IncrementPostsPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PostsPublished++
}

func (m *Metrics) IncrementPostsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PostsFailed++
}

func (m *Metrics) IncrementCandidatesSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CandidatesSkipped++
}

func (m *Metrics) RecordScrapeTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastScrapeTime = duration
	m.TotalScrapeTime += duration
	m.ScrapeCount++

	if m.ScrapeCount > 0 {
		m.AverageScrapeTime = m.TotalScrapeTime / time.Duration(m.ScrapeCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"articles_found":         m.ArticlesFound,
		"articles_fresh":         m.ArticlesFresh,
		"articles_saved":         m.ArticlesSaved,
		"duplicates_filtered":    m.DuplicatesFiltered,
		"sources_failed":         m.SourcesFailed,
		"images_rejected":        m.ImagesRejected,
		"posts_published":        m.PostsPublished,
		"posts_failed":           m.PostsFailed,
		"candidates_skipped":     m.CandidatesSkipped,
		"last_scrape_time_ms":    m.LastScrapeTime.Milliseconds(),
		"average_scrape_time_ms": m.AverageScrapeTime.Milliseconds(),
		"last_run_time":          m.LastRunTime.Format(time.RFC3339),
		"last_error_time":        m.LastErrorTime.Format(time.RFC3339),
		"last_error":             m.LastError,
		"is_healthy":             m.IsHealthy,
	}
}
