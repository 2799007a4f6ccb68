// Package content defines the data model shared by the scraping,
// selection and publishing stages.
package content

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Item statuses. An item enters the store as pending and ends up in
// exactly one terminal state.
const (
	StatusPending        = "pending"
	StatusPosted         = "posted"
	StatusFailed         = "failed"
	StatusSkippedNoImage = "skipped_no_image"
)

// Source languages.
const (
	LangFrench  = "french"
	LangEnglish = "english"
)

// Source is one catalog entry: a site, feed, or API query to scrape.
type Source struct {
	ID          int        `db:"id" yaml:"-"`
	Name        string     `db:"name" yaml:"name"`
	URL         string     `db:"url" yaml:"url"`
	Country     string     `db:"country" yaml:"country"`
	CountryCode string     `db:"country_code" yaml:"country_code"`
	Language    string     `db:"language" yaml:"language"`
	Niche       string     `db:"niche" yaml:"niche"`
	ScrapeType  string     `db:"scrape_type" yaml:"scrape_type"`
	Priority    int        `db:"priority" yaml:"priority"` // 1 = scrape first
	Active      bool       `db:"active" yaml:"active"`
	LastScraped *time.Time `db:"last_scraped" yaml:"-"`
}

// RawArticle is the transient output of an extractor, before freshness
// and dedup checks.
type RawArticle struct {
	Headline    string
	URL         string
	Summary     string
	ImageURL    string
	PublishedAt string // as found on the page, may be empty or messy
}

// Item is a stored article waiting to be posted (or already resolved).
type Item struct {
	ID           string     `db:"id"`
	SourceName   string     `db:"source_name"`
	Country      string     `db:"country"`
	CountryCode  string     `db:"country_code"`
	Language     string     `db:"language"`
	Niche        string     `db:"niche"`
	Headline     string     `db:"headline"`
	URL          string     `db:"url"`
	Summary      string     `db:"summary"`
	ImageURL     string     `db:"image_url"`
	HeadlineHash string     `db:"headline_hash"`
	Status       string     `db:"status"`
	FetchedAt    time.Time  `db:"fetched_at"`
	PostedAt     *time.Time `db:"posted_at"`
}

// Post is a record of one published Facebook post plus its engagement
// metrics as last fetched from the Graph API.
type Post struct {
	ID               string     `db:"id"`
	ContentID        string     `db:"content_id"`
	FBPostID         string     `db:"fb_post_id"`
	Message          string     `db:"message"`
	ImageURL         string     `db:"image_url"`
	Language         string     `db:"language"`
	CountryCode      string     `db:"country_code"`
	Niche            string     `db:"niche"`
	PostedAt         time.Time  `db:"posted_at"`
	Reach            int        `db:"reach"`
	Impressions      int        `db:"impressions"`
	EngagedUsers     int        `db:"engaged_users"`
	Clicks           int        `db:"clicks"`
	Reactions        int        `db:"reactions"`
	Comments         int        `db:"comments"`
	Shares           int        `db:"shares"`
	MetricsUpdatedAt *time.Time `db:"metrics_updated_at"`
}

// HeadlineHash returns the dedup key for a headline: sha256 of the
// lowercased, trimmed text. Two sources running the same wire story
// produce the same hash.
func HeadlineHash(headline string) string {
	norm := strings.ToLower(strings.TrimSpace(headline))
	sum := sha256.Sum256([]byte(norm))
	return hex.EncodeToString(sum[:])
}
