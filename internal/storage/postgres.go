// Package storage persists sources, content items and post records in
// PostgreSQL.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/j3859/Africa-lens-bot/internal/content"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

type Store struct {
	db *sqlx.DB
}

func New(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	log.Println("✅ PostgreSQL connected successfully")
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sources (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) UNIQUE NOT NULL,
		url TEXT NOT NULL,
		country VARCHAR(100) NOT NULL DEFAULT '',
		country_code VARCHAR(10) NOT NULL DEFAULT '',
		language VARCHAR(20) NOT NULL DEFAULT 'french',
		niche VARCHAR(50) NOT NULL DEFAULT '',
		scrape_type VARCHAR(50) NOT NULL DEFAULT 'generic',
		priority INTEGER NOT NULL DEFAULT 2,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		last_scraped TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS content (
		id UUID PRIMARY KEY,
		source_name VARCHAR(255) NOT NULL,
		country VARCHAR(100) NOT NULL DEFAULT '',
		country_code VARCHAR(10) NOT NULL DEFAULT '',
		language VARCHAR(20) NOT NULL,
		niche VARCHAR(50) NOT NULL DEFAULT '',
		headline TEXT NOT NULL,
		url TEXT UNIQUE NOT NULL,
		summary TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL,
		headline_hash VARCHAR(64) UNIQUE NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		fetched_at TIMESTAMP NOT NULL DEFAULT NOW(),
		posted_at TIMESTAMP,
		CHECK (image_url <> '')
	);

	CREATE INDEX IF NOT EXISTS idx_content_status ON content(status);
	CREATE INDEX IF NOT EXISTS idx_content_language ON content(language);
	CREATE INDEX IF NOT EXISTS idx_content_hash ON content(headline_hash);
	CREATE INDEX IF NOT EXISTS idx_content_fetched_at ON content(fetched_at);

	CREATE TABLE IF NOT EXISTS posts (
		id UUID PRIMARY KEY,
		content_id UUID NOT NULL REFERENCES content(id),
		fb_post_id VARCHAR(255) NOT NULL DEFAULT '',
		message TEXT NOT NULL,
		image_url TEXT NOT NULL,
		language VARCHAR(20) NOT NULL,
		country_code VARCHAR(10) NOT NULL DEFAULT '',
		niche VARCHAR(50) NOT NULL DEFAULT '',
		posted_at TIMESTAMP NOT NULL DEFAULT NOW(),
		reach INTEGER NOT NULL DEFAULT 0,
		impressions INTEGER NOT NULL DEFAULT 0,
		engaged_users INTEGER NOT NULL DEFAULT 0,
		clicks INTEGER NOT NULL DEFAULT 0,
		reactions INTEGER NOT NULL DEFAULT 0,
		comments INTEGER NOT NULL DEFAULT 0,
		shares INTEGER NOT NULL DEFAULT 0,
		metrics_updated_at TIMESTAMP
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_posts_image_url ON posts(image_url);
	CREATE INDEX IF NOT EXISTS idx_posts_posted_at ON posts(posted_at);
	CREATE INDEX IF NOT EXISTS idx_posts_language ON posts(language);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SyncSources upserts the YAML catalog into the sources table so the
// dispatcher can track last_scraped per source.
func (s *Store) SyncSources(sources []content.Source) error {
	for _, src := range sources {
		_, err := s.db.Exec(`
			INSERT INTO sources (name, url, country, country_code, language, niche, scrape_type, priority, active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (name) DO UPDATE SET
				url = EXCLUDED.url,
				country = EXCLUDED.country,
				country_code = EXCLUDED.country_code,
				language = EXCLUDED.language,
				niche = EXCLUDED.niche,
				scrape_type = EXCLUDED.scrape_type,
				priority = EXCLUDED.priority,
				active = EXCLUDED.active`,
			src.Name, src.URL, src.Country, src.CountryCode, src.Language, src.Niche, src.ScrapeType, src.Priority, src.Active)
		if err != nil {
			return fmt.Errorf("sync source %s: %w", src.Name, err)
		}
	}
	return nil
}

func (s *Store) ActiveSources() ([]content.Source, error) {
	var sources []content.Source
	err := s.db.Select(&sources, `SELECT * FROM sources WHERE active = TRUE ORDER BY priority, name`)
	return sources, err
}

func (s *Store) MarkSourceScraped(name string) error {
	_, err := s.db.Exec(`UPDATE sources SET last_scraped = NOW() WHERE name = $1`, name)
	return err
}

// HasContent reports whether we already stored this story, either by
// exact URL or by normalized headline hash.
func (s *Store) HasContent(articleURL, headlineHash string) (bool, error) {
	var count int
	err := s.db.Get(&count,
		`SELECT COUNT(*) FROM content WHERE url = $1 OR headline_hash = $2`,
		articleURL, headlineHash)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddItem saves a new pending item. The image URL must already be
// resolved; items without one are never stored.
func (s *Store) AddItem(item *content.Item) error {
	if item.ImageURL == "" {
		return fmt.Errorf("refusing to store item without image: %s", item.Headline)
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.HeadlineHash == "" {
		item.HeadlineHash = content.HeadlineHash(item.Headline)
	}
	if item.Status == "" {
		item.Status = content.StatusPending
	}

	_, err := s.db.Exec(`
		INSERT INTO content (id, source_name, country, country_code, language, niche,
			headline, url, summary, image_url, headline_hash, status, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())`,
		item.ID, item.SourceName, item.Country, item.CountryCode, item.Language, item.Niche,
		item.Headline, item.URL, item.Summary, item.ImageURL, item.HeadlineHash, item.Status)
	return err
}

// PendingByFilter returns pending items matching the optional country
// and niche filters, newest first. Empty filter strings match all.
func (s *Store) PendingByFilter(language, countryCode, niche string, limit int) ([]content.Item, error) {
	query := `SELECT * FROM content WHERE status = 'pending' AND language = $1`
	args := []interface{}{language}

	if countryCode != "" {
		args = append(args, countryCode)
		query += fmt.Sprintf(" AND country_code = $%d", len(args))
	}
	if niche != "" {
		args = append(args, niche)
		query += fmt.Sprintf(" AND niche = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY fetched_at DESC LIMIT $%d", len(args))

	var items []content.Item
	err := s.db.Select(&items, query, args...)
	return items, err
}

// MarkStatus moves an item to the given status. Posted items get a
// posted_at timestamp.
func (s *Store) MarkStatus(itemID, status string) error {
	var err error
	if status == content.StatusPosted {
		_, err = s.db.Exec(`UPDATE content SET status = $1, posted_at = NOW() WHERE id = $2`, status, itemID)
	} else {
		_, err = s.db.Exec(`UPDATE content SET status = $1 WHERE id = $2`, status, itemID)
	}
	return err
}

// LanguageRatio returns the French share of posts in the last window
// and the total count.
func (s *Store) LanguageRatio(window time.Duration) (float64, int, error) {
	var row struct {
		Total  int `db:"total"`
		French int `db:"french"`
	}
	err := s.db.Get(&row, `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE language = 'french') AS french
		FROM posts WHERE posted_at > NOW() - $1::interval`,
		fmt.Sprintf("%d seconds", int(window.Seconds())))
	if err != nil {
		return 0, 0, err
	}
	if row.Total == 0 {
		return 0, 0, nil
	}
	return float64(row.French) / float64(row.Total), row.Total, nil
}

// ImageUsed reports whether any post record, ever, used this image URL.
func (s *Store) ImageUsed(imageURL string) (bool, error) {
	var count int
	err := s.db.Get(&count, `SELECT COUNT(*) FROM posts WHERE image_url = $1`, imageURL)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) CreatePost(post *content.Post) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	_, err := s.db.Exec(`
		INSERT INTO posts (id, content_id, fb_post_id, message, image_url, language, country_code, niche, posted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`,
		post.ID, post.ContentID, post.FBPostID, post.Message, post.ImageURL,
		post.Language, post.CountryCode, post.Niche)
	return err
}

// RecentPosts returns posts published within the window, newest first.
func (s *Store) RecentPosts(window time.Duration) ([]content.Post, error) {
	var posts []content.Post
	err := s.db.Select(&posts, `
		SELECT * FROM posts
		WHERE posted_at > NOW() - $1::interval
		ORDER BY posted_at DESC`,
		fmt.Sprintf("%d seconds", int(window.Seconds())))
	return posts, err
}

// UpdatePostMetrics writes the latest engagement numbers for a post.
func (s *Store) UpdatePostMetrics(postID string, reach, impressions, engagedUsers, clicks, reactions, comments, shares int) error {
	res, err := s.db.Exec(`
		UPDATE posts SET reach = $1, impressions = $2, engaged_users = $3, clicks = $4,
			reactions = $5, comments = $6, shares = $7, metrics_updated_at = NOW()
		WHERE id = $8`,
		reach, impressions, engagedUsers, clicks, reactions, comments, shares, postID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Cleanup deletes unposted items older than the window. Posted items
// are kept forever so image uniqueness can be enforced.
func (s *Store) Cleanup(olderThan time.Duration) (int64, error) {
	res, err := s.db.Exec(`
		DELETE FROM content
		WHERE status IN ('pending', 'skipped_no_image', 'failed')
		AND fetched_at < NOW() - $1::interval`,
		fmt.Sprintf("%d seconds", int(olderThan.Seconds())))
	if err != nil {
		return 0, err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		log.Printf("🧹 Cleaned up %d old content items", deleted)
	}
	return deleted, nil
}

// Stats returns row counts used by the status command and reports.
func (s *Store) Stats() (map[string]int, error) {
	stats := make(map[string]int)

	rows, err := s.db.Query(`SELECT status, COUNT(*) FROM content GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats["content_"+status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var totalPosts int
	if err := s.db.Get(&totalPosts, `SELECT COUNT(*) FROM posts`); err != nil {
		return nil, err
	}
	stats["posts_total"] = totalPosts

	var activeSources int
	if err := s.db.Get(&activeSources, `SELECT COUNT(*) FROM sources WHERE active = TRUE`); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}
	stats["sources_active"] = activeSources

	return stats, nil
}
