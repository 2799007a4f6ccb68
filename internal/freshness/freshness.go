// Package freshness decides whether a scraped article is recent enough
// to post. Timestamps on African news sites are unreliable, so the
// check degrades through several heuristics before defaulting to keep.
package freshness

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var freshKeywords = []string{
	"today", "aujourd'hui", "breaking", "just in",
	"vient de", "ce matin", "this morning",
}

var staleKeywords = []string{
	"last year", "l'an dernier", "2023", "2022", "2021", "2020",
}

var urlDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`/(\d{4})/(\d{2})/(\d{2})/`),
	regexp.MustCompile(`/(\d{4})-(\d{2})-(\d{2})`),
	regexp.MustCompile(`-(\d{4})(\d{2})(\d{2})`),
}

// Filter keeps a freshness window and a clock so tests can pin time.
type Filter struct {
	MaxAge time.Duration
	Now    func() time.Time
}

func NewFilter(maxAge time.Duration) *Filter {
	return &Filter{MaxAge: maxAge, Now: time.Now}
}

// IsFresh decides in order: explicit timestamp, date embedded in the
// URL, fresh keywords (force keep), stale keywords (force drop), then
// keep by default. Keywords are scanned across headline and summary.
func (f *Filter) IsFresh(headline, summary, articleURL, publishedAt string) bool {
	now := f.Now()

	if publishedAt != "" {
		if t, err := parseTimestamp(publishedAt); err == nil {
			return now.Sub(t) <= f.MaxAge
		}
	}

	if t, ok := dateFromURL(articleURL); ok {
		// URL dates carry no time of day, so compare whole calendar
		// days or a morning slug would expire by the afternoon run.
		cy, cm, cd := now.Add(-f.MaxAge).Date()
		return !t.Before(time.Date(cy, cm, cd, 0, 0, 0, 0, time.UTC))
	}

	text := strings.ToLower(headline + " " + summary)
	for _, kw := range freshKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	for _, kw := range staleKeywords {
		if strings.Contains(text, kw) {
			return false
		}
	}

	// Undatable articles from a live front page are usually current.
	return true
}

func parseTimestamp(raw string) (time.Time, error) {
	t, err := dateparse.ParseAny(strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, err
	}
	// Compare in UTC; source timezones are guesswork anyway.
	return t.UTC(), nil
}

func dateFromURL(articleURL string) (time.Time, bool) {
	for _, re := range urlDatePatterns {
		m := re.FindStringSubmatch(articleURL)
		if m == nil {
			continue
		}
		t, err := time.Parse("2006-01-02", m[1]+"-"+m[2]+"-"+m[3])
		if err != nil {
			continue
		}
		if t.Year() < 2020 || t.Year() > 2030 {
			continue
		}
		return t, true
	}
	return time.Time{}, false
}
