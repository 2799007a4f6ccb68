package report

import (
	"strings"
	"testing"
	"time"

	"github.com/j3859/Africa-lens-bot/internal/content"
)

type fakeReportStore struct {
	posts []content.Post
	stats map[string]int
}

func (f *fakeReportStore) RecentPosts(window time.Duration) ([]content.Post, error) {
	return f.posts, nil
}

func (f *fakeReportStore) Stats() (map[string]int, error) { return f.stats, nil }

func TestPerformanceReport(t *testing.T) {
	posts := []content.Post{
		{Language: "french", CountryCode: "SN", Niche: "politics", Reach: 1000, EngagedUsers: 90},
		{Language: "french", CountryCode: "SN", Niche: "business", Reach: 400, EngagedUsers: 20},
		{Language: "english", CountryCode: "NG", Niche: "politics", Reach: 2500, EngagedUsers: 300},
	}

	text := PerformanceReport(posts, 7)

	if !strings.Contains(text, "Total posts: <b>3</b>") {
		t.Errorf("missing total: %s", text)
	}
	if !strings.Contains(text, "french: 2 posts, reach 1400") {
		t.Errorf("french bucket wrong: %s", text)
	}
	// highest reach sorts first
	langIdx := strings.Index(text, "english: 1 posts")
	frIdx := strings.Index(text, "french: 2 posts")
	if langIdx == -1 || frIdx == -1 || langIdx > frIdx {
		t.Errorf("buckets should sort by reach: %s", text)
	}
}

func TestDailyReportWarnings(t *testing.T) {
	store := &fakeReportStore{
		posts: []content.Post{{Language: "french", Reach: 10}},
		stats: map[string]int{"content_pending": 4},
	}
	// no telegram config: the report is logged, not sent
	r := NewReporter(store, "", "")
	if err := r.Daily(); err != nil {
		t.Fatalf("Daily: %v", err)
	}
}
