// Package report builds the operational summaries sent to the admin
// Telegram chat.
package report

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/j3859/Africa-lens-bot/internal/content"
	"github.com/j3859/Africa-lens-bot/internal/telegram"
)

// Store is the slice of storage reports read from.
type Store interface {
	RecentPosts(window time.Duration) ([]content.Post, error)
	Stats() (map[string]int, error)
}

type Reporter struct {
	store  Store
	token  string
	chatID string
}

func NewReporter(store Store, token, chatID string) *Reporter {
	return &Reporter{store: store, token: token, chatID: chatID}
}

func (r *Reporter) enabled() bool {
	return r.token != "" && r.chatID != ""
}

// Startup announces that the bot came online.
func (r *Reporter) Startup() {
	if !r.enabled() {
		return
	}
	msg := fmt.Sprintf("🚀 <b>Africa Lens Bot started</b>\n%s", time.Now().UTC().Format("2006-01-02 15:04 UTC"))
	if err := telegram.SendMessage(r.token, r.chatID, msg); err != nil {
		log.Printf("⚠️ startup notice failed: %v", err)
	}
}

// Alert reports a pipeline error to the admin chat.
func (r *Reporter) Alert(stage string, err error) {
	if !r.enabled() {
		return
	}
	msg := fmt.Sprintf("🚨 <b>Error</b> in %s:\n<code>%v</code>", stage, err)
	if sendErr := telegram.SendMessage(r.token, r.chatID, msg); sendErr != nil {
		log.Printf("⚠️ error alert failed: %v", sendErr)
	}
}

// Daily sends the last-24h summary: volume by language, country and
// niche, engagement totals, and backlog health.
func (r *Reporter) Daily() error {
	posts, err := r.store.RecentPosts(24 * time.Hour)
	if err != nil {
		return fmt.Errorf("daily report: %w", err)
	}
	stats, err := r.store.Stats()
	if err != nil {
		return fmt.Errorf("daily report stats: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("📊 <b>Daily report</b>\n\n")
	sb.WriteString(fmt.Sprintf("Posts in last 24h: <b>%d</b>\n", len(posts)))

	writeBreakdown(&sb, "By language", groupCount(posts, func(p content.Post) string { return p.Language }))
	writeBreakdown(&sb, "By country", groupCount(posts, func(p content.Post) string { return p.CountryCode }))
	writeBreakdown(&sb, "By niche", groupCount(posts, func(p content.Post) string { return p.Niche }))

	var reach, engaged, reactions, comments, shares int
	for _, p := range posts {
		reach += p.Reach
		engaged += p.EngagedUsers
		reactions += p.Reactions
		comments += p.Comments
		shares += p.Shares
	}
	sb.WriteString(fmt.Sprintf("\n📈 Reach %d | Engaged %d | 👍 %d | 💬 %d | 🔁 %d\n",
		reach, engaged, reactions, comments, shares))

	pending := stats["content_pending"]
	sb.WriteString(fmt.Sprintf("\n🗂 Pending items: %d\n", pending))
	if len(posts) < 20 {
		sb.WriteString("⚠️ Posting volume is low\n")
	}
	if pending < 30 {
		sb.WriteString("⚠️ Content backlog is running low, check sources\n")
	}

	if !r.enabled() {
		log.Println(sb.String())
		return nil
	}
	return telegram.SendMessage(r.token, r.chatID, sb.String())
}

// Weekly sends the 7-day performance report.
func (r *Reporter) Weekly() error {
	posts, err := r.store.RecentPosts(7 * 24 * time.Hour)
	if err != nil {
		return fmt.Errorf("weekly report: %w", err)
	}

	text := PerformanceReport(posts, 7)
	if !r.enabled() {
		log.Println(text)
		return nil
	}
	return telegram.SendMessage(r.token, r.chatID, text)
}

// PerformanceReport aggregates engagement over a window, grouped by
// language, country and niche.
func PerformanceReport(posts []content.Post, days int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏆 <b>Performance, last %d days</b>\n\n", days))
	sb.WriteString(fmt.Sprintf("Total posts: <b>%d</b>\n", len(posts)))

	type bucket struct {
		posts   int
		reach   int
		engaged int
	}
	aggregate := func(key func(content.Post) string) map[string]*bucket {
		m := make(map[string]*bucket)
		for _, p := range posts {
			k := key(p)
			if k == "" {
				k = "other"
			}
			b := m[k]
			if b == nil {
				b = &bucket{}
				m[k] = b
			}
			b.posts++
			b.reach += p.Reach
			b.engaged += p.EngagedUsers
		}
		return m
	}

	writeBuckets := func(title string, m map[string]*bucket) {
		if len(m) == 0 {
			return
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return m[keys[i]].reach > m[keys[j]].reach })
		sb.WriteString(fmt.Sprintf("\n<b>%s</b>\n", title))
		for _, k := range keys {
			b := m[k]
			sb.WriteString(fmt.Sprintf("  %s: %d posts, reach %d, engaged %d\n", k, b.posts, b.reach, b.engaged))
		}
	}

	writeBuckets("By language", aggregate(func(p content.Post) string { return p.Language }))
	writeBuckets("By country", aggregate(func(p content.Post) string { return p.CountryCode }))
	writeBuckets("By niche", aggregate(func(p content.Post) string { return p.Niche }))

	return sb.String()
}

func groupCount(posts []content.Post, key func(content.Post) string) map[string]int {
	m := make(map[string]int)
	for _, p := range posts {
		k := key(p)
		if k == "" {
			k = "other"
		}
		m[k]++
	}
	return m
}

func writeBreakdown(sb *strings.Builder, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return counts[keys[i]] > counts[keys[j]] })
	sb.WriteString(fmt.Sprintf("\n<b>%s</b>\n", title))
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("  %s: %d\n", k, counts[k]))
	}
}
