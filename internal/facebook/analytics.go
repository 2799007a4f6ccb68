package facebook

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/j3859/Africa-lens-bot/internal/content"
)

// PostInsights is one post's engagement snapshot from the Graph API.
type PostInsights struct {
	Reach        int
	Impressions  int
	EngagedUsers int
	Clicks       int
	Reactions    int
	Comments     int
	Shares       int
}

// InsightsStore is the slice of storage the analytics updater needs.
type InsightsStore interface {
	RecentPosts(window time.Duration) ([]content.Post, error)
	UpdatePostMetrics(postID string, reach, impressions, engagedUsers, clicks, reactions, comments, shares int) error
}

// FetchInsights reads likes/comments/shares plus the insights metrics
// for one published post.
func (p *Poster) FetchInsights(ctx context.Context, fbPostID string) (*PostInsights, error) {
	ins := &PostInsights{}

	fields := "id,shares,likes.summary(true),comments.summary(true)"
	base, err := p.getJSON(ctx, fmt.Sprintf("%s/%s?fields=%s&access_token=%s",
		p.baseURL, fbPostID, url.QueryEscape(fields), p.accessToken))
	if err != nil {
		return nil, fmt.Errorf("post fields: %w", err)
	}

	var baseResp struct {
		Shares *struct {
			Count int `json:"count"`
		} `json:"shares"`
		Likes *struct {
			Summary struct {
				TotalCount int `json:"total_count"`
			} `json:"summary"`
		} `json:"likes"`
		Comments *struct {
			Summary struct {
				TotalCount int `json:"total_count"`
			} `json:"summary"`
		} `json:"comments"`
	}
	if err := json.Unmarshal(base, &baseResp); err != nil {
		return nil, err
	}
	if baseResp.Shares != nil {
		ins.Shares = baseResp.Shares.Count
	}
	if baseResp.Likes != nil {
		ins.Reactions = baseResp.Likes.Summary.TotalCount
	}
	if baseResp.Comments != nil {
		ins.Comments = baseResp.Comments.Summary.TotalCount
	}

	metrics := "post_impressions,post_impressions_unique,post_engaged_users,post_clicks"
	insights, err := p.getJSON(ctx, fmt.Sprintf("%s/%s/insights?metric=%s&access_token=%s",
		p.baseURL, fbPostID, metrics, p.accessToken))
	if err != nil {
		// insights need a page token with read_insights; base counts
		// are still worth saving
		log.Printf("⚠️ insights unavailable for %s: %v", fbPostID, err)
		return ins, nil
	}

	var insResp struct {
		Data []struct {
			Name   string `json:"name"`
			Values []struct {
				Value json.Number `json:"value"`
			} `json:"values"`
		} `json:"data"`
	}
	if err := json.Unmarshal(insights, &insResp); err != nil {
		return nil, err
	}
	for _, metric := range insResp.Data {
		if len(metric.Values) == 0 {
			continue
		}
		v, _ := metric.Values[0].Value.Int64()
		switch metric.Name {
		case "post_impressions":
			ins.Impressions = int(v)
		case "post_impressions_unique":
			ins.Reach = int(v)
		case "post_engaged_users":
			ins.EngagedUsers = int(v)
		case "post_clicks":
			ins.Clicks = int(v)
		}
	}
	return ins, nil
}

// UpdateRecentPosts refreshes stored metrics for posts published
// within the window.
func (p *Poster) UpdateRecentPosts(ctx context.Context, store InsightsStore, window time.Duration) (int, error) {
	posts, err := store.RecentPosts(window)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, post := range posts {
		if post.FBPostID == "" {
			continue
		}
		ins, err := p.FetchInsights(ctx, post.FBPostID)
		if err != nil {
			log.Printf("⚠️ can't fetch insights for %s: %v", post.FBPostID, err)
			continue
		}
		err = store.UpdatePostMetrics(post.ID, ins.Reach, ins.Impressions, ins.EngagedUsers,
			ins.Clicks, ins.Reactions, ins.Comments, ins.Shares)
		if err != nil {
			log.Printf("⚠️ can't save metrics for %s: %v", post.ID, err)
			continue
		}
		updated++
	}
	log.Printf("📈 Updated metrics for %d/%d posts", updated, len(posts))
	return updated, nil
}

func (p *Poster) getJSON(ctx context.Context, endpoint string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		msg := string(raw)
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return nil, fmt.Errorf("graph API status %d: %s", resp.StatusCode, strings.TrimSpace(msg))
	}
	return raw, nil
}
