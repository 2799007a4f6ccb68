package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/j3859/Africa-lens-bot/internal/content"
	"github.com/j3859/Africa-lens-bot/internal/fetch"
)

var apiHTTP = &http.Client{Timeout: 15 * time.Second}

func apiGetJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := apiHTTP.Do(req)
	if err != nil {
		return fmt.Errorf("api request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("api status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GNewsScraper queries the GNews API. The source URL field carries the
// search query; the source language picks fr or en results.
type GNewsScraper struct {
	APIKey  string
	BaseURL string
}

func (s *GNewsScraper) Name() string { return "gnews" }

func (s *GNewsScraper) Scrape(ctx context.Context, _ *fetch.Client, src content.Source) ([]content.RawArticle, error) {
	base := s.BaseURL
	if base == "" {
		base = "https://gnews.io/api/v4"
	}
	lang := "fr"
	if src.Language == content.LangEnglish {
		lang = "en"
	}
	endpoint := fmt.Sprintf("%s/search?q=%s&lang=%s&country=%s&max=%d&apikey=%s",
		base, url.QueryEscape(src.URL), lang, url.QueryEscape(src.CountryCode), maxArticles, s.APIKey)

	var result struct {
		Articles []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
			Image       string `json:"image"`
			PublishedAt string `json:"publishedAt"`
		} `json:"articles"`
	}
	if err := apiGetJSON(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("gnews: %w", err)
	}

	var articles []content.RawArticle
	for _, a := range result.Articles {
		if len(a.Title) < minHeadlineLen || a.URL == "" {
			continue
		}
		articles = append(articles, content.RawArticle{
			Headline:    a.Title,
			URL:         a.URL,
			Summary:     truncate(a.Description, maxSummaryLen),
			ImageURL:    a.Image,
			PublishedAt: a.PublishedAt,
		})
		if len(articles) >= maxArticles {
			break
		}
	}
	return articles, nil
}

// NewsAPIScraper queries newsapi.org. English-only on the free tier.
type NewsAPIScraper struct {
	APIKey  string
	BaseURL string
}

func (s *NewsAPIScraper) Name() string { return "newsapi" }

func (s *NewsAPIScraper) Scrape(ctx context.Context, _ *fetch.Client, src content.Source) ([]content.RawArticle, error) {
	base := s.BaseURL
	if base == "" {
		base = "https://newsapi.org/v2"
	}
	endpoint := fmt.Sprintf("%s/everything?q=%s&language=en&sortBy=publishedAt&pageSize=%d&apiKey=%s",
		base, url.QueryEscape(src.URL), maxArticles, s.APIKey)

	var result struct {
		Articles []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
			URLToImage  string `json:"urlToImage"`
			PublishedAt string `json:"publishedAt"`
		} `json:"articles"`
	}
	if err := apiGetJSON(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("newsapi: %w", err)
	}

	var articles []content.RawArticle
	for _, a := range result.Articles {
		// deleted articles come back as "[Removed]"
		if a.Title == "[Removed]" || len(a.Title) < minHeadlineLen || a.URL == "" {
			continue
		}
		articles = append(articles, content.RawArticle{
			Headline:    a.Title,
			URL:         a.URL,
			Summary:     truncate(a.Description, maxSummaryLen),
			ImageURL:    a.URLToImage,
			PublishedAt: a.PublishedAt,
		})
		if len(articles) >= maxArticles {
			break
		}
	}
	return articles, nil
}

// YouTubeScraper searches YouTube for recent news clips. Videos post
// with their high-res thumbnail as the image.
type YouTubeScraper struct {
	APIKey  string
	BaseURL string
}

func (s *YouTubeScraper) Name() string { return "youtube" }

func (s *YouTubeScraper) Scrape(ctx context.Context, _ *fetch.Client, src content.Source) ([]content.RawArticle, error) {
	base := s.BaseURL
	if base == "" {
		base = "https://www.googleapis.com/youtube/v3"
	}
	endpoint := fmt.Sprintf("%s/search?part=snippet&type=video&order=date&maxResults=%d&q=%s&key=%s",
		base, maxVideos, url.QueryEscape(src.URL), s.APIKey)

	var result struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title       string `json:"title"`
				Description string `json:"description"`
				PublishedAt string `json:"publishedAt"`
				Thumbnails  struct {
					High struct {
						URL string `json:"url"`
					} `json:"high"`
				} `json:"thumbnails"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := apiGetJSON(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("youtube: %w", err)
	}

	var articles []content.RawArticle
	seen := make(map[string]bool)
	for _, item := range result.Items {
		if item.ID.VideoID == "" || seen[item.ID.VideoID] {
			continue
		}
		seen[item.ID.VideoID] = true
		if len(item.Snippet.Title) < minHeadlineLen {
			continue
		}
		articles = append(articles, content.RawArticle{
			Headline:    item.Snippet.Title,
			URL:         "https://www.youtube.com/watch?v=" + item.ID.VideoID,
			Summary:     truncate(item.Snippet.Description, maxSummaryLen),
			ImageURL:    item.Snippet.Thumbnails.High.URL,
			PublishedAt: item.Snippet.PublishedAt,
		})
		if len(articles) >= maxVideos {
			break
		}
	}
	return articles, nil
}
