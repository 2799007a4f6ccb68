package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/j3859/Africa-lens-bot/internal/content"
)

func TestGNewsScraper(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("lang") != "fr" {
			t.Errorf("expected fr query for a french source, got %q", r.URL.Query().Get("lang"))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"articles":[
			{"title":"Le Ghana inaugure une nouvelle raffinerie d'or pres d'Accra","url":"https://a.com/1","image":"https://a.com/1.jpg","publishedAt":"2026-03-09T10:00:00Z","description":"Une raffinerie moderne."},
			{"title":"short","url":"https://a.com/2"}
		]}`)
	}))
	defer srv.Close()

	s := &GNewsScraper{APIKey: "k", BaseURL: srv.URL}
	src := content.Source{URL: "ghana or", Language: content.LangFrench, CountryCode: "GH"}
	articles, err := s.Scrape(context.Background(), nil, src)
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	if articles[0].PublishedAt != "2026-03-09T10:00:00Z" {
		t.Errorf("publishedAt not carried over: %q", articles[0].PublishedAt)
	}
}

func TestNewsAPIScraperSkipsRemoved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"articles":[
			{"title":"[Removed]","url":"https://x.com/1"},
			{"title":"Kenya announces major investment in geothermal energy","url":"https://x.com/2","urlToImage":"https://x.com/2.jpg"}
		]}`)
	}))
	defer srv.Close()

	s := &NewsAPIScraper{APIKey: "k", BaseURL: srv.URL}
	articles, err := s.Scrape(context.Background(), nil, content.Source{URL: "kenya energy"})
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected removed article to be skipped, got %d", len(articles))
	}
	if articles[0].ImageURL != "https://x.com/2.jpg" {
		t.Errorf("wrong image: %q", articles[0].ImageURL)
	}
}

func TestYouTubeScraperDedupsVideos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items":[
			{"id":{"videoId":"abc"},"snippet":{"title":"Africa business weekly roundup episode twelve","thumbnails":{"high":{"url":"https://i.ytimg.com/abc.jpg"}}}},
			{"id":{"videoId":"abc"},"snippet":{"title":"Africa business weekly roundup episode twelve","thumbnails":{"high":{"url":"https://i.ytimg.com/abc.jpg"}}}}
		]}`)
	}))
	defer srv.Close()

	s := &YouTubeScraper{APIKey: "k", BaseURL: srv.URL}
	articles, err := s.Scrape(context.Background(), nil, content.Source{URL: "africa business"})
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected dedup to 1 video, got %d", len(articles))
	}
	if articles[0].URL != "https://www.youtube.com/watch?v=abc" {
		t.Errorf("wrong watch URL: %q", articles[0].URL)
	}
}
