package scrape

import (
	"context"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/j3859/Africa-lens-bot/internal/content"
	"github.com/j3859/Africa-lens-bot/internal/fetch"
)

// RSSScraper handles sources whose URL is a feed.
type RSSScraper struct{}

func (s *RSSScraper) Name() string { return "rss" }

func (s *RSSScraper) Scrape(ctx context.Context, _ *fetch.Client, src content.Source) ([]content.RawArticle, error) {
	parser := gofeed.NewParser()
	feed, err := parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, err
	}

	var articles []content.RawArticle
	for _, item := range feed.Items {
		if item == nil || len(item.Title) < minHeadlineLen || item.Link == "" {
			continue
		}

		published := item.Published
		if published == "" && item.PublishedParsed != nil {
			published = item.PublishedParsed.Format(time.RFC3339)
		}

		imageURL := ""
		if item.Image != nil {
			imageURL = item.Image.URL
		}
		if imageURL == "" {
			for _, enc := range item.Enclosures {
				if enc != nil && enc.URL != "" {
					imageURL = enc.URL
					break
				}
			}
		}

		articles = append(articles, content.RawArticle{
			Headline:    cleanText(item.Title),
			URL:         item.Link,
			Summary:     truncate(cleanText(item.Description), maxSummaryLen),
			ImageURL:    imageURL,
			PublishedAt: published,
		})
		if len(articles) >= maxArticles {
			break
		}
	}
	return articles, nil
}
