package scrape

import (
	"context"
	"log"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/j3859/Africa-lens-bot/internal/content"
	"github.com/j3859/Africa-lens-bot/internal/fetch"
)

var articleBodySelectors = "article p, .article-body p, .post-content p, .entry-content p, .article-content p, main p"

// Enrich fills in a missing summary or image by visiting the article
// page once. List pages often carry only the headline.
func Enrich(ctx context.Context, client *fetch.Client, article *content.RawArticle) {
	if article.Summary != "" && article.ImageURL != "" {
		return
	}

	body, err := client.Get(ctx, article.URL)
	if err != nil {
		log.Printf("⚠️ can't enrich %s: %v", article.URL, err)
		return
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return
	}

	if article.ImageURL == "" {
		if og := fetch.OGImage(doc); og != "" && !strings.HasPrefix(og, "data:") {
			article.ImageURL = fetch.AbsoluteURL(article.URL, og)
		}
	}

	if article.Summary == "" {
		article.Summary = extractBodyText(doc, article.URL)
	}
	if article.Summary == "" {
		article.Summary = fetch.MetaDescription(doc)
	}
}

// extractBodyText tries readability first, then plain paragraph
// selectors for pages readability can't parse.
func extractBodyText(doc *goquery.Document, articleURL string) string {
	html, err := doc.Html()
	if err == nil {
		if u, err := url.Parse(articleURL); err == nil {
			if art, err := readability.FromReader(strings.NewReader(html), u); err == nil {
				if text := cleanText(art.TextContent); len(text) > 40 {
					return truncate(text, maxSummaryLen)
				}
			}
		}
	}

	var parts []string
	total := 0
	doc.Find(articleBodySelectors).EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := cleanText(p.Text())
		if len(text) > 40 {
			parts = append(parts, text)
			total += len(text)
		}
		return total < maxSummaryLen
	})
	return truncate(strings.Join(parts, " "), maxSummaryLen)
}
