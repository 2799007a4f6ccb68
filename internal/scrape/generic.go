package scrape

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/j3859/Africa-lens-bot/internal/content"
	"github.com/j3859/Africa-lens-bot/internal/fetch"
)

// Link texts that are navigation or boilerplate, not headlines.
var linkDenylist = []string{
	"cookie", "privacy", "subscribe", "contact", "menu",
	"lire la suite", "read more", "en savoir plus", "aller au contenu",
	"newsletter", "login", "sign in", "recherche", "abonnez",
	"recevez", "suivez", "partager",
}

var summarySelectors = "p, .excerpt, .summary, .description, .desc, .chapo"

// GenericScraper handles any site without a dedicated extractor by
// scanning every link and judging it by text length and shape.
type GenericScraper struct{}

func (s *GenericScraper) Name() string { return "generic" }

func (s *GenericScraper) Scrape(ctx context.Context, client *fetch.Client, src content.Source) ([]content.RawArticle, error) {
	doc, err := client.Page(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	var articles []content.RawArticle
	seen := make(map[string]bool)

	doc.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		text := cleanText(link.Text())
		if len(text) < 25 || len(text) > 200 {
			return true
		}
		lower := strings.ToLower(text)
		for _, bad := range linkDenylist {
			if strings.Contains(lower, bad) {
				return true
			}
		}

		href, _ := link.Attr("href")
		absURL := fetch.AbsoluteURL(src.URL, href)
		if absURL == "" || seen[absURL] || absURL == src.URL {
			return true
		}
		if strings.HasPrefix(absURL, "javascript:") || strings.Contains(absURL, "#") {
			return true
		}
		seen[absURL] = true

		articles = append(articles, content.RawArticle{
			Headline: text,
			URL:      absURL,
			Summary:  nearbySummary(link),
			ImageURL: fetch.AbsoluteURL(src.URL, nearbyImage(link)),
		})
		return len(articles) < maxArticles
	})

	return articles, nil
}

// nearbyImage climbs the link's ancestors looking for a card image.
func nearbyImage(link *goquery.Selection) string {
	node := link
	for level := 0; level < 5; level++ {
		node = node.Parent()
		if node.Length() == 0 {
			break
		}
		img := node.Find("img").First()
		if img.Length() == 0 {
			continue
		}
		src := lazyImageSrc(img)
		if src == "" {
			continue
		}
		lower := strings.ToLower(src)
		if strings.Contains(lower, "logo") || strings.Contains(lower, "icon") {
			continue
		}
		return src
	}
	return ""
}

// nearbySummary looks a few ancestor levels up for an excerpt node.
func nearbySummary(link *goquery.Selection) string {
	node := link
	for level := 0; level < 3; level++ {
		node = node.Parent()
		if node.Length() == 0 {
			break
		}
		var summary string
		node.Find(summarySelectors).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			text := cleanText(sel.Text())
			if len(text) > 30 {
				summary = truncate(text, maxSummaryLen)
				return false
			}
			return true
		})
		if summary != "" {
			return summary
		}
	}
	return ""
}
