package scrape

import (
	"context"
	"log"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/j3859/Africa-lens-bot/internal/content"
	"github.com/j3859/Africa-lens-bot/internal/fetch"
)

func siteScrapers() []Scraper {
	return []Scraper{
		&JeuneAfriqueScraper{},
		&PunchScraper{},
		&IwacuScraper{},
		&AllAfricaScraper{},
		&Burkina24Scraper{},
		&FratmatScraper{},
		&ActualiteCDScraper{},
		&MaliActuScraper{},
	}
}

// lazyImageSrc reads an image URL preferring lazy-load attributes, the
// same order most WordPress themes populate them.
func lazyImageSrc(img *goquery.Selection) string {
	for _, attr := range []string{"data-lazy-src", "data-src", "src"} {
		if v, ok := img.Attr(attr); ok {
			v = strings.TrimSpace(v)
			if v != "" && !strings.HasPrefix(v, "data:") {
				return v
			}
		}
	}
	return ""
}

// JeuneAfriqueScraper reads the thumbnail cards on jeuneafrique.com.
type JeuneAfriqueScraper struct{}

func (s *JeuneAfriqueScraper) Name() string { return "jeuneafrique" }

func (s *JeuneAfriqueScraper) Scrape(ctx context.Context, client *fetch.Client, src content.Source) ([]content.RawArticle, error) {
	doc, err := client.Page(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	var articles []content.RawArticle
	doc.Find("article.thumbnail--lg, article.thumbnail, article").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		link := card.Find("h4.thumbnail__title a, h3.thumbnail__title a, h2 a").First()
		headline := cleanText(link.Text())
		href, _ := link.Attr("href")
		if len(headline) < minSiteHeadline || href == "" {
			return true
		}

		articles = append(articles, content.RawArticle{
			Headline: headline,
			URL:      fetch.AbsoluteURL(src.URL, href),
			Summary:  truncate(cleanText(card.Find(".thumbnail__excerpt, .excerpt").First().Text()), maxSummaryLen),
			ImageURL: fetch.AbsoluteURL(src.URL, lazyImageSrc(card.Find("img").First())),
		})
		return len(articles) < maxArticles
	})
	return articles, nil
}

// PunchScraper reads punchng.com. The plain src attribute on list
// images is a placeholder uploaded in 2021, only data-src is real.
type PunchScraper struct{}

func (s *PunchScraper) Name() string { return "punch" }

func (s *PunchScraper) Scrape(ctx context.Context, client *fetch.Client, src content.Source) ([]content.RawArticle, error) {
	doc, err := client.Page(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	var articles []content.RawArticle
	doc.Find("article").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		link := card.Find("h2.post-title a, h1.post-title a").First()
		headline := cleanText(link.Text())
		href, _ := link.Attr("href")
		if len(headline) < minSiteHeadline || href == "" {
			return true
		}

		imageURL := ""
		if v, ok := card.Find("img").First().Attr("data-src"); ok && !strings.Contains(v, "2021/05") {
			imageURL = fetch.AbsoluteURL(src.URL, v)
		}

		articles = append(articles, content.RawArticle{
			Headline: headline,
			URL:      fetch.AbsoluteURL(src.URL, href),
			Summary:  truncate(cleanText(card.Find(".post-excerpt, p").First().Text()), maxSummaryLen),
			ImageURL: imageURL,
		})
		return len(articles) < maxArticles
	})
	return articles, nil
}

// IwacuScraper reads iwacu-burundi.org headline blocks, falling back to
// generic article cards when the front page layout changes.
type IwacuScraper struct{}

func (s *IwacuScraper) Name() string { return "iwacu" }

func (s *IwacuScraper) Scrape(ctx context.Context, client *fetch.Client, src content.Source) ([]content.RawArticle, error) {
	doc, err := client.Page(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	var articles []content.RawArticle
	doc.Find("div.titraille h2 a").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		headline := cleanText(link.Text())
		href, _ := link.Attr("href")
		if len(headline) < minSiteHeadline || href == "" {
			return true
		}

		img := link.Closest("div.titraille").Parent().Find("img.wp-post-image").First()
		articles = append(articles, content.RawArticle{
			Headline: headline,
			URL:      fetch.AbsoluteURL(src.URL, href),
			ImageURL: fetch.AbsoluteURL(src.URL, lazyImageSrc(img)),
		})
		return len(articles) < maxArticles
	})

	if len(articles) < 5 {
		doc.Find("article, .post").EachWithBreak(func(_ int, card *goquery.Selection) bool {
			link := card.Find("h2 a, h3 a").First()
			headline := cleanText(link.Text())
			href, _ := link.Attr("href")
			if len(headline) < minSiteHeadline || href == "" {
				return true
			}
			articles = append(articles, content.RawArticle{
				Headline: headline,
				URL:      fetch.AbsoluteURL(src.URL, href),
				ImageURL: fetch.AbsoluteURL(src.URL, lazyImageSrc(card.Find("img").First())),
			})
			return len(articles) < maxArticles
		})
	}
	return articles, nil
}

var allAfricaCardClass = regexp.MustCompile(`(?i)(story|headline|article)`)

// AllAfricaScraper reads allafrica.com, whose markup varies per section.
type AllAfricaScraper struct{}

func (s *AllAfricaScraper) Name() string { return "allafrica" }

func (s *AllAfricaScraper) Scrape(ctx context.Context, client *fetch.Client, src content.Source) ([]content.RawArticle, error) {
	doc, err := client.Page(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	containers := doc.Find("div.story, li.story, div.headline-item, div.top-story, article, .stories li, .section-stories li")
	if containers.Length() == 0 {
		containers = doc.Find("div, li").FilterFunction(func(_ int, sel *goquery.Selection) bool {
			class, _ := sel.Attr("class")
			return allAfricaCardClass.MatchString(class)
		})
	}

	var articles []content.RawArticle
	seen := make(map[string]bool)
	containers.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		link := card.Find("h2 a, h3 a, h4 a, a.headline, a").First()
		headline := cleanText(link.Text())
		href, _ := link.Attr("href")
		if len(headline) < minSiteHeadline || href == "" {
			return true
		}
		absURL := fetch.AbsoluteURL(src.URL, href)
		if seen[absURL] {
			return true
		}
		seen[absURL] = true

		imageURL := fetch.AbsoluteURL(src.URL, lazyImageSrc(card.Find("img").First()))
		// allafrica image params break hotlinking
		if i := strings.IndexAny(imageURL, "?#"); i >= 0 {
			imageURL = imageURL[:i]
		}

		articles = append(articles, content.RawArticle{
			Headline: headline,
			URL:      absURL,
			Summary:  truncate(cleanText(card.Find("p, .summary, .teaser").First().Text()), maxSummaryLen),
			ImageURL: imageURL,
		})
		return len(articles) < maxArticles
	})
	return articles, nil
}

// Burkina24Scraper reads burkina24.com post cards.
type Burkina24Scraper struct{}

func (s *Burkina24Scraper) Name() string { return "burkina24" }

func (s *Burkina24Scraper) Scrape(ctx context.Context, client *fetch.Client, src content.Source) ([]content.RawArticle, error) {
	doc, err := client.Page(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	var articles []content.RawArticle
	doc.Find(".post-item, article").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		link := card.Find("h2.post-title a, h3.post-title a, h2 a").First()
		headline := cleanText(link.Text())
		href, _ := link.Attr("href")
		if len(headline) < minSiteHeadline || href == "" {
			return true
		}

		articles = append(articles, content.RawArticle{
			Headline: headline,
			URL:      fetch.AbsoluteURL(src.URL, href),
			Summary:  truncate(cleanText(card.Find("p.post-excerpt").First().Text()), maxSummaryLen),
			ImageURL: fetch.AbsoluteURL(src.URL, lazyImageSrc(card.Find("img.wp-post-image, img").First())),
		})
		return len(articles) < maxArticles
	})
	return articles, nil
}

// FratmatScraper reads fratmat.info, which mixes several card layouts.
type FratmatScraper struct{}

func (s *FratmatScraper) Name() string { return "fratmat" }

func (s *FratmatScraper) Scrape(ctx context.Context, client *fetch.Client, src content.Source) ([]content.RawArticle, error) {
	doc, err := client.Page(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	var articles []content.RawArticle
	seen := make(map[string]bool)
	doc.Find("div.article-item, div.news-item, article, div.card, div.views-row").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		link := card.Find("a.article-title").First()
		if link.Length() == 0 {
			card.Find("a[href*='/article/']").EachWithBreak(func(_ int, a *goquery.Selection) bool {
				if len(cleanText(a.Text())) > 20 {
					link = a
					return false
				}
				return true
			})
		}
		headline := cleanText(link.Text())
		href, _ := link.Attr("href")
		if len(headline) < minSiteHeadline || href == "" {
			return true
		}
		absURL := fetch.AbsoluteURL(src.URL, href)
		if seen[absURL] {
			return true
		}
		seen[absURL] = true

		imageURL := ""
		if v, ok := card.Find("img.lazy").First().Attr("data-src"); ok && !strings.Contains(v, "no-image") {
			imageURL = fetch.AbsoluteURL(src.URL, v)
		} else if v := lazyImageSrc(card.Find("img").First()); v != "" && !strings.Contains(v, "no-image") {
			imageURL = fetch.AbsoluteURL(src.URL, v)
		}

		articles = append(articles, content.RawArticle{
			Headline: headline,
			URL:      absURL,
			ImageURL: imageURL,
		})
		return len(articles) < maxArticles
	})
	return articles, nil
}

// ActualiteCDScraper reads actualite.cd Drupal view rows.
type ActualiteCDScraper struct{}

func (s *ActualiteCDScraper) Name() string { return "actualitecd" }

func (s *ActualiteCDScraper) Scrape(ctx context.Context, client *fetch.Client, src content.Source) ([]content.RawArticle, error) {
	doc, err := client.Page(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	var articles []content.RawArticle
	doc.Find(".views-row").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		link := card.Find("h4 a, h3 a, h2 a").First()
		headline := cleanText(link.Text())
		href, _ := link.Attr("href")
		if len(headline) < minSiteHeadline || href == "" {
			return true
		}

		articles = append(articles, content.RawArticle{
			Headline: headline,
			URL:      fetch.AbsoluteURL(src.URL, href),
			Summary:  cleanText(card.Find("span a").First().Text()),
			ImageURL: fetch.AbsoluteURL(src.URL, lazyImageSrc(card.Find("img").First())),
		})
		return len(articles) < maxArticles
	})
	return articles, nil
}

// MaliActuScraper reads maliactu.net headline lists.
type MaliActuScraper struct{}

func (s *MaliActuScraper) Name() string { return "maliactu" }

func (s *MaliActuScraper) Scrape(ctx context.Context, client *fetch.Client, src content.Source) ([]content.RawArticle, error) {
	doc, err := client.Page(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	var articles []content.RawArticle
	seen := make(map[string]bool)
	doc.Find("li").EachWithBreak(func(_ int, item *goquery.Selection) bool {
		link := item.Find("a").First()
		headline := cleanText(link.Text())
		href, _ := link.Attr("href")
		if len(headline) <= 25 || href == "" {
			return true
		}
		absURL := fetch.AbsoluteURL(src.URL, href)
		if seen[absURL] || !strings.Contains(absURL, "maliactu") {
			return true
		}
		seen[absURL] = true

		articles = append(articles, content.RawArticle{
			Headline: headline,
			URL:      absURL,
			ImageURL: fetch.AbsoluteURL(src.URL, lazyImageSrc(item.Find("img").First())),
		})
		return len(articles) < maxArticles
	})

	if len(articles) == 0 {
		log.Printf("⚠️ maliactu: no articles matched on %s", src.URL)
	}
	return articles, nil
}
