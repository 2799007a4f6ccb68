// Package images finds and validates a usable image for each article.
// Facebook posts without a photo get almost no reach, so an article
// with no valid image is not worth publishing.
package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/j3859/Africa-lens-bot/internal/fetch"
)

// MaxImageBytes is the Graph API's practical photo size ceiling.
const MaxImageBytes = 9_500_000

// ErrNoImage means the whole resolution chain came up empty.
var ErrNoImage = errors.New("no usable image found")

var allowedTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"}

// Placeholder substrings seen in list thumbnails that never resolve to
// real article photos.
var placeholderMarkers = []string{"cdn.tuko.co.ke", "placeholder", "default", "logo", "icon"}

var proxyURLParam = regexp.MustCompile(`url=([^&]+)`)

type Resolver struct {
	client *fetch.Client
	stock  []StockProvider
}

func NewResolver(client *fetch.Client, stock ...StockProvider) *Resolver {
	return &Resolver{client: client, stock: stock}
}

// Resolve walks the fallback chain: the list image, the article's OG
// image, the first in-body image, then stock providers keyed on the
// headline. Returns ErrNoImage when nothing validates.
func (r *Resolver) Resolve(ctx context.Context, listImageURL, articleURL, headline string) (string, error) {
	if u := Normalize(listImageURL); u != "" && !IsPlaceholder(u) {
		if err := r.Validate(ctx, u); err == nil {
			return u, nil
		} else {
			log.Printf("🖼️ list image rejected: %v", err)
		}
	}

	var doc *goquery.Document
	if articleURL != "" {
		var err error
		doc, err = r.client.Page(ctx, articleURL)
		if err != nil {
			log.Printf("🖼️ can't load article page for image lookup: %v", err)
		}
	}

	if doc != nil {
		if og := Normalize(fetch.AbsoluteURL(articleURL, fetch.OGImage(doc))); og != "" && !IsPlaceholder(og) {
			if err := r.Validate(ctx, og); err == nil {
				return og, nil
			}
		}
		if body := r.firstBodyImage(ctx, doc, articleURL); body != "" {
			return body, nil
		}
	}

	for _, sp := range r.stock {
		u, err := sp.Search(ctx, headline)
		if err != nil || u == "" {
			continue
		}
		if err := r.Validate(ctx, u); err == nil {
			return u, nil
		}
	}

	return "", ErrNoImage
}

func (r *Resolver) firstBodyImage(ctx context.Context, doc *goquery.Document, articleURL string) string {
	var found string
	doc.Find("article img, .article-body img, .post-content img, .entry-content img, main img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src := s.AttrOr("data-lazy-src", s.AttrOr("data-src", s.AttrOr("src", "")))
		u := Normalize(fetch.AbsoluteURL(articleURL, src))
		if u == "" || IsPlaceholder(u) {
			return true
		}
		if err := r.Validate(ctx, u); err != nil {
			return true
		}
		found = u
		return false
	})
	return found
}

// Validate checks type and size without downloading the image. HEAD
// first; some CDNs refuse HEAD, so fall back to a streamed GET that is
// closed after the headers.
func (r *Resolver) Validate(ctx context.Context, imageURL string) error {
	if strings.HasPrefix(imageURL, "data:") {
		return fmt.Errorf("data URI is not a hostable image")
	}

	resp, err := r.client.Head(ctx, imageURL)
	if err != nil || resp.StatusCode >= 400 {
		if resp != nil {
			resp.Body.Close()
		}
		return r.validateByGet(ctx, imageURL)
	}
	defer resp.Body.Close()
	return checkImageHeaders(resp)
}

// validateByGet covers hosts that refuse HEAD. A plain GET keeps the
// Content-Length honest; the body is dropped once the headers arrive.
func (r *Resolver) validateByGet(ctx context.Context, imageURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("image unreachable: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("image returned HTTP %d", resp.StatusCode)
	}
	return checkImageHeaders(resp)
}

func checkImageHeaders(resp *http.Response) error {
	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	ok := false
	for _, t := range allowedTypes {
		if strings.Contains(ct, t) {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("unsupported content type %q", ct)
	}
	if resp.ContentLength > MaxImageBytes {
		return fmt.Errorf("image too large: %d bytes", resp.ContentLength)
	}
	return nil
}

// Normalize unwraps CDN image proxies and fixes scheme-less URLs so the
// Graph API can fetch the original.
func Normalize(imageURL string) string {
	u := strings.TrimSpace(imageURL)
	if u == "" {
		return ""
	}

	if strings.Contains(u, "premiumread.com") || strings.Contains(u, "weserv.nl") {
		if m := proxyURLParam.FindStringSubmatch(u); m != nil {
			if unescaped, err := url.QueryUnescape(m[1]); err == nil {
				u = unescaped
			}
		}
	}

	if strings.Contains(u, "i0.wp.com") || strings.Contains(u, "i1.wp.com") || strings.Contains(u, "i2.wp.com") {
		if !strings.HasPrefix(u, "http") {
			u = "https://" + strings.TrimPrefix(u, "//")
		}
	}

	if strings.HasPrefix(u, "//") {
		u = "https:" + u
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") && !strings.HasPrefix(u, "data:") {
		u = "https://" + u
	}
	return u
}

// IsPlaceholder reports whether the URL looks like a site logo or a
// stand-in thumbnail rather than an article photo.
func IsPlaceholder(imageURL string) bool {
	lower := strings.ToLower(imageURL)
	for _, marker := range placeholderMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
