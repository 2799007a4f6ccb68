// Package fetch wraps page retrieval: browser-like headers, per-host
// politeness, retries, and the meta-tag helpers every extractor needs.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/j3859/Africa-lens-bot/internal/ratelimit"
	"github.com/j3859/Africa-lens-bot/internal/retry"
)

const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
const googlebotUA = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"

// Hosts that block browser user agents but let crawlers through.
var googlebotHosts = []string{"addisstandard.com"}

// ErrForbidden means the site answered 403. Retrying won't help.
var ErrForbidden = fmt.Errorf("access forbidden")

type Client struct {
	http    *http.Client
	limiter *ratelimit.HostLimiter
	retries int
}

func NewClient(timeout time.Duration, politeness time.Duration, retries int) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		limiter: ratelimit.NewHostLimiter(politeness),
		retries: retries,
	}
}

// Page fetches a URL and returns the parsed document.
func (c *Client) Page(ctx context.Context, pageURL string) (*goquery.Document, error) {
	body, err := c.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML from %s: %w", pageURL, err)
	}
	return doc, nil
}

// Get fetches a URL with retries and returns the response body. The
// caller must close it. A 403 is returned immediately as ErrForbidden.
func (c *Client) Get(ctx context.Context, pageURL string) (io.ReadCloser, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("bad URL %q: %w", pageURL, err)
	}
	c.limiter.Wait(u.Host)

	var body io.ReadCloser
	err = retry.WithRetry(ctx, retry.RetryConfig{MaxAttempts: c.retries, Delay: 2 * time.Second, Backoff: true}, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return err
		}
		setHeaders(req, u.Host)

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("request %s: %w", pageURL, err)
		}
		if resp.StatusCode == http.StatusForbidden {
			resp.Body.Close()
			log.Printf("🚫 %s answered 403, giving up", u.Host)
			return retry.Permanent(ErrForbidden)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return fmt.Errorf("HTTP %d from %s", resp.StatusCode, pageURL)
		}
		body = resp.Body
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Head issues a HEAD request without retries. Used for cheap checks
// like image validation.
func (c *Client) Head(ctx context.Context, pageURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, pageURL, nil)
	if err != nil {
		return nil, err
	}
	if u, err := url.Parse(pageURL); err == nil {
		setHeaders(req, u.Host)
	}
	return c.http.Do(req)
}

func setHeaders(req *http.Request, host string) {
	ua := browserUA
	for _, h := range googlebotHosts {
		if strings.Contains(host, h) {
			ua = googlebotUA
			break
		}
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9,en-US;q=0.8,en;q=0.7")
}

// OGImage returns the page's og:image, falling back to twitter:image.
func OGImage(doc *goquery.Document) string {
	if v, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	if v, ok := doc.Find(`meta[name="twitter:image"]`).Attr("content"); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return ""
}

// MetaDescription returns the page's description meta tag.
func MetaDescription(doc *goquery.Document) string {
	if v, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		return strings.TrimSpace(v)
	}
	if v, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// AbsoluteURL resolves href against the page it was found on.
func AbsoluteURL(pageURL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
