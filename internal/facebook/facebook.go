// Package facebook publishes posts through the Graph API and fetches
// their engagement metrics.
package facebook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Poster struct {
	pageID      string
	accessToken string
	baseURL     string
	http        *http.Client
}

func NewPoster(pageID, accessToken, apiVersion string) *Poster {
	return &Poster{
		pageID:      pageID,
		accessToken: accessToken,
		baseURL:     "https://graph.facebook.com/" + apiVersion,
		http:        &http.Client{Timeout: 60 * time.Second},
	}
}

// SetBaseURL points the poster at a different Graph endpoint. Tests use
// it to publish against a local server.
func (p *Poster) SetBaseURL(base string) {
	p.baseURL = strings.TrimRight(base, "/")
}

// PublishPhoto posts an image by URL with the caption. Every post on
// the page is a photo post; text-only posts get no reach.
func (p *Poster) PublishPhoto(ctx context.Context, imageURL, caption string) (string, error) {
	if imageURL == "" {
		return "", fmt.Errorf("refusing to publish without an image")
	}

	form := url.Values{}
	form.Set("url", imageURL)
	form.Set("caption", caption)
	form.Set("access_token", p.accessToken)

	endpoint := fmt.Sprintf("%s/%s/photos", p.baseURL, p.pageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("graph API request: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		ID    string `json:"id"`
		Error *struct {
			Message string `json:"message"`
			Code    int    `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("graph API decode: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("graph API error %d: %s", result.Error.Code, result.Error.Message)
	}
	if result.ID == "" {
		return "", fmt.Errorf("graph API returned no post id (status %d)", resp.StatusCode)
	}
	return result.ID, nil
}
