package images

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// StockProvider looks up a generic photo matching a headline. Used as
// the last resort before an article is dropped for having no image.
type StockProvider interface {
	Name() string
	Search(ctx context.Context, query string) (string, error)
}

var stockHTTP = &http.Client{Timeout: 15 * time.Second}

// Pexels queries the Pexels search API for one landscape photo.
type Pexels struct {
	APIKey  string
	BaseURL string
}

func (p *Pexels) Name() string { return "pexels" }

func (p *Pexels) Search(ctx context.Context, query string) (string, error) {
	if p.APIKey == "" {
		return "", fmt.Errorf("pexels API key not configured")
	}

	endpoint := fmt.Sprintf("%s/v1/search?query=%s&per_page=1&orientation=landscape",
		p.BaseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", p.APIKey)

	resp, err := stockHTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("pexels request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pexels API: status %d", resp.StatusCode)
	}

	var result struct {
		Photos []struct {
			Src struct {
				Large2x string `json:"large2x"`
			} `json:"src"`
		} `json:"photos"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("pexels decode: %w", err)
	}
	if len(result.Photos) == 0 {
		return "", nil
	}
	return result.Photos[0].Src.Large2x, nil
}

// Unsplash queries the Unsplash search API for one photo.
type Unsplash struct {
	AccessKey string
	BaseURL   string
}

func (u *Unsplash) Name() string { return "unsplash" }

func (u *Unsplash) Search(ctx context.Context, query string) (string, error) {
	if u.AccessKey == "" {
		return "", fmt.Errorf("unsplash access key not configured")
	}

	endpoint := fmt.Sprintf("%s/search/photos?query=%s&per_page=1&orientation=landscape",
		u.BaseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Client-ID "+u.AccessKey)

	resp, err := stockHTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("unsplash request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unsplash API: status %d", resp.StatusCode)
	}

	var result struct {
		Results []struct {
			URLs struct {
				Regular string `json:"regular"`
			} `json:"urls"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("unsplash decode: %w", err)
	}
	if len(result.Results) == 0 {
		return "", nil
	}
	return result.Results[0].URLs.Regular, nil
}
