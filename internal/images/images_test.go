package images

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/j3859/Africa-lens-bot/internal/fetch"
)

func testClient() *fetch.Client {
	return fetch.NewClient(5*time.Second, 0, 1)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain url untouched", "https://cdn.site.com/pic.jpg", "https://cdn.site.com/pic.jpg"},
		{"weserv proxy unwrapped", "https://images.weserv.nl/?url=https%3A%2F%2Fsite.com%2Fpic.jpg&w=600", "https://site.com/pic.jpg"},
		{"protocol relative", "//cdn.site.com/pic.jpg", "https://cdn.site.com/pic.jpg"},
		{"schemeless wp cdn", "i0.wp.com/site.com/pic.jpg", "https://i0.wp.com/site.com/pic.jpg"},
		{"empty stays empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsPlaceholder(t *testing.T) {
	if !IsPlaceholder("https://site.com/assets/logo.png") {
		t.Error("logo should be a placeholder")
	}
	if !IsPlaceholder("https://cdn.tuko.co.ke/images/thumb.jpg") {
		t.Error("known placeholder CDN should be rejected")
	}
	if IsPlaceholder("https://site.com/2026/03/photo.jpg") {
		t.Error("normal article photo flagged as placeholder")
	}
}

func TestValidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/good.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			w.Header().Set("Content-Length", "120000")
		case "/huge.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			w.Header().Set("Content-Length", fmt.Sprint(MaxImageBytes + 1))
		case "/page.html":
			w.Header().Set("Content-Type", "text/html")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	r := NewResolver(testClient())
	ctx := context.Background()

	if err := r.Validate(ctx, srv.URL+"/good.jpg"); err != nil {
		t.Errorf("valid jpeg rejected: %v", err)
	}
	if err := r.Validate(ctx, srv.URL+"/huge.jpg"); err == nil {
		t.Error("oversized image accepted")
	}
	if err := r.Validate(ctx, srv.URL+"/page.html"); err == nil {
		t.Error("html content type accepted as image")
	}
	if err := r.Validate(ctx, "data:image/png;base64,AAAA"); err == nil {
		t.Error("data URI accepted")
	}
}

func TestValidateHeadRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		if r.URL.Path == "/huge.jpg" {
			w.Header().Set("Content-Length", fmt.Sprint(MaxImageBytes + 1))
			return
		}
		w.Header().Set("Content-Length", "80000")
	}))
	defer srv.Close()

	r := NewResolver(testClient())
	ctx := context.Background()

	if err := r.Validate(ctx, srv.URL+"/ok.jpg"); err != nil {
		t.Errorf("GET fallback rejected a valid image: %v", err)
	}
	// the fallback must still see the full size, not a partial response
	if err := r.Validate(ctx, srv.URL+"/huge.jpg"); err == nil {
		t.Error("oversized image accepted through the GET fallback")
	}
}

func TestResolveFallsBackToStock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/article":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, `<html><head><title>x</title></head><body><p>no images here</p></body></html>`)
		case r.URL.Path == "/stock.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			w.Header().Set("Content-Length", "50000")
		case strings.HasPrefix(r.URL.Path, "/v1/search"):
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"photos":[{"src":{"large2x":"%s/stock.jpg"}}]}`, "http://"+r.Host)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	r := NewResolver(testClient(), &Pexels{APIKey: "k", BaseURL: srv.URL})

	got, err := r.Resolve(context.Background(), "", srv.URL+"/article", "drought in the sahel")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != srv.URL+"/stock.jpg" {
		t.Errorf("expected stock image, got %q", got)
	}
}

func TestResolvePrefersListImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", "9000")
	}))
	defer srv.Close()

	r := NewResolver(testClient())
	got, err := r.Resolve(context.Background(), srv.URL+"/list.png", "", "headline")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != srv.URL+"/list.png" {
		t.Errorf("expected list image, got %q", got)
	}
}

func TestResolveNoImage(t *testing.T) {
	r := NewResolver(testClient())
	_, err := r.Resolve(context.Background(), "", "", "headline")
	if err == nil {
		t.Fatal("expected ErrNoImage")
	}
}
