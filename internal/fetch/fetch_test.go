package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGetSetsBrowserHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "Chrome") {
			t.Errorf("expected browser UA, got %q", ua)
		}
		if al := r.Header.Get("Accept-Language"); !strings.HasPrefix(al, "fr-FR") {
			t.Errorf("expected french Accept-Language, got %q", al)
		}
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, 0, 1)
	body, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	body.Close()
}

func TestGetForbiddenIsPermanent(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, 0, 3)
	_, err := c.Get(context.Background(), srv.URL)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if calls != 1 {
		t.Errorf("403 should not be retried, got %d calls", calls)
	}
}

func TestGetRetriesServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, 0, 3)
	body, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get after retry: %v", err)
	}
	body.Close()
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		base string
		href string
		want string
	}{
		{"https://site.com/news/", "https://other.com/a", "https://other.com/a"},
		{"https://site.com/news/", "//cdn.com/pic.jpg", "https://cdn.com/pic.jpg"},
		{"https://site.com/news/", "/2026/03/story", "https://site.com/2026/03/story"},
		{"https://site.com/news/", "story.html", "https://site.com/news/story.html"},
		{"https://site.com/news/", "", ""},
	}
	for _, tt := range tests {
		if got := AbsoluteURL(tt.base, tt.href); got != tt.want {
			t.Errorf("AbsoluteURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
		}
	}
}

func TestOGImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head>
			<meta name="twitter:image" content="https://cdn.com/tw.jpg">
			<meta property="og:image" content="https://cdn.com/og.jpg">
		</head><body></body></html>`)
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, 0, 1)
	doc, err := c.Page(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if got := OGImage(doc); got != "https://cdn.com/og.jpg" {
		t.Errorf("og:image should win over twitter:image, got %q", got)
	}
}
