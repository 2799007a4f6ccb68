package facebook

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPublishPhoto(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/page42/photos" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if r.Form.Get("url") == "" || r.Form.Get("caption") == "" || r.Form.Get("access_token") != "tok" {
			t.Errorf("incomplete form: %v", r.Form)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"42_777"}`)
	}))
	defer srv.Close()

	p := NewPoster("page42", "tok", "v18.0")
	p.SetBaseURL(srv.URL)

	id, err := p.PublishPhoto(context.Background(), "https://img.com/a.jpg", "caption text")
	if err != nil {
		t.Fatalf("PublishPhoto: %v", err)
	}
	if id != "42_777" {
		t.Errorf("wrong post id %q", id)
	}
}

func TestPublishPhotoGraphError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"Invalid OAuth access token","code":190}}`)
	}))
	defer srv.Close()

	p := NewPoster("page42", "bad", "v18.0")
	p.SetBaseURL(srv.URL)

	if _, err := p.PublishPhoto(context.Background(), "https://img.com/a.jpg", "caption"); err == nil {
		t.Fatal("expected graph error")
	}
}

func TestPublishPhotoRequiresImage(t *testing.T) {
	p := NewPoster("page42", "tok", "v18.0")
	if _, err := p.PublishPhoto(context.Background(), "", "caption"); err == nil {
		t.Fatal("text-only posts must be refused")
	}
}

func TestFetchInsights(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/42_777":
			fmt.Fprint(w, `{"id":"42_777","shares":{"count":3},
				"likes":{"summary":{"total_count":25}},
				"comments":{"summary":{"total_count":7}}}`)
		case "/42_777/insights":
			fmt.Fprint(w, `{"data":[
				{"name":"post_impressions","values":[{"value":900}]},
				{"name":"post_impressions_unique","values":[{"value":600}]},
				{"name":"post_engaged_users","values":[{"value":80}]},
				{"name":"post_clicks","values":[{"value":40}]}
			]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := NewPoster("page42", "tok", "v18.0")
	p.SetBaseURL(srv.URL)

	ins, err := p.FetchInsights(context.Background(), "42_777")
	if err != nil {
		t.Fatalf("FetchInsights: %v", err)
	}
	if ins.Reactions != 25 || ins.Comments != 7 || ins.Shares != 3 {
		t.Errorf("base counts wrong: %+v", ins)
	}
	if ins.Impressions != 900 || ins.Reach != 600 || ins.EngagedUsers != 80 || ins.Clicks != 40 {
		t.Errorf("insight metrics wrong: %+v", ins)
	}
}

func TestFetchInsightsWithoutInsightsPermission(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/42_777" {
			fmt.Fprint(w, `{"id":"42_777","likes":{"summary":{"total_count":5}}}`)
			return
		}
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"message":"no read_insights","code":200}}`)
	}))
	defer srv.Close()

	p := NewPoster("page42", "tok", "v18.0")
	p.SetBaseURL(srv.URL)

	ins, err := p.FetchInsights(context.Background(), "42_777")
	if err != nil {
		t.Fatalf("base counts should survive missing insights: %v", err)
	}
	if ins.Reactions != 5 || ins.Impressions != 0 {
		t.Errorf("unexpected insights: %+v", ins)
	}
}
