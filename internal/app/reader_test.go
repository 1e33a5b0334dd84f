package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samvad-hq/gladstart-reader/internal/config"
	"github.com/samvad-hq/gladstart-reader/internal/domain"
)

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/articles/":
			if got := r.URL.Query().Get("region__name"); got != "" && got != "Stockholm" {
				_, _ = w.Write([]byte(`{"next":null,"results":[]}`))
				return
			}
			switch r.URL.Query().Get("page") {
			case "1":
				_, _ = w.Write([]byte(`{"next":"http://x/api/articles/?page=2","results":[{"id":1,"title":"Solceller på skolan","url":"https://svt.se/1","source":{"id":1,"name":"SVT"},"positivity_score":0.93}]}`))
			case "2":
				_, _ = w.Write([]byte(`{"next":null,"results":[{"id":2,"title":"Bin återvänder","url":"https://dn.se/2","source":{"id":2,"name":"DN"},"positivity_score":0.81}]}`))
			default:
				_, _ = w.Write([]byte(`{"next":null,"results":[]}`))
			}
		case "/api/articles/1/":
			_, _ = w.Write([]byte(`{"id":1,"title":"Solceller på skolan","summary":"<p>Eleverna <b>producerar</b> el</p>","url":"https://svt.se/1","source":{"id":1,"name":"SVT"},"region":{"id":1,"name":"Stockholm"},"topics":[{"id":1,"name":"Miljö"}],"positivity_score":0.93}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	return &config.Config{
		APIURL:        apiURL,
		FeaturesFile:  filepath.Join(t.TempDir(), "missing.yaml"),
		NewsletterURL: config.DefaultNewsletterURL,
	}
}

func TestNewReaderRequiresConfig(t *testing.T) {
	if _, err := NewReader(nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestNewReaderRejectsBrokenFeaturesFile(t *testing.T) {
	cfg := testConfig(t, "http://localhost:8000/api")
	cfg.FeaturesFile = filepath.Join(t.TempDir(), "features.yaml")
	if err := os.WriteFile(cfg.FeaturesFile, []byte("features: ["), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewReader(cfg, nil); err == nil {
		t.Fatalf("expected features error")
	}
}

func TestFeedCollectsRequestedPages(t *testing.T) {
	srv := newAPIServer(t)
	r, err := NewReader(testConfig(t, srv.URL+"/api"), nil)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	var out bytes.Buffer
	if err := r.Feed(context.Background(), FeedOptions{Pages: 5, JSON: true}, &out); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	var got []domain.Article
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out.String())
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("unexpected articles %+v", got)
	}
}

func TestFeedTableAndFilters(t *testing.T) {
	srv := newAPIServer(t)
	r, err := NewReader(testConfig(t, srv.URL+"/api"), nil)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	var out bytes.Buffer
	if err := r.Feed(context.Background(), FeedOptions{Region: "Stockholm", MinScore: 0.9, Pages: 1}, &out); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "Solceller på skolan") || !strings.Contains(text, "+93%") || strings.Contains(text, "Bin återvänder") {
		t.Fatalf("unexpected table:\n%s", text)
	}
	if f := r.ctrl.Filters(); f.Region != "Stockholm" || f.MinScore != 0.9 {
		t.Fatalf("filters = %+v", f)
	}

	out.Reset()
	if err := r.Feed(context.Background(), FeedOptions{Region: "Gotland"}, &out); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if !strings.Contains(out.String(), "Inga artiklar matchar dina filter") {
		t.Fatalf("expected empty message, got %q", out.String())
	}
}

func TestArticleLookup(t *testing.T) {
	srv := newAPIServer(t)
	r, err := NewReader(testConfig(t, srv.URL+"/api"), nil)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	var out bytes.Buffer
	if err := r.Article(context.Background(), 1, false, &out); err != nil {
		t.Fatalf("Article: %v", err)
	}
	for _, want := range []string{"Solceller på skolan", "Eleverna producerar el", "Landskap: Stockholm", "Ämnen: Miljö", "https://svt.se/1"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, out.String())
		}
	}

	err = r.Article(context.Background(), 99, false, &out)
	if !errors.Is(err, ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound, got %v", err)
	}
}
