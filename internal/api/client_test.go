package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/samvad-hq/gladstart-reader/internal/domain"
	"github.com/samvad-hq/gladstart-reader/pkg/httpclient"
)

// recordingLogger captures error entries.
type recordingLogger struct {
	mu     sync.Mutex
	errors []string
}

func (r *recordingLogger) InfoObj(string, string, interface{})  {}
func (r *recordingLogger) DebugObj(string, string, interface{}) {}
func (r *recordingLogger) WarnObj(string, string, interface{})  {}
func (r *recordingLogger) ErrorObj(msg, _ string, _ interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

// failingHTTPClient always returns a transport error.
type failingHTTPClient struct{}

func (failingHTTPClient) Get(context.Context, string, url.Values, map[string]string) (httpclient.Response, error) {
	return nil, errors.New("connection refused")
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *recordingLogger) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	log := &recordingLogger{}
	return NewClient(srv.URL+"/api", httpclient.NewRestyClient(0), log), log
}

func TestArticlesSendsFilterQuery(t *testing.T) {
	var (
		mu  sync.Mutex
		got url.Values
	)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/articles/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Errorf("missing request id header")
		}
		mu.Lock()
		got = r.URL.Query()
		mu.Unlock()
		_, _ = w.Write([]byte(`{"next":null,"results":[{"id":7,"title":"Solceller på skolan","source":{"id":1,"name":"SVT"},"positivity_score":0.93}]}`))
	})

	f := domain.DefaultFilters().WithRegion("Stockholm").WithMinScore(0.9)
	page := client.Articles(context.Background(), QueryFor(f, 1))

	want := url.Values{"region__name": {"Stockholm"}, "min_score": {"0.9"}, "page": {"1"}}
	mu.Lock()
	defer mu.Unlock()
	if got.Encode() != want.Encode() {
		t.Fatalf("query = %s, want %s", got.Encode(), want.Encode())
	}
	if page.HasNext() {
		t.Fatalf("expected no next page")
	}
	if len(page.Results) != 1 || page.Results[0].ID != 7 {
		t.Fatalf("unexpected results %+v", page.Results)
	}
}

func TestArticlesJoinsTopicsAndSources(t *testing.T) {
	q := QueryFor(domain.DefaultFilters().ToggleTopic("Miljö").ToggleTopic("Hälsa").ToggleSource("SVT"), 3)
	v := q.Values()
	if v.Get(ParamTopics) != "Miljö,Hälsa" {
		t.Fatalf("topics = %q", v.Get(ParamTopics))
	}
	if v.Get(ParamSources) != "SVT" {
		t.Fatalf("sources = %q", v.Get(ParamSources))
	}
	if v.Get(ParamPage) != "3" || v.Get(ParamMinScore) != "0.7" {
		t.Fatalf("unexpected values %v", v)
	}
	if _, ok := v[ParamRegion]; ok {
		t.Fatalf("region must be omitted for all regions")
	}
}

func TestQueryOmitsZeroMinScore(t *testing.T) {
	v := ArticleQuery{Page: 1}.Values()
	if len(v) != 1 || v.Get(ParamPage) != "1" {
		t.Fatalf("expected only page, got %v", v)
	}
}

func TestTransportErrorsReturnEmptyDefaults(t *testing.T) {
	log := &recordingLogger{}
	client := NewClient("http://backend.invalid/api", failingHTTPClient{}, log)
	ctx := context.Background()

	if p := client.Articles(ctx, ArticleQuery{Page: 1}); p.Results == nil || len(p.Results) != 0 || p.HasNext() {
		t.Fatalf("articles fallback = %+v", p)
	}
	if a := client.Article(ctx, 3); a != nil {
		t.Fatalf("expected nil article, got %+v", a)
	}
	if p := client.Regions(ctx); p.Results == nil || len(p.Results) != 0 {
		t.Fatalf("regions fallback = %+v", p)
	}
	if p := client.Topics(ctx); p.Results == nil || len(p.Results) != 0 {
		t.Fatalf("topics fallback = %+v", p)
	}
	if p := client.Sources(ctx); p.Results == nil || len(p.Results) != 0 {
		t.Fatalf("sources fallback = %+v", p)
	}
	if p := client.UserPosts(ctx); p.Results == nil || len(p.Results) != 0 {
		t.Fatalf("posts fallback = %+v", p)
	}
	if len(log.errors) != 6 {
		t.Fatalf("expected 6 logged failures, got %d", len(log.errors))
	}
}

func TestServerErrorAndMalformedBodyReturnEmpty(t *testing.T) {
	var calls atomic.Int32
	client, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path == "/api/regions/" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"results": [`))
	})

	if p := client.Regions(context.Background()); len(p.Results) != 0 {
		t.Fatalf("expected empty regions, got %+v", p)
	}
	if p := client.Topics(context.Background()); len(p.Results) != 0 {
		t.Fatalf("expected empty topics, got %+v", p)
	}
	if calls.Load() != 2 || len(log.errors) != 2 {
		t.Fatalf("calls=%d errors=%d", calls.Load(), len(log.errors))
	}
}

func TestArticleLookup(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/articles/5/":
			_, _ = w.Write([]byte(`{"id":5,"title":"Bin återvänder","source":{"id":2,"name":"DN"}}`))
		default:
			http.NotFound(w, r)
		}
	})

	if a := client.Article(context.Background(), 5); a == nil || a.Title != "Bin återvänder" {
		t.Fatalf("unexpected article %+v", a)
	}
	if a := client.Article(context.Background(), 6); a != nil {
		t.Fatalf("expected nil for 404, got %+v", a)
	}
}

func TestMissingResultsKeyNormalizesToEmptySlice(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	if p := client.UserPosts(context.Background()); p.Results == nil {
		t.Fatalf("expected non-nil empty results")
	}
}
