package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/gladstart-reader/internal/domain"
	"github.com/samvad-hq/gladstart-reader/internal/logger"
	"github.com/samvad-hq/gladstart-reader/pkg/httpclient"
)

const (
	pathArticles = "/articles/"
	pathRegions  = "/regions/"
	pathTopics   = "/topics/"
	pathSources  = "/sources/"
	pathPosts    = "/posts/"
)

// Client talks to the GladStart REST API. None of its methods return an
// error: every failure is logged and turned into an empty result, so callers
// can treat each call as always succeeding.
type Client struct {
	baseURL string
	http    httpclient.Client
	log     logger.Logger
	newID   func() string
}

// NewClient builds an API client rooted at baseURL (e.g. http://localhost:8000/api).
func NewClient(baseURL string, client httpclient.Client, log logger.Logger) *Client {
	if client == nil {
		client = httpclient.NewRestyClient(0)
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    client,
		log:     logger.Ensure(log),
		newID:   uuid.NewString,
	}
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// Articles fetches one page of the article collection.
func (c *Client) Articles(ctx context.Context, q ArticleQuery) domain.Page[domain.Article] {
	var page domain.Page[domain.Article]
	if err := c.getJSON(ctx, "articles", pathArticles, q.Values(), &page); err != nil {
		return emptyPage[domain.Article]()
	}
	return normalize(page)
}

// Article fetches a single article; nil when missing or on any failure.
func (c *Client) Article(ctx context.Context, id int) *domain.Article {
	var art domain.Article
	path := pathArticles + strconv.Itoa(id) + "/"
	if err := c.getJSON(ctx, "article", path, nil, &art); err != nil {
		return nil
	}
	return &art
}

// Regions fetches every region with its aggregate positivity.
func (c *Client) Regions(ctx context.Context) domain.Page[domain.Region] {
	return fetchList[domain.Region](ctx, c, "regions", pathRegions)
}

// Topics fetches the topic vocabulary.
func (c *Client) Topics(ctx context.Context) domain.Page[domain.Topic] {
	return fetchList[domain.Topic](ctx, c, "topics", pathTopics)
}

// Sources fetches the news sources.
func (c *Client) Sources(ctx context.Context) domain.Page[domain.Source] {
	return fetchList[domain.Source](ctx, c, "sources", pathSources)
}

// UserPosts fetches the community posts.
func (c *Client) UserPosts(ctx context.Context) domain.Page[domain.UserPost] {
	return fetchList[domain.UserPost](ctx, c, "user posts", pathPosts)
}

func fetchList[T any](ctx context.Context, c *Client, resource, path string) domain.Page[T] {
	var page domain.Page[T]
	if err := c.getJSON(ctx, resource, path, nil, &page); err != nil {
		return emptyPage[T]()
	}
	return normalize(page)
}

// getJSON issues the request and decodes the body into out. The returned
// error has already been logged; callers only use it to pick the fallback.
func (c *Client) getJSON(ctx context.Context, resource, path string, query url.Values, out any) error {
	reqID := c.newID()
	target := c.baseURL + path
	start := time.Now()

	headers := map[string]string{
		"Accept":       "application/json",
		"X-Request-ID": reqID,
	}

	err := func() error {
		resp, err := c.http.Get(ctx, target, query, headers)
		if err != nil {
			return fmt.Errorf("http get: %w", err)
		}
		body := resp.Body()
		if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
			return fmt.Errorf("status %d body: %s", resp.StatusCode(), responseSnippet(body))
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode %s: %w", resource, err)
		}
		return nil
	}()

	meta := map[string]any{
		"resource":   resource,
		"url":        target,
		"query":      query.Encode(),
		"request_id": reqID,
		"elapsed_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		meta["error"] = err.Error()
		c.log.ErrorObj("error fetching "+resource, "api_error", meta)
		return err
	}
	c.log.DebugObj(resource+" fetched", "api_request", meta)
	return nil
}

func emptyPage[T any]() domain.Page[T] {
	return domain.Page[T]{Results: []T{}}
}

func normalize[T any](p domain.Page[T]) domain.Page[T] {
	if p.Results == nil {
		p.Results = []T{}
	}
	return p
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
