package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samvad-hq/gladstart-reader/internal/api"
	"github.com/samvad-hq/gladstart-reader/internal/domain"
	"github.com/samvad-hq/gladstart-reader/internal/logger"
)

// Tab identifies the top-level view.
type Tab string

const (
	TabFeed     Tab = "feed"
	TabUserFeed Tab = "userfeed"
	TabRegional Tab = "regional"
)

// Tabs lists the views in display order.
var Tabs = []Tab{TabFeed, TabUserFeed, TabRegional}

var ErrUnknownTab = errors.New("unknown tab")

// Backend is the subset of the API client the controller needs. Calls never
// fail; a failed request yields an empty page.
type Backend interface {
	Articles(ctx context.Context, q api.ArticleQuery) domain.Page[domain.Article]
	Regions(ctx context.Context) domain.Page[domain.Region]
	Topics(ctx context.Context) domain.Page[domain.Topic]
	Sources(ctx context.Context) domain.Page[domain.Source]
	UserPosts(ctx context.Context) domain.Page[domain.UserPost]
}

// State is everything the presentation layer renders.
type State struct {
	Tab Tab
	// Articles holds page 1 of the most recent filter application.
	Articles []domain.Article
	// Displayed holds every page loaded since then.
	Displayed      []domain.Article
	Regions        []domain.Region
	Topics         []domain.Topic
	Sources        []domain.Source
	UserPosts      []domain.UserPost
	Page           int
	Loading        bool
	HasMore        bool
	Filters        domain.FilterState
	SelectedRegion *domain.Region
}

// Controller owns client state and serializes every transition through
// explicit methods. The lock is never held across a backend call.
type Controller struct {
	backend Backend
	log     logger.Logger

	mu    sync.Mutex
	state State
	// generation increases with every filter application; responses from an
	// older generation are dropped.
	generation uint64
}

// NewController builds a controller with default filters on the feed tab.
func NewController(backend Backend, log logger.Logger) *Controller {
	return &Controller{
		backend: backend,
		log:     logger.Ensure(log),
		state: State{
			Tab:       TabFeed,
			Articles:  []domain.Article{},
			Displayed: []domain.Article{},
			Regions:   []domain.Region{},
			Topics:    []domain.Topic{},
			Sources:   []domain.Source{},
			UserPosts: []domain.UserPost{},
			Page:      1,
			HasMore:   true,
			Filters:   domain.DefaultFilters(),
		},
	}
}

// InitialLoad fetches the reference lists one after another and then page 1
// of articles for the current filters. Cancelling ctx aborts the remaining
// steps.
func (c *Controller) InitialLoad(ctx context.Context) error {
	start := time.Now()
	c.mu.Lock()
	c.state.Loading = true
	gen := c.generation
	c.mu.Unlock()

	steps := []struct {
		name string
		run  func()
	}{
		{"regions", func() {
			res := c.backend.Regions(ctx).Results
			c.update(func(s *State) { s.Regions = res })
		}},
		{"topics", func() {
			res := c.backend.Topics(ctx).Results
			c.update(func(s *State) { s.Topics = res })
		}},
		{"sources", func() {
			res := c.backend.Sources(ctx).Results
			c.update(func(s *State) { s.Sources = res })
		}},
		{"user posts", func() {
			res := c.backend.UserPosts(ctx).Results
			c.update(func(s *State) { s.UserPosts = res })
		}},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			c.finishAborted(gen)
			return fmt.Errorf("initial load aborted before %s: %w", step.name, err)
		}
		step.run()
	}
	if err := ctx.Err(); err != nil {
		c.finishAborted(gen)
		return fmt.Errorf("initial load aborted before articles: %w", err)
	}

	if err := c.ApplyFilters(ctx, c.Filters()); err != nil {
		return fmt.Errorf("initial load: %w", err)
	}

	snap := c.Snapshot()
	c.log.InfoObj("initial load completed", "load_meta", map[string]any{
		"regions":    len(snap.Regions),
		"topics":     len(snap.Topics),
		"sources":    len(snap.Sources),
		"user_posts": len(snap.UserPosts),
		"articles":   len(snap.Displayed),
		"has_more":   snap.HasMore,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

// Ticket identifies one filter application between Prepare and Fetch.
type Ticket struct {
	gen     uint64
	filters domain.FilterState
}

// Filters returns the filters the ticket will fetch.
func (t Ticket) Filters() domain.FilterState { return t.filters.Clone() }

// ApplyFilters stores f, fetches page 1 for it and replaces the displayed
// list. A response that arrives after a newer ApplyFilters started is
// discarded.
func (c *Controller) ApplyFilters(ctx context.Context, f domain.FilterState) error {
	return c.Fetch(ctx, c.Prepare(f))
}

// Prepare stores f and marks the request as the newest one without doing
// any I/O. Event loops call it synchronously so issue order, not goroutine
// scheduling, decides which response wins.
func (c *Controller) Prepare(f domain.FilterState) Ticket {
	f = f.Clone()
	return c.prepare(func(domain.FilterState) domain.FilterState { return f }, nil)
}

// PrepareToggleTopic flips name in the topic filter of the current state.
func (c *Controller) PrepareToggleTopic(name string) Ticket {
	return c.prepare(func(f domain.FilterState) domain.FilterState { return f.ToggleTopic(name) }, nil)
}

// PrepareToggleSource flips name in the source filter of the current state.
func (c *Controller) PrepareToggleSource(name string) Ticket {
	return c.prepare(func(f domain.FilterState) domain.FilterState { return f.ToggleSource(name) }, nil)
}

// PrepareRegion replaces the region filter; "all" or empty clears it.
func (c *Controller) PrepareRegion(name string) Ticket {
	return c.prepare(func(f domain.FilterState) domain.FilterState { return f.WithRegion(name) }, nil)
}

// PrepareMinScore replaces the positivity threshold.
func (c *Controller) PrepareMinScore(v float64) Ticket {
	return c.prepare(func(f domain.FilterState) domain.FilterState { return f.WithMinScore(v) }, nil)
}

// PrepareSelectRegion highlights r and filters to it.
func (c *Controller) PrepareSelectRegion(r domain.Region) Ticket {
	return c.prepare(
		func(f domain.FilterState) domain.FilterState { return f.WithRegion(r.Name) },
		func(s *State) { s.SelectedRegion = &r },
	)
}

// PrepareReset restores the default filters and clears the region selection.
func (c *Controller) PrepareReset() Ticket {
	return c.prepare(
		func(domain.FilterState) domain.FilterState { return domain.DefaultFilters() },
		func(s *State) { s.SelectedRegion = nil },
	)
}

// prepare derives the next filters from the current ones under a single lock,
// so two transitions issued back to back never read the same base state.
func (c *Controller) prepare(next func(domain.FilterState) domain.FilterState, also func(s *State)) Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := next(c.state.Filters.Clone())
	if also != nil {
		also(&c.state)
	}
	c.generation++
	c.state.Filters = f
	c.state.Loading = true
	return Ticket{gen: c.generation, filters: f.Clone()}
}

// Fetch performs the request prepared by t.
func (c *Controller) Fetch(ctx context.Context, t Ticket) error {
	page := c.backend.Articles(ctx, api.QueryFor(t.filters, 1))

	c.mu.Lock()
	defer c.mu.Unlock()
	if t.gen != c.generation {
		c.log.WarnObj("stale articles response discarded", "stale_meta", map[string]any{
			"generation": t.gen,
			"current":    c.generation,
			"page":       1,
		})
		return nil
	}
	c.state.Loading = false
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("apply filters: %w", err)
	}

	results := page.Results
	c.state.Articles = results
	c.state.Displayed = append([]domain.Article{}, results...)
	c.state.Page = 1
	c.state.HasMore = page.HasNext()

	c.log.InfoObj("filters applied", "filter_meta", map[string]any{
		"filters":  t.filters,
		"articles": len(results),
		"has_more": c.state.HasMore,
	})
	return nil
}

// LoadMore fetches the next page and appends it. It reports whether a fetch
// was issued; it is a no-op while a fetch is in flight or when no further
// pages exist.
func (c *Controller) LoadMore(ctx context.Context) bool {
	c.mu.Lock()
	if c.state.Loading || !c.state.HasMore {
		c.mu.Unlock()
		return false
	}
	c.state.Loading = true
	gen := c.generation
	next := c.state.Page + 1
	q := api.QueryFor(c.state.Filters, next)
	c.mu.Unlock()

	page := c.backend.Articles(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		c.log.WarnObj("stale articles response discarded", "stale_meta", map[string]any{
			"generation": gen,
			"current":    c.generation,
			"page":       next,
		})
		return true
	}
	c.state.Loading = false
	if ctx.Err() != nil {
		return true
	}

	c.state.Displayed = append(c.state.Displayed, page.Results...)
	c.state.Page = next
	c.state.HasMore = page.HasNext()

	c.log.DebugObj("more articles loaded", "page_meta", map[string]any{
		"page":      next,
		"appended":  len(page.Results),
		"displayed": len(c.state.Displayed),
		"has_more":  c.state.HasMore,
	})
	return true
}

// ToggleTopic flips membership of name in the topic filter and refetches.
func (c *Controller) ToggleTopic(ctx context.Context, name string) error {
	return c.Fetch(ctx, c.PrepareToggleTopic(name))
}

// ToggleSource flips membership of name in the source filter and refetches.
func (c *Controller) ToggleSource(ctx context.Context, name string) error {
	return c.Fetch(ctx, c.PrepareToggleSource(name))
}

// SetRegion replaces the region filter ("all" or empty clears it) and refetches.
func (c *Controller) SetRegion(ctx context.Context, name string) error {
	return c.Fetch(ctx, c.PrepareRegion(name))
}

// SetMinScore replaces the positivity threshold and refetches.
func (c *Controller) SetMinScore(ctx context.Context, v float64) error {
	return c.Fetch(ctx, c.PrepareMinScore(v))
}

// SelectRegion highlights r and filters the feed to it.
func (c *Controller) SelectRegion(ctx context.Context, r domain.Region) error {
	return c.Fetch(ctx, c.PrepareSelectRegion(r))
}

// Reset restores the default filters, clears the region selection and refetches.
func (c *Controller) Reset(ctx context.Context) error {
	return c.Fetch(ctx, c.PrepareReset())
}

// SwitchTab changes the active view. It never fetches: every tab renders
// lists loaded at startup.
func (c *Controller) SwitchTab(tab Tab) error {
	switch tab {
	case TabFeed, TabUserFeed, TabRegional:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTab, tab)
	}
	c.mu.Lock()
	c.state.Tab = tab
	c.mu.Unlock()
	return nil
}

// Filters returns a copy of the active filters.
func (c *Controller) Filters() domain.FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Filters.Clone()
}

// Snapshot returns a copy of the state safe to read without the lock.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Articles = append([]domain.Article{}, c.state.Articles...)
	s.Displayed = append([]domain.Article{}, c.state.Displayed...)
	s.Regions = append([]domain.Region{}, c.state.Regions...)
	s.Topics = append([]domain.Topic{}, c.state.Topics...)
	s.Sources = append([]domain.Source{}, c.state.Sources...)
	s.UserPosts = append([]domain.UserPost{}, c.state.UserPosts...)
	s.Filters = c.state.Filters.Clone()
	if c.state.SelectedRegion != nil {
		r := *c.state.SelectedRegion
		s.SelectedRegion = &r
	}
	return s
}

func (c *Controller) update(fn func(s *State)) {
	c.mu.Lock()
	fn(&c.state)
	c.mu.Unlock()
}

func (c *Controller) finishAborted(gen uint64) {
	c.mu.Lock()
	if gen == c.generation {
		c.state.Loading = false
	}
	c.mu.Unlock()
	c.log.WarnObj("initial load aborted", "reason", "context done")
}
