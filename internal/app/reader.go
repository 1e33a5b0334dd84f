package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samvad-hq/gladstart-reader/internal/api"
	"github.com/samvad-hq/gladstart-reader/internal/config"
	"github.com/samvad-hq/gladstart-reader/internal/domain"
	"github.com/samvad-hq/gladstart-reader/internal/features"
	"github.com/samvad-hq/gladstart-reader/internal/feed"
	"github.com/samvad-hq/gladstart-reader/internal/imageload"
	"github.com/samvad-hq/gladstart-reader/internal/logger"
	"github.com/samvad-hq/gladstart-reader/internal/present"
	"github.com/samvad-hq/gladstart-reader/internal/tui"
	"github.com/samvad-hq/gladstart-reader/pkg/httpclient"
)

// ErrArticleNotFound is returned when the backend has no article for an id.
var ErrArticleNotFound = errors.New("article not found")

// Reader is the client runtime. It wires configuration, the API client, the
// controller and the image loader, and drives either the TUI or a one-shot
// listing.
type Reader struct {
	cfg    *config.Config
	log    logger.Logger
	feats  features.Features
	api    *api.Client
	ctrl   *feed.Controller
	images *imageload.Loader
}

// FeedOptions selects what the headless listing prints.
type FeedOptions struct {
	Region   string
	Topics   []string
	Sources  []string
	MinScore float64
	Pages    int
	JSON     bool
}

// NewReader builds a reader runtime from config.
func NewReader(cfg *config.Config, log logger.Logger) (*Reader, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)

	feats, err := features.Load(cfg.FeaturesFile)
	if err != nil {
		return nil, fmt.Errorf("load features: %w", err)
	}
	log.InfoObj("features loaded", "features_meta", map[string]any{
		"file":            cfg.FeaturesFile,
		"region_select":   feats.RegionSelect,
		"coming_soon":     feats.ComingSoon,
		"newsletter":      feats.Newsletter,
		"video":           feats.Video,
		"topic_chips":     feats.TopicChips,
		"sidebar_regions": feats.SidebarRegions,
	})

	httpClient := httpclient.NewRestyClient(cfg.HTTPTimeout)
	client := api.NewClient(cfg.APIURL, httpClient, log)

	return &Reader{
		cfg:    cfg,
		log:    log,
		feats:  feats,
		api:    client,
		ctrl:   feed.NewController(client, log),
		images: imageload.NewLoader(httpClient, log, cfg.ImageProbe),
	}, nil
}

// Features returns the capability set in effect.
func (r *Reader) Features() features.Features { return r.feats }

// Run starts the interactive UI until the user quits or ctx ends.
func (r *Reader) Run(ctx context.Context) error {
	start := time.Now()
	r.log.InfoObj("reader starting", "reader_meta", map[string]any{
		"api_url":     r.cfg.APIURL,
		"image_probe": r.cfg.ImageProbe,
	})
	err := tui.Run(tui.Options{
		Context:       ctx,
		Controller:    r.ctrl,
		Images:        r.images,
		Features:      r.feats,
		APIBaseURL:    r.api.BaseURL(),
		NewsletterURL: r.cfg.NewsletterURL,
		Log:           r.log,
	})
	r.log.InfoObj("reader exiting", "reader_meta", map[string]any{
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return err
}

// Feed prints up to opts.Pages pages of articles matching the options.
func (r *Reader) Feed(ctx context.Context, opts FeedOptions, w io.Writer) error {
	f := domain.DefaultFilters().WithRegion(opts.Region)
	for _, t := range opts.Topics {
		if !f.HasTopic(t) {
			f = f.ToggleTopic(t)
		}
	}
	for _, s := range opts.Sources {
		if !f.HasSource(s) {
			f = f.ToggleSource(s)
		}
	}
	if opts.MinScore > 0 {
		f = f.WithMinScore(opts.MinScore)
	}
	pages := opts.Pages
	if pages < 1 {
		pages = 1
	}

	if err := r.ctrl.ApplyFilters(ctx, f); err != nil {
		return fmt.Errorf("fetch articles: %w", err)
	}
	for p := 1; p < pages; p++ {
		if !r.ctrl.LoadMore(ctx) {
			break
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("fetch articles: %w", err)
		}
	}

	snap := r.ctrl.Snapshot()
	r.log.InfoObj("feed listed", "feed_meta", map[string]any{
		"filters":  snap.Filters,
		"pages":    snap.Page,
		"articles": len(snap.Displayed),
		"has_more": snap.HasMore,
	})

	if opts.JSON {
		return writeJSON(w, snap.Displayed)
	}
	return writeArticleTable(w, snap.Displayed, snap.HasMore)
}

// Article prints a single article.
func (r *Reader) Article(ctx context.Context, id int, asJSON bool, w io.Writer) error {
	art := r.api.Article(ctx, id)
	if art == nil {
		return fmt.Errorf("%w: %d", ErrArticleNotFound, id)
	}
	if asJSON {
		return writeJSON(w, art)
	}

	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(art.Title),
		fmt.Sprintf("%s · %s · %s", art.Source.Name, present.Percent(art.PositivityScore), present.DateShort(art.PublishedDate)),
	}
	if art.Region != nil {
		lines = append(lines, "Landskap: "+art.Region.Name)
	}
	if len(art.Topics) > 0 {
		lines = append(lines, "Ämnen: "+strings.Join(domain.TopicNames(art.Topics), ", "))
	}
	lines = append(lines, "", present.PlainText(art.Summary), "", art.URL)
	_, err := io.WriteString(w, lipgloss.JoinVertical(lipgloss.Left, lines...)+"\n")
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeArticleTable(w io.Writer, articles []domain.Article, hasMore bool) error {
	if len(articles) == 0 {
		_, err := fmt.Fprintln(w, "Inga artiklar matchar dina filter. Prova att ändra dina filterval.")
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "POÄNG", "KÄLLA", "DATUM", "RUBRIK")
	for _, a := range articles {
		t.Row(
			strconv.Itoa(a.ID),
			present.Percent(a.PositivityScore),
			a.Source.Name,
			present.DateShort(a.PublishedDate),
			present.Truncate(a.Title, 60),
		)
	}
	footer := fmt.Sprintf("%d artiklar", len(articles))
	if !hasMore {
		footer += " · Inga fler artiklar att visa"
	}
	_, err := fmt.Fprintln(w, t.Render()+"\n"+footer)
	return err
}
