// Package imageload defers fetching article and avatar images until their
// row has been on screen, then probes each image once for its format and
// dimensions.
package imageload

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/chai2010/webp"
	"github.com/samvad-hq/gladstart-reader/internal/domain"
	"github.com/samvad-hq/gladstart-reader/internal/logger"
	"github.com/samvad-hq/gladstart-reader/internal/viewport"
	"github.com/samvad-hq/gladstart-reader/pkg/httpclient"
)

// State is the lifecycle of one image.
type State int

const (
	Hidden State = iota
	Pending
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "hidden"
	}
}

// Result describes what the row should render for an image.
type Result struct {
	URL    string
	State  State
	Format string
	Width  int
	Height int
}

// Placeholder reports whether the placeholder asset should be rendered.
func (r Result) Placeholder() bool {
	return r.State == Failed
}

// Loader tracks every image the UI has referenced.
type Loader struct {
	http    httpclient.Client
	log     logger.Logger
	enabled bool
	seen    *viewport.Latch

	mu      sync.Mutex
	results map[string]Result
}

// NewLoader builds a loader. With probing disabled, revealed images are
// reported as loaded without any network traffic.
func NewLoader(client httpclient.Client, log logger.Logger, enabled bool) *Loader {
	if client == nil {
		client = httpclient.NewRestyClient(0)
	}
	return &Loader{
		http:    client,
		log:     logger.Ensure(log),
		enabled: enabled,
		seen:    viewport.NewLatch(),
		results: map[string]Result{},
	}
}

// Reveal marks src as having been on screen. It reports true exactly once,
// when the caller should schedule Load.
func (l *Loader) Reveal(src string) bool {
	src = strings.TrimSpace(src)
	if !l.seen.Mark(src) {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	switch {
	case src == "" || domain.IsPlaceholder(src) || !isRemote(src):
		l.results[src] = Result{URL: src, State: Failed}
		return false
	case !l.enabled:
		l.results[src] = Result{URL: src, State: Loaded}
		return false
	}
	l.results[src] = Result{URL: src, State: Pending}
	return true
}

// Status returns the current state of src; unseen images are Hidden.
func (l *Loader) Status(src string) Result {
	src = strings.TrimSpace(src)
	if !l.seen.Seen(src) {
		return Result{URL: src, State: Hidden}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if r, ok := l.results[src]; ok {
		return r
	}
	return Result{URL: src, State: Hidden}
}

// Load fetches src and records its dimensions. Any failure marks the image
// Failed so the placeholder is rendered instead.
func (l *Loader) Load(ctx context.Context, src string) Result {
	src = strings.TrimSpace(src)
	start := time.Now()

	res := Result{URL: src, State: Loaded}
	format, cfg, err := l.probe(ctx, src)
	if err != nil {
		res.State = Failed
		l.log.WarnObj("image load failed", "image_meta", map[string]any{
			"url":   src,
			"error": err.Error(),
		})
	} else {
		res.Format = format
		res.Width = cfg.Width
		res.Height = cfg.Height
		l.log.DebugObj("image loaded", "image_meta", map[string]any{
			"url":        src,
			"format":     format,
			"width":      cfg.Width,
			"height":     cfg.Height,
			"elapsed_ms": time.Since(start).Milliseconds(),
		})
	}

	l.mu.Lock()
	l.results[src] = res
	l.mu.Unlock()
	return res
}

// maxProbeBytes bounds how much of an image is read to find its header.
const maxProbeBytes = 512 << 10

func (l *Loader) probe(ctx context.Context, src string) (string, image.Config, error) {
	target := src
	if strings.HasPrefix(target, "//") {
		target = "https:" + target
	}
	headers := map[string]string{"Accept": "image/*"}

	if s, ok := l.http.(httpclient.Streamer); ok {
		resp, err := s.Stream(ctx, target, headers)
		if err != nil {
			return "", image.Config{}, fmt.Errorf("fetch image: %w", err)
		}
		defer resp.Close()
		if err := checkStatus(resp.StatusCode()); err != nil {
			return "", image.Config{}, err
		}
		return decodeConfig(io.LimitReader(resp.Body(), maxProbeBytes))
	}

	resp, err := l.http.Get(ctx, target, nil, headers)
	if err != nil {
		return "", image.Config{}, fmt.Errorf("fetch image: %w", err)
	}
	if err := checkStatus(resp.StatusCode()); err != nil {
		return "", image.Config{}, err
	}
	body := resp.Body()
	if len(body) > maxProbeBytes {
		body = body[:maxProbeBytes]
	}
	return decodeConfig(bytes.NewReader(body))
}

func checkStatus(code int) error {
	if code < http.StatusOK || code >= http.StatusMultipleChoices {
		return fmt.Errorf("fetch image: status %d", code)
	}
	return nil
}

func decodeConfig(r io.Reader) (string, image.Config, error) {
	br := bufio.NewReader(r)
	if head, _ := br.Peek(12); isWebP(head) {
		cfg, err := webp.DecodeConfig(br)
		if err != nil {
			return "", image.Config{}, fmt.Errorf("decode webp: %w", err)
		}
		return "webp", cfg, nil
	}
	cfg, format, err := image.DecodeConfig(br)
	if err != nil {
		return "", image.Config{}, fmt.Errorf("decode image: %w", err)
	}
	return format, cfg, nil
}

func isWebP(b []byte) bool {
	return len(b) >= 12 && string(b[0:4]) == "RIFF" && string(b[8:12]) == "WEBP"
}

func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") || strings.HasPrefix(src, "//")
}
