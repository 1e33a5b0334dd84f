package httpclient

import (
	"context"
	"io"
	"net/url"
)

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// StreamResponse exposes the unread body. Callers must Close it.
type StreamResponse interface {
	StatusCode() int
	Body() io.Reader
	Close() error
}

// Streamer is implemented by clients that can hand back a body without
// buffering it, so callers may stop reading early.
type Streamer interface {
	Stream(ctx context.Context, url string, headers map[string]string) (StreamResponse, error)
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, url string, query url.Values, headers map[string]string) (Response, error)
}
