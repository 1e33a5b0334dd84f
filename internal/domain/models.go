package domain

import (
	"strings"
	"time"
)

// Domain contains the read-only records mirrored from the backend API.

const (
	ArticlePlaceholder = "/placeholder.svg?height=400&width=600"
	AvatarPlaceholder  = "/placeholder.svg?height=40&width=40"
)

type Source struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Topic struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Region struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Positivity    float64 `json:"positivity"`
	ArticlesCount int     `json:"articles_count"`
}

type Article struct {
	ID              int       `json:"id"`
	Title           string    `json:"title"`
	Summary         string    `json:"summary"`
	URL             string    `json:"url"`
	Image           string    `json:"image"`
	ImageURL        string    `json:"image_url"`
	Source          Source    `json:"source"`
	Region          *Region   `json:"region"`
	Topics          []Topic   `json:"topics"`
	PositivityScore float64   `json:"positivity_score"`
	PublishedDate   time.Time `json:"published_date"`
	CreatedAt       time.Time `json:"created_at"`
}

// ImageSource resolves which image the article should display. Uploaded
// images arrive as absolute URLs; image_url may be relative to the API host.
func (a Article) ImageSource(apiBaseURL string) string {
	if img := strings.TrimSpace(a.Image); img != "" {
		return img
	}
	raw := strings.TrimSpace(a.ImageURL)
	if raw == "" {
		return ArticlePlaceholder
	}
	if strings.HasPrefix(raw, "http") || strings.HasPrefix(raw, "//") {
		return raw
	}
	host := strings.TrimSuffix(strings.TrimRight(apiBaseURL, "/"), "/api")
	return host + raw
}

type UserPost struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Date      time.Time `json:"date"`
	Image     string    `json:"image"`
	Video     string    `json:"video"`
	Likes     int       `json:"likes"`
	Comments  int       `json:"comments"`
	Shares    int       `json:"shares"`
	CreatedAt time.Time `json:"created_at"`
}

// AvatarSource returns the avatar url or the small placeholder.
func (p UserPost) AvatarSource() string {
	if v := strings.TrimSpace(p.Avatar); v != "" {
		return v
	}
	return AvatarPlaceholder
}

// Page is the paginated collection envelope returned by every list endpoint.
type Page[T any] struct {
	Count   int     `json:"count,omitempty"`
	Next    *string `json:"next"`
	Results []T     `json:"results"`
}

// HasNext reports whether the backend advertised a further page.
func (p Page[T]) HasNext() bool {
	return p.Next != nil && strings.TrimSpace(*p.Next) != ""
}

// IsPlaceholder reports whether src is one of the static placeholder assets.
func IsPlaceholder(src string) bool {
	return strings.HasPrefix(src, "/placeholder.svg")
}
