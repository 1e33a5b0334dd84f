package api

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/samvad-hq/gladstart-reader/internal/domain"
)

// Query parameter names understood by the articles endpoint.
const (
	ParamPage     = "page"
	ParamRegion   = "region__name"
	ParamTopics   = "topics__name"
	ParamSources  = "source__name"
	ParamMinScore = "min_score"
)

// ArticleQuery is one request against the articles collection.
type ArticleQuery struct {
	Page     int
	Region   string
	Topics   []string
	Sources  []string
	MinScore float64
}

// QueryFor translates filter state into the query for the given 1-based page.
func QueryFor(f domain.FilterState, page int) ArticleQuery {
	q := ArticleQuery{
		Page:     page,
		Topics:   append([]string(nil), f.Topics...),
		Sources:  append([]string(nil), f.Sources...),
		MinScore: f.MinScore,
	}
	if !f.AllRegionsSelected() {
		q.Region = f.Region
	}
	return q
}

// Values encodes the query. Default values are omitted rather than sent as
// wildcards.
func (q ArticleQuery) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set(ParamPage, strconv.Itoa(q.Page))
	}
	if r := strings.TrimSpace(q.Region); r != "" && r != domain.AllRegions {
		v.Set(ParamRegion, r)
	}
	if len(q.Topics) > 0 {
		v.Set(ParamTopics, strings.Join(q.Topics, ","))
	}
	if len(q.Sources) > 0 {
		v.Set(ParamSources, strings.Join(q.Sources, ","))
	}
	if q.MinScore > 0 {
		v.Set(ParamMinScore, strconv.FormatFloat(q.MinScore, 'f', -1, 64))
	}
	return v
}
