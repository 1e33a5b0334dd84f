package domain

import "math"

const (
	AllRegions      = "all"
	DefaultMinScore = 0.7
	MinScoreFloor   = 0.5
	MinScoreCeil    = 1.0
	MinScoreStep    = 0.05
)

// FilterState is the client-held filter selection translated into backend
// query parameters. Topics and Sources have set semantics; order carries no
// meaning.
type FilterState struct {
	Region   string   `json:"region"`
	Topics   []string `json:"topics"`
	Sources  []string `json:"sources"`
	MinScore float64  `json:"min_score"`
}

// DefaultFilters returns {region: all, topics: [], sources: [], minScore: 0.7}.
func DefaultFilters() FilterState {
	return FilterState{
		Region:   AllRegions,
		Topics:   []string{},
		Sources:  []string{},
		MinScore: DefaultMinScore,
	}
}

// Clone returns a copy that shares no backing arrays with f.
func (f FilterState) Clone() FilterState {
	out := f
	out.Topics = append([]string{}, f.Topics...)
	out.Sources = append([]string{}, f.Sources...)
	return out
}

func (f FilterState) ToggleTopic(name string) FilterState {
	out := f.Clone()
	out.Topics = toggle(out.Topics, name)
	return out
}

func (f FilterState) ToggleSource(name string) FilterState {
	out := f.Clone()
	out.Sources = toggle(out.Sources, name)
	return out
}

// WithRegion replaces the region; an empty name means all regions.
func (f FilterState) WithRegion(name string) FilterState {
	out := f.Clone()
	if name == "" {
		name = AllRegions
	}
	out.Region = name
	return out
}

// WithMinScore replaces the threshold, clamped to [0.5, 1.0] and rounded to
// the slider step.
func (f FilterState) WithMinScore(v float64) FilterState {
	out := f.Clone()
	out.MinScore = ClampScore(v)
	return out
}

func (f FilterState) HasTopic(name string) bool  { return indexOf(f.Topics, name) >= 0 }
func (f FilterState) HasSource(name string) bool { return indexOf(f.Sources, name) >= 0 }

// AllRegionsSelected reports whether no region restriction is active.
func (f FilterState) AllRegionsSelected() bool {
	return f.Region == "" || f.Region == AllRegions
}

// Equal compares filter states using set semantics for topics and sources.
func (f FilterState) Equal(o FilterState) bool {
	if f.Region != o.Region || f.MinScore != o.MinScore {
		return false
	}
	return sameSet(f.Topics, o.Topics) && sameSet(f.Sources, o.Sources)
}

// ClampScore bounds v to the slider range and snaps it to the slider step.
func ClampScore(v float64) float64 {
	if math.IsNaN(v) || v < MinScoreFloor {
		v = MinScoreFloor
	}
	if v > MinScoreCeil {
		v = MinScoreCeil
	}
	steps := math.Round(1 / MinScoreStep)
	return math.Round(v*steps) / steps
}

// OnScoreStep reports whether v is a value the slider can take without
// rounding.
func OnScoreStep(v float64) bool {
	return v >= MinScoreFloor && v <= MinScoreCeil && math.Abs(ClampScore(v)-v) < 1e-9
}

func toggle(values []string, v string) []string {
	if i := indexOf(values, v); i >= 0 {
		return append(values[:i], values[i+1:]...)
	}
	return append(values, v)
}

func indexOf(values []string, v string) int {
	for i, s := range values {
		if s == v {
			return i
		}
	}
	return -1
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, v := range a {
		seen[v]++
	}
	for _, v := range b {
		if seen[v] == 0 {
			return false
		}
		seen[v]--
	}
	return true
}
