package domain

import "sort"

// SidebarRegionCount is how many regions the feed sidebar shows.
const SidebarRegionCount = 6

// TopRegions returns up to n regions ordered by positivity, highest first.
// The input slice is left untouched.
func TopRegions(regions []Region, n int) []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Positivity > out[j].Positivity
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// RegionByName finds a region in the loaded list.
func RegionByName(regions []Region, name string) (Region, bool) {
	for _, r := range regions {
		if r.Name == name {
			return r, true
		}
	}
	return Region{}, false
}

// TopicNames flattens the topic vocabulary.
func TopicNames(topics []Topic) []string {
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		out = append(out, t.Name)
	}
	return out
}

// SourceNames flattens the source vocabulary.
func SourceNames(sources []Source) []string {
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		out = append(out, s.Name)
	}
	return out
}
