package listing

import (
	"maps"
	"slices"
	"strings"
)

type SortOption string

const (
	SortNewest SortOption = "date-desc"
	SortOldest SortOption = "date-asc"
)

// ParseSortOption accepts the select values used by the rendered controls
// and a few shorthands. Anything unrecognised means newest first.
func ParseSortOption(s string) SortOption {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "date-asc", "asc", "oldest":
		return SortOldest
	}
	return SortNewest
}

func (s SortOption) Direction() Direction {
	if s == SortOldest {
		return Asc
	}
	return Desc
}

func (s SortOption) Label() string {
	if s == SortOldest {
		return "Oldest first"
	}
	return "Newest first"
}

// FilterState is the user's current selection for one collection. An empty
// Year means every year; each Facets entry is an OR-group keyed by facet.
type FilterState struct {
	Year   string              `json:"year,omitempty"`
	Facets map[string][]string `json:"facets,omitempty"`
	Sort   SortOption          `json:"sort"`
}

func DefaultFilterState() FilterState {
	return FilterState{Sort: SortNewest}
}

func (s FilterState) Clone() FilterState {
	out := FilterState{Year: s.Year, Sort: s.Sort}
	if len(s.Facets) > 0 {
		out.Facets = make(map[string][]string, len(s.Facets))
		for key, labels := range s.Facets {
			out.Facets[key] = slices.Clone(labels)
		}
	}
	return out
}

func (s FilterState) Selected(key string) []string {
	return s.Facets[key]
}

func (s FilterState) IsSelected(key, label string) bool {
	return slices.Contains(s.Facets[key], label)
}

// IsDefault reports whether the state filters nothing and sorts newest first.
func (s FilterState) IsDefault() bool {
	if s.Year != "" || s.Sort.Direction() != Desc {
		return false
	}
	for _, labels := range s.Facets {
		if len(labels) > 0 {
			return false
		}
	}
	return true
}

func (s FilterState) activeKeys() []string {
	return slices.Sorted(maps.Keys(s.Facets))
}
