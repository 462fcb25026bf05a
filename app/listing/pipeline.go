package listing

import (
	"slices"
	"strings"

	"github.com/lysyi3m/folio/app/card"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Pipeline filters and sorts one collection. It never mutates its input and
// returns the same output for the same cards and state.
type Pipeline struct {
	mode   Mode
	facets []Facet
	lang   language.Tag
}

func NewPipeline(mode Mode, facets ...Facet) *Pipeline {
	if mode != PreferStart {
		mode = PreferEnd
	}
	return &Pipeline{
		mode:   mode,
		facets: facets,
		lang:   language.English,
	}
}

// WithLanguage sets the collation used to order facet labels.
func (p *Pipeline) WithLanguage(tag language.Tag) *Pipeline {
	p.lang = tag
	return p
}

func (p *Pipeline) Mode() Mode {
	return p.mode
}

func (p *Pipeline) Facets() []Facet {
	return p.facets
}

// Facet returns the facet registered under key. Unregistered keys read the
// card field of the same name without normalization.
func (p *Pipeline) Facet(key string) Facet {
	for _, f := range p.facets {
		if f.Key == key {
			return f
		}
	}
	return Facet{Key: key, Field: key, Label: key}
}

// Process runs drafts, facet groups and the year filter in that order, then
// sorts by date in the state's direction. Equal dates fall back to slug order.
func (p *Pipeline) Process(cards []card.Card, state FilterState) []card.Card {
	out := p.filter(cards, state, "")

	dir := state.Sort.Direction()
	slices.SortStableFunc(out, func(a, b card.Card) int {
		if c := CompareByDate(a, b, dir, p.mode); c != 0 {
			return c
		}
		return strings.Compare(a.Slug, b.Slug)
	})
	return out
}

// FacetCounts tallies the labels of facet key over the cards that pass every
// other active filter. A card contributes at most once per label.
func (p *Pipeline) FacetCounts(cards []card.Card, key string, state FilterState) []FacetCount {
	f := p.Facet(key)

	counts := make(map[string]int)
	for _, c := range p.filter(cards, state, key) {
		for _, label := range f.Labels(c) {
			counts[label]++
		}
	}

	out := make([]FacetCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, FacetCount{Name: name, Count: n})
	}

	col := collate.New(p.lang)
	slices.SortFunc(out, func(a, b FacetCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return col.CompareString(a.Name, b.Name)
	})
	return out
}

func (p *Pipeline) filter(cards []card.Card, state FilterState, skip string) []card.Card {
	keys := state.activeKeys()

	out := make([]card.Card, 0, len(cards))
	for _, c := range cards {
		if c.Draft {
			continue
		}
		if !p.matchFacets(c, state, keys, skip) {
			continue
		}
		if state.Year != "" && !hasYear(c, state.Year) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (p *Pipeline) matchFacets(c card.Card, state FilterState, keys []string, skip string) bool {
	for _, key := range keys {
		selected := state.Facets[key]
		if key == skip || len(selected) == 0 {
			continue
		}
		labels := p.Facet(key).Labels(c)
		if !slices.ContainsFunc(labels, func(l string) bool { return slices.Contains(selected, l) }) {
			return false
		}
	}
	return true
}
