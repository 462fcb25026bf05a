package listing

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lysyi3m/folio/app/card"
)

// View is an immutable snapshot of a collection after a state change.
type View struct {
	Collection  string
	Slugs       []string
	Items       []card.Card
	Page        int
	TotalPages  int
	PageSize    int
	Count       int
	CanPrev     bool
	CanNext     bool
	State       FilterState
	Years       []string
	FacetCounts map[string][]FacetCount
	Summary     string
	PageSummary string
}

// Controller owns the filter and pagination state of one collection and
// recomputes its View eagerly after every mutation. It is not safe for
// concurrent use; callers drive it from a single event loop.
type Controller struct {
	variant  Variant
	pipeline *Pipeline
	cards    []card.Card
	years    []string
	state    FilterState
	pager    *Paginator
	view     View
	nextID   int
	subs     map[int]func(View)
}

func NewController(v Variant, cards []card.Card) *Controller {
	visible := make([]card.Card, 0, len(cards))
	for _, c := range cards {
		if !c.Draft {
			visible = append(visible, c)
		}
	}

	c := &Controller{
		variant:  v,
		pipeline: v.Pipeline(),
		cards:    slices.Clone(cards),
		years:    ExtractYears(visible),
		state:    DefaultFilterState(),
		pager:    NewPaginator(v.PageSize()),
		subs:     make(map[int]func(View)),
	}
	c.recompute()
	return c
}

func (c *Controller) Variant() Variant {
	return c.variant
}

func (c *Controller) View() View {
	return c.view
}

func (c *Controller) State() FilterState {
	return c.state.Clone()
}

// Subscribe registers fn for every future View and returns a function that
// removes it.
func (c *Controller) Subscribe(fn func(View)) func() {
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() { delete(c.subs, id) }
}

func (c *Controller) SetYear(year string) {
	c.updateFilters(func(s *FilterState) { s.Year = strings.TrimSpace(year) })
}

func (c *Controller) SetSort(opt SortOption) {
	c.updateFilters(func(s *FilterState) { s.Sort = opt })
}

// ToggleFacet adds label to the facet's selection or removes it if present.
func (c *Controller) ToggleFacet(key, label string) {
	c.updateFilters(func(s *FilterState) {
		selected := s.Facets[key]
		if i := slices.Index(selected, label); i >= 0 {
			selected = slices.Delete(slices.Clone(selected), i, i+1)
		} else {
			selected = append(slices.Clone(selected), label)
		}
		s.setFacet(key, selected)
	})
}

func (c *Controller) SetFacet(key string, labels []string) {
	c.updateFilters(func(s *FilterState) { s.setFacet(key, slices.Clone(labels)) })
}

func (c *Controller) ClearFacet(key string) {
	c.updateFilters(func(s *FilterState) { s.setFacet(key, nil) })
}

// Reset restores the default filters, sort and page size.
func (c *Controller) Reset() {
	c.state = DefaultFilterState()
	c.pager.SetPageSize(c.variant.PageSize())
	c.recompute()
}

func (c *Controller) SetPage(n int) {
	c.pager.SetPage(n)
	c.recompute()
}

func (c *Controller) NextPage() {
	c.pager.NextPage()
	c.recompute()
}

func (c *Controller) PrevPage() {
	c.pager.PrevPage()
	c.recompute()
}

func (c *Controller) SetPageSize(n int) {
	c.pager.SetPageSize(n)
	c.recompute()
}

// FacetOptions returns the current counts for a facet filtered by a search term.
func (c *Controller) FacetOptions(key, search string) []FacetCount {
	return SearchFacets(c.view.FacetCounts[key], search)
}

func (c *Controller) updateFilters(fn func(*FilterState)) {
	c.state = c.state.Clone()
	fn(&c.state)
	c.pager.SetPage(1)
	c.recompute()
}

func (c *Controller) recompute() {
	processed := c.pipeline.Process(c.cards, c.state)
	c.pager.SetCount(len(processed))

	page := Paginate(processed, c.pager.Page(), c.pager.PageSize())
	slugs := make([]string, len(page))
	for i, item := range page {
		slugs[i] = c.variant.NormalizeSlug(item.Slug)
	}

	counts := make(map[string][]FacetCount, len(c.variant.Facets))
	for _, f := range c.variant.Facets {
		counts[f.Key] = c.pipeline.FacetCounts(c.cards, f.Key, c.state)
	}

	c.view = View{
		Collection:  c.variant.Name,
		Slugs:       slugs,
		Items:       slices.Clone(page),
		Page:        c.pager.Page(),
		TotalPages:  c.pager.TotalPages(),
		PageSize:    c.pager.PageSize(),
		Count:       len(processed),
		CanPrev:     c.pager.CanPrev(),
		CanNext:     c.pager.CanNext(),
		State:       c.state.Clone(),
		Years:       c.years,
		FacetCounts: counts,
		Summary:     c.summary(),
		PageSummary: fmt.Sprintf("Page %d of %d", c.pager.Page(), c.pager.TotalPages()),
	}

	for _, id := range sortedIDs(c.subs) {
		c.subs[id](c.view)
	}
}

func (c *Controller) summary() string {
	var parts []string
	if c.state.Year != "" {
		parts = append(parts, "Year: "+c.state.Year)
	}
	for _, f := range c.variant.Facets {
		if selected := c.state.Facets[f.Key]; len(selected) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", f.Label, strings.Join(selected, ", ")))
		}
	}
	parts = append(parts,
		"Sorted: "+c.state.Sort.Label(),
		fmt.Sprintf("Per page: %d", c.pager.PageSize()),
		fmt.Sprintf("Page: %d of %d", c.pager.Page(), c.pager.TotalPages()),
	)
	return strings.Join(parts, "; ")
}

// ButtonLabel is the caption of a facet dropdown: the number of selected
// labels, or "All <label>" when nothing is selected.
func ButtonLabel(f Facet, state FilterState) string {
	if n := len(state.Facets[f.Key]); n > 0 {
		return fmt.Sprintf("%d selected", n)
	}
	return "All " + strings.ToLower(f.Label)
}

func (s *FilterState) setFacet(key string, labels []string) {
	if len(labels) == 0 {
		delete(s.Facets, key)
		return
	}
	if s.Facets == nil {
		s.Facets = make(map[string][]string)
	}
	s.Facets[key] = labels
}

func sortedIDs(m map[int]func(View)) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
