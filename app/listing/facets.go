package listing

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/lysyi3m/folio/app/card"
)

// Facet describes one filter group. Field names the card label set it reads;
// Synonyms map a lower-cased raw label onto its canonical display label and
// Exclude lists lower-cased labels dropped entirely. The same normalization
// applies when counting and when matching a selection.
type Facet struct {
	Key      string            `json:"key"`
	Field    string            `json:"field"`
	Label    string            `json:"label"`
	Synonyms map[string]string `json:"synonyms,omitempty"`
	Exclude  []string          `json:"exclude,omitempty"`
}

// Normalize maps a raw label to its canonical form, reporting false when the
// label is excluded or blank.
func (f Facet) Normalize(label string) (string, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", false
	}
	lower := strings.ToLower(label)
	if slices.Contains(f.Exclude, lower) {
		return "", false
	}
	if canonical, ok := f.Synonyms[lower]; ok {
		return canonical, true
	}
	return label, true
}

// Labels returns the distinct normalized labels a card carries for this facet,
// in authored order.
func (f Facet) Labels(c card.Card) []string {
	raw := c.Labels(cmp.Or(f.Field, f.Key))
	if len(raw) == 0 {
		return nil
	}

	out := make([]string, 0, len(raw))
	for _, label := range raw {
		if normalized, ok := f.Normalize(label); ok && !slices.Contains(out, normalized) {
			out = append(out, normalized)
		}
	}
	return out
}

type FacetCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SearchFacets keeps the options whose name contains term, ignoring case.
func SearchFacets(counts []FacetCount, term string) []FacetCount {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return counts
	}

	out := make([]FacetCount, 0, len(counts))
	for _, fc := range counts {
		if strings.Contains(strings.ToLower(fc.Name), term) {
			out = append(out, fc)
		}
	}
	return out
}

// ExtractYears lists every year any card touches through Date, StartDate or
// EndDate. "Present" comes first, then years newest to oldest.
func ExtractYears(cards []card.Card) []string {
	seen := make(map[string]struct{})
	for _, c := range cards {
		for _, y := range cardYears(c) {
			seen[y] = struct{}{}
		}
	}

	years := make([]string, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	slices.SortFunc(years, compareYears)
	return years
}

func compareYears(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == PresentLabel:
		return -1
	case b == PresentLabel:
		return 1
	}
	ai, _ := strconv.Atoi(a)
	bi, _ := strconv.Atoi(b)
	return cmp.Compare(bi, ai)
}

func cardYears(c card.Card) []string {
	var years []string
	for _, d := range []card.Date{c.StartDate, c.EndDate, c.Date} {
		if d.IsZero() {
			continue
		}
		if IsOngoing(d) {
			years = append(years, PresentLabel)
			continue
		}
		if t, ok := parseTime(d); ok {
			years = append(years, strconv.Itoa(t.Year()))
		}
	}
	return years
}

func hasYear(c card.Card, year string) bool {
	return slices.Contains(cardYears(c), year)
}
