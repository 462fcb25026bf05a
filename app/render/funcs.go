package render

import (
	"html/template"
	"math"
	"strings"
	"time"

	"github.com/lysyi3m/folio/app/card"
	"github.com/lysyi3m/folio/app/listing"
)

func funcMap() template.FuncMap {
	return template.FuncMap{
		"controlID": func(v listing.Variant, suffix string) string { return v.ControlID(suffix) },
		"classOf":   classOf,
		"slugOf":    func(v listing.Variant, c card.Card) string { return v.NormalizeSlug(c.Slug) },
		"dateRange": DateRange,
		"labels":    labels,
		"lower":     strings.ToLower,
	}
}

// classOf turns a class selector such as ".project-grid" into the class name
func classOf(selector string) string {
	return strings.TrimPrefix(strings.TrimSpace(selector), ".")
}

// DateRange formats the dates of a card for display, e.g. "Mar 2020 – Present"
func DateRange(c card.Card) string {
	start, hasStart := displayDate(c.StartDate)
	end, hasEnd := displayDate(c.EndDate)
	if listing.IsOngoing(c.EndDate.Value()) || (!hasEnd && listing.IsOngoing(c.Date.Value())) {
		end, hasEnd = listing.PresentLabel, true
	}

	switch {
	case hasStart && hasEnd:
		return start + " – " + end
	case hasStart:
		return start
	case hasEnd:
		return end
	}

	if date, ok := displayDate(c.Date); ok {
		return date
	}
	return ""
}

func displayDate(d card.Date) (string, bool) {
	if listing.IsOngoing(d.Value()) {
		return listing.PresentLabel, true
	}
	ts := listing.ParseTimestamp(d.Value())
	if math.IsNaN(ts) || math.IsInf(ts, 0) {
		return "", false
	}
	return time.UnixMilli(int64(ts)).UTC().Format("Jan 2006"), true
}

// labels returns every label a card shows as a chip
func labels(c card.Card) []string {
	var out []string
	out = append(out, c.Languages...)
	out = append(out, c.Domains...)
	out = append(out, c.Tags...)
	return out
}
