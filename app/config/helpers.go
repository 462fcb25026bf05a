package config

import (
	"cmp"
	"strings"
	"time"

	"github.com/lysyi3m/folio/app/card"
	"github.com/lysyi3m/folio/app/listing"
)

// GetTimeout returns the source timeout as time.Duration
func (c *Collection) GetTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}

// Variant converts the collection into the listing description used by
// the controller, the renderer and the browser island.
func (c *Collection) Variant() listing.Variant {
	facets := make([]listing.Facet, 0, len(c.Facets))
	for _, f := range c.Facets {
		facets = append(facets, f.listingFacet())
	}

	return listing.Variant{
		Name:              c.Name,
		Title:             c.Title,
		Kind:              c.Kind,
		Mode:              c.Mode,
		Years:             c.Years != nil && *c.Years,
		Facets:            facets,
		PageSizes:         c.PageSizes,
		DefaultPageSize:   c.DefaultPageSize,
		ContainerSelector: c.Container,
		ItemSelector:      c.Item,
		SlugPrefix:        c.SlugPrefix,
	}
}

// Collection returns the collection with the given name, or nil
func (s *SiteConfig) Collection(name string) *Collection {
	for i := range s.Collections {
		if s.Collections[i].Name == name {
			return &s.Collections[i]
		}
	}
	return nil
}

func (f Facet) listingFacet() listing.Facet {
	out := listing.Facet{
		Key:   f.Key,
		Field: cmp.Or(f.Field, f.Key),
		Label: f.Label,
	}

	if len(f.Synonyms) > 0 {
		out.Synonyms = make(map[string]string)
		for canonical, aliases := range f.Synonyms {
			for _, alias := range aliases {
				out.Synonyms[strings.ToLower(strings.TrimSpace(alias))] = canonical
			}
		}
	}
	for _, label := range f.Exclude {
		out.Exclude = append(out.Exclude, strings.ToLower(strings.TrimSpace(label)))
	}

	return out
}

func facetFromListing(f listing.Facet) Facet {
	out := Facet{Key: f.Key, Field: f.Field, Label: f.Label, Exclude: f.Exclude}
	if len(f.Synonyms) > 0 {
		out.Synonyms = make(map[string][]string)
		for alias, canonical := range f.Synonyms {
			out.Synonyms[canonical] = append(out.Synonyms[canonical], alias)
		}
	}
	return out
}

func baseVariant(kind card.Kind) listing.Variant {
	switch kind {
	case card.KindExperience:
		return listing.ExperiencesVariant()
	case card.KindPost:
		return listing.PostsVariant()
	default:
		return listing.ProjectsVariant()
	}
}
