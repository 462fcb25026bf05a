package listing

import (
	"cmp"
	"slices"

	"github.com/lysyi3m/folio/app/card"
)

// Variant is the declarative description of one collection: how it sorts,
// which facets it offers, its page sizes and where its cards live in the page.
type Variant struct {
	Name              string    `json:"name"`
	Title             string    `json:"title"`
	Kind              card.Kind `json:"kind"`
	Mode              Mode      `json:"mode"`
	Years             bool      `json:"years"`
	Facets            []Facet   `json:"facets,omitempty"`
	PageSizes         []int     `json:"pageSizes"`
	DefaultPageSize   int       `json:"defaultPageSize"`
	ContainerSelector string    `json:"containerSelector"`
	ItemSelector      string    `json:"itemSelector"`
	SlugPrefix        string    `json:"slugPrefix,omitempty"`
}

// Payload is what a rendered collection page embeds for the browser island.
type Payload struct {
	Variant Variant     `json:"variant"`
	Cards   []card.Card `json:"cards"`
}

func (v Variant) Pipeline() *Pipeline {
	return NewPipeline(v.Mode, v.Facets...)
}

func (v Variant) NormalizeSlug(s string) string {
	return card.SlugNormalizer(v.SlugPrefix)(s)
}

// PageSize is the page size used initially and after a reset.
func (v Variant) PageSize() int {
	if v.DefaultPageSize > 0 {
		return v.DefaultPageSize
	}
	if len(v.PageSizes) > 0 {
		return v.PageSizes[0]
	}
	return 6
}

// PageSizeOptions returns the selectable sizes, always including the default.
func (v Variant) PageSizeOptions() []int {
	sizes := slices.Clone(v.PageSizes)
	if !slices.Contains(sizes, v.PageSize()) {
		sizes = append(sizes, v.PageSize())
	}
	slices.Sort(sizes)
	return slices.Compact(sizes)
}

// ControlID builds the element id of a per-collection control.
func (v Variant) ControlID(suffix string) string {
	return cmp.Or(v.Name, string(v.Kind)) + "-" + suffix
}

func LanguagesFacet() Facet {
	return Facet{
		Key:   "languages",
		Field: "programming_languages",
		Label: "Languages",
		Synonyms: map[string]string{
			"javascript": "JavaScript / TypeScript",
			"js":         "JavaScript / TypeScript",
			"typescript": "JavaScript / TypeScript",
		},
		Exclude: []string{"html", "css"},
	}
}

func DomainsFacet() Facet {
	return Facet{Key: "domains", Field: "domains", Label: "Domains"}
}

func TagsFacet() Facet {
	return Facet{Key: "tags", Field: "tags", Label: "Tags"}
}

func CompanyFacet() Facet {
	return Facet{Key: "company", Field: "company", Label: "Companies"}
}

func ProjectsVariant() Variant {
	return Variant{
		Name:              "projects",
		Title:             "Projects",
		Kind:              card.KindProject,
		Mode:              PreferStart,
		Years:             true,
		Facets:            []Facet{LanguagesFacet(), DomainsFacet()},
		PageSizes:         []int{6, 12, 24},
		DefaultPageSize:   6,
		ContainerSelector: ".project-grid",
		ItemSelector:      ".project-item",
	}
}

func ExperiencesVariant() Variant {
	return Variant{
		Name:              "experiences",
		Title:             "Experience",
		Kind:              card.KindExperience,
		Mode:              PreferEnd,
		Years:             true,
		Facets:            []Facet{CompanyFacet()},
		PageSizes:         []int{3, 6, 12, 24},
		DefaultPageSize:   6,
		ContainerSelector: ".experience-grid",
		ItemSelector:      ".experience-item",
	}
}

func PostsVariant() Variant {
	return Variant{
		Name:              "posts",
		Title:             "Posts",
		Kind:              card.KindPost,
		Mode:              PreferEnd,
		Facets:            []Facet{TagsFacet()},
		PageSizes:         []int{5, 10, 20},
		DefaultPageSize:   5,
		ContainerSelector: ".post-list",
		ItemSelector:      ".post-item",
		SlugPrefix:        "posts",
	}
}
