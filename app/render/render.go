package render

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/lysyi3m/folio/app/card"
	"github.com/lysyi3m/folio/app/config"
	"github.com/lysyi3m/folio/app/listing"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageCollection = "collection"
	pageDetail     = "detail"
	pageIndex      = "index"
)

// Renderer turns collections into static HTML pages
type Renderer struct {
	site  *config.SiteConfig
	pages map[string]*template.Template
}

type facetPanel struct {
	Facet       listing.Facet
	ID          string
	ButtonLabel string
	Options     []listing.FacetCount
}

type collectionPage struct {
	Site    *config.SiteConfig
	Title   string
	Island  bool
	Variant listing.Variant
	View    listing.View
	Cards   []card.Card
	Facets  []facetPanel
	Payload template.JS
}

type detailPage struct {
	Site       *config.SiteConfig
	Title      string
	Island     bool
	Collection config.Collection
	Card       card.Card
	Body       template.HTML
}

type indexSection struct {
	Collection config.Collection
	Latest     []card.Card
}

type indexPage struct {
	Site     *config.SiteConfig
	Title    string
	Island   bool
	Sections []indexSection
}

func NewRenderer(site *config.SiteConfig) (*Renderer, error) {
	r := &Renderer{
		site:  site,
		pages: make(map[string]*template.Template),
	}

	for _, name := range []string{pageCollection, pageDetail, pageIndex} {
		tmpl, err := template.New(name).Funcs(funcMap()).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		r.pages[name] = tmpl
	}

	return r, nil
}

// Collection renders the list page of a collection. The markup carries every
// non-draft card in default order; the embedded payload lets the browser
// island take over filtering and pagination.
func (r *Renderer) Collection(coll config.Collection, cards []card.Card) ([]byte, error) {
	variant := coll.Variant()
	controller := listing.NewController(variant, cards)
	view := controller.View()

	published := make([]card.Card, 0, len(cards))
	for _, c := range cards {
		if !c.Draft {
			published = append(published, c)
		}
	}

	payload, err := json.Marshal(listing.Payload{Variant: variant, Cards: published})
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	page := collectionPage{
		Site:    r.site,
		Title:   variant.Title,
		Island:  true,
		Variant: variant,
		View:    view,
		Cards:   variant.Pipeline().Process(cards, listing.DefaultFilterState()),
		Payload: template.JS(payload),
	}

	for _, f := range variant.Facets {
		page.Facets = append(page.Facets, facetPanel{
			Facet:       f,
			ID:          variant.ControlID(f.Key),
			ButtonLabel: listing.ButtonLabel(f, view.State),
			Options:     view.FacetCounts[f.Key],
		})
	}

	return r.execute(pageCollection, page)
}

// Detail renders the page of a single card
func (r *Renderer) Detail(coll config.Collection, c card.Card) ([]byte, error) {
	return r.execute(pageDetail, detailPage{
		Site:       r.site,
		Title:      c.Title,
		Collection: coll,
		Card:       c,
		Body:       template.HTML(c.Body),
	})
}

// Index renders the home page with the newest cards of each collection
func (r *Renderer) Index(collections map[string][]card.Card, latest int) ([]byte, error) {
	page := indexPage{Site: r.site}

	for _, coll := range r.site.Collections {
		items := coll.Variant().Pipeline().Process(collections[coll.Name], listing.DefaultFilterState())
		if latest > 0 && len(items) > latest {
			items = items[:latest]
		}
		page.Sections = append(page.Sections, indexSection{Collection: coll, Latest: items})
	}

	return r.execute(pageIndex, page)
}

func (r *Renderer) execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("failed to render %s page: %w", name, err)
	}
	return buf.Bytes(), nil
}
