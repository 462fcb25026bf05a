//go:build js && wasm

// Command island is the browser side of a collection page. It reads the
// payload embedded by the renderer, drives a listing.Controller from the
// page controls and reconciles the server-rendered cards on every change.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"syscall/js"

	"github.com/lysyi3m/folio/app/dom"
	"github.com/lysyi3m/folio/app/listing"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	doc := document{v: js.Global().Get("document")}
	frames := animationFrames()

	for _, section := range doc.all("[data-folio-collection]") {
		name, _ := section.Attr("data-folio-collection")
		if err := mount(doc, frames, name); err != nil {
			slog.Warn("Failed to mount collection", "collection", name, "error", err)
		}
	}

	select {}
}

type collection struct {
	doc  document
	ctrl *listing.Controller
	rec  *dom.Reconciler
	// facet search terms keyed by facet
	search map[string]string
}

func mount(doc document, frames dom.FrameScheduler, name string) error {
	data, ok := doc.byID(name + "-data")
	if !ok {
		return fmt.Errorf("payload element %s-data not found", name)
	}

	var payload listing.Payload
	if err := json.Unmarshal([]byte(data.v.Get("textContent").String()), &payload); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}

	variant := payload.Variant
	c := &collection{
		doc:  doc,
		ctrl: listing.NewController(variant, payload.Cards),
		rec: dom.NewReconciler(doc, frames, dom.Options{
			ContainerSelector: variant.ContainerSelector,
			ItemSelector:      variant.ItemSelector,
			Normalize:         variant.NormalizeSlug,
			Logger:            slog.Default().With("collection", variant.Name),
		}),
		search: make(map[string]string),
	}

	c.bind()
	c.ctrl.Subscribe(c.apply)
	c.apply(c.ctrl.View())

	slog.Debug("Collection mounted", "collection", name, "cards", len(payload.Cards))
	return nil
}

func (c *collection) control(suffix string) (element, bool) {
	return c.doc.byID(c.ctrl.Variant().ControlID(suffix))
}

func (c *collection) bind() {
	if el, ok := c.control("year"); ok {
		el.on("change", func(js.Value) { c.ctrl.SetYear(el.value()) })
	}
	if el, ok := c.control("sort"); ok {
		el.on("change", func(js.Value) { c.ctrl.SetSort(listing.ParseSortOption(el.value())) })
	}
	if el, ok := c.control("per-page"); ok {
		el.on("change", func(js.Value) {
			if n, err := strconv.Atoi(el.value()); err == nil {
				c.ctrl.SetPageSize(n)
			}
		})
	}
	if el, ok := c.control("reset"); ok {
		el.on("click", func(js.Value) {
			for key := range c.search {
				if input, ok := c.control(key + "-search"); ok {
					input.setValue("")
				}
			}
			clear(c.search)
			c.ctrl.Reset()
		})
	}
	if el, ok := c.control("prev"); ok {
		el.on("click", func(js.Value) { c.ctrl.PrevPage() })
	}
	if el, ok := c.control("next"); ok {
		el.on("click", func(js.Value) { c.ctrl.NextPage() })
	}

	for _, f := range c.ctrl.Variant().Facets {
		c.bindFacet(f)
	}
}

func (c *collection) bindFacet(f listing.Facet) {
	key := f.Key

	toggle, hasToggle := c.control(key + "-toggle")
	panel, hasPanel := c.control(key + "-panel")
	if hasToggle && hasPanel {
		toggle.on("click", func(js.Value) {
			expanded, _ := toggle.Attr("aria-expanded")
			open := expanded != "true"
			toggle.SetAttr("aria-expanded", strconv.FormatBool(open))
			panel.setProp("hidden", !open)
		})
	}

	if search, ok := c.control(key + "-search"); ok {
		search.on("input", func(js.Value) {
			c.search[key] = search.value()
			c.applyFacet(f, c.ctrl.View())
		})
	}

	if options, ok := c.control(key + "-options"); ok {
		options.on("change", func(ev js.Value) {
			target := ev.Get("target")
			if target.Get("type").String() != "checkbox" {
				return
			}
			c.ctrl.ToggleFacet(key, target.Get("value").String())
		})
	}

	if clearBtn, ok := c.control(key + "-clear"); ok {
		clearBtn.on("click", func(js.Value) { c.ctrl.ClearFacet(key) })
	}
}

// apply mirrors a view into the page
func (c *collection) apply(view listing.View) {
	c.rec.Reconcile(view.Slugs)

	if el, ok := c.control("summary"); ok {
		el.setText(view.Summary)
	}
	if el, ok := c.control("page-summary"); ok {
		el.setText(view.PageSummary)
	}
	if el, ok := c.control("prev"); ok {
		el.setProp("disabled", !view.CanPrev)
	}
	if el, ok := c.control("next"); ok {
		el.setProp("disabled", !view.CanNext)
	}
	if el, ok := c.control("year"); ok {
		el.setValue(view.State.Year)
	}
	if el, ok := c.control("sort"); ok {
		el.setValue(string(view.State.Sort))
	}
	if el, ok := c.control("per-page"); ok {
		el.setValue(strconv.Itoa(view.PageSize))
	}

	for _, f := range c.ctrl.Variant().Facets {
		c.applyFacet(f, view)
	}
}

// applyFacet shows the options matching the facet's search term, refreshes
// their counts and checkboxes and updates the toggle caption
func (c *collection) applyFacet(f listing.Facet, view listing.View) {
	if toggle, ok := c.control(f.Key + "-toggle"); ok {
		toggle.setText(listing.ButtonLabel(f, view.State))
	}

	options, ok := c.control(f.Key + "-options")
	if !ok {
		return
	}

	counts := make(map[string]int)
	for _, opt := range listing.SearchFacets(view.FacetCounts[f.Key], c.search[f.Key]) {
		counts[opt.Name] = opt.Count
	}

	for _, node := range options.QuerySelectorAll("li[data-label]") {
		li := node.(element)
		label, _ := li.Attr("data-label")
		selected := view.State.IsSelected(f.Key, label)
		count, matched := counts[label]

		li.SetHidden(!matched && !selected)
		for _, box := range li.QuerySelectorAll("input[type=checkbox]") {
			box.(element).setProp("checked", selected)
		}
		for _, span := range li.QuerySelectorAll(".count") {
			span.(element).setText("(" + strconv.Itoa(count) + ")")
		}
	}
}
