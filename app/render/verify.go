package render

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/folio/app/card"
	"github.com/lysyi3m/folio/app/dom"
	"github.com/lysyi3m/folio/app/dom/htmltree"
	"github.com/lysyi3m/folio/app/listing"
)

// Drift is what Verify found wrong with a rendered collection page
type Drift struct {
	Report dom.Report
	// Extra lists rendered slugs that no visible card accounts for
	Extra []string
}

func (d Drift) Clean() bool {
	return len(d.Extra) == 0 && len(d.Report.Missing) == 0 && d.Report.GaveUpOn == ""
}

// Verify replays the browser island's first reconcile against a rendered
// page and reports slugs that are missing from, or unknown to, the markup.
func Verify(page []byte, variant listing.Variant, cards []card.Card, logger *slog.Logger) (Drift, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("collection", variant.Name)

	doc, err := htmltree.Parse(bytes.NewReader(page))
	if err != nil {
		return Drift{}, fmt.Errorf("failed to parse page: %w", err)
	}

	processed := variant.Pipeline().Process(cards, listing.DefaultFilterState())
	known := make(map[string]bool, len(processed))
	for _, c := range processed {
		known[variant.NormalizeSlug(c.Slug)] = true
	}

	var drift Drift
	for _, el := range doc.Find(variant.ContainerSelector + " " + variant.ItemSelector).EachIter() {
		slug := variant.NormalizeSlug(el.AttrOr(dom.DefaultSlugAttr, ""))
		if !known[slug] {
			logger.Warn("Rendered item has no matching card", "slug", slug)
			drift.Extra = append(drift.Extra, slug)
		}
	}

	if len(processed) == 0 {
		drift.Report = dom.Report{Applied: true}
		return drift, nil
	}

	view := listing.NewController(variant, cards).View()

	var queue dom.FrameQueue
	reconciler := dom.NewReconciler(doc, &queue, dom.Options{
		ContainerSelector: variant.ContainerSelector,
		ItemSelector:      variant.ItemSelector,
		Normalize:         variant.NormalizeSlug,
		Logger:            logger,
		OnSettled:         func(r dom.Report) { drift.Report = r },
	})
	reconciler.Reconcile(view.Slugs)
	queue.Drain(dom.DefaultContainerRetries + dom.DefaultItemRetries + 1)

	return drift, nil
}
