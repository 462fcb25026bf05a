package dom

import (
	"cmp"
	"log/slog"
	"strconv"
)

const (
	DefaultContainerRetries = 10
	DefaultItemRetries      = 20
	DefaultSlugAttr         = "data-slug"
)

type Options struct {
	ContainerSelector string
	ItemSelector      string
	SlugAttr          string
	Normalize         func(string) string
	ContainerRetries  int
	ItemRetries       int
	Logger            *slog.Logger
	// OnSettled is called once per Reconcile that is not superseded.
	OnSettled func(Report)
}

// Report describes how a reconcile pass ended.
type Report struct {
	Applied  bool
	Frames   int
	Visible  int
	Hidden   int
	Missing  []string
	GaveUpOn string
}

// Reconciler makes server-rendered markup match a computed list of visible
// slugs by toggling visibility and reordering nodes in place. It must be
// driven from one goroutine, as a browser event loop would.
type Reconciler struct {
	doc        Document
	frames     FrameScheduler
	opts       Options
	logger     *slog.Logger
	generation uint64
}

func NewReconciler(doc Document, frames FrameScheduler, opts Options) *Reconciler {
	if opts.ContainerRetries <= 0 {
		opts.ContainerRetries = DefaultContainerRetries
	}
	if opts.ItemRetries <= 0 {
		opts.ItemRetries = DefaultItemRetries
	}
	opts.SlugAttr = cmp.Or(opts.SlugAttr, DefaultSlugAttr)
	if opts.Normalize == nil {
		opts.Normalize = func(s string) string { return s }
	}

	return &Reconciler{
		doc:    doc,
		frames: frames,
		opts:   opts,
		logger: cmp.Or(opts.Logger, slog.Default()),
	}
}

// Reconcile applies visible, in order, to the container. When the container
// or its items are not in the tree yet it retries on later frames; a newer
// call cancels any retry still pending from an older one.
func (r *Reconciler) Reconcile(visible []string) {
	r.generation++

	slugs := make([]string, len(visible))
	for i, s := range visible {
		slugs[i] = r.opts.Normalize(s)
	}

	r.attempt(r.generation, slugs, 0, 0)
}

func (r *Reconciler) attempt(gen uint64, slugs []string, containerTries, itemTries int) {
	if gen != r.generation {
		return
	}
	frames := containerTries + itemTries

	container, ok := r.doc.QuerySelector(r.opts.ContainerSelector)
	if !ok {
		if containerTries < r.opts.ContainerRetries {
			r.frames.RequestFrame(func() { r.attempt(gen, slugs, containerTries+1, itemTries) })
			return
		}
		r.logger.Warn("Container not found, giving up", "selector", r.opts.ContainerSelector, "frames", frames)
		r.settle(Report{Frames: frames, GaveUpOn: r.opts.ContainerSelector})
		return
	}

	nodes := container.QuerySelectorAll(r.opts.ItemSelector)
	if len(nodes) == 0 && len(slugs) == 0 {
		// An empty collection renders no items and wants none shown.
		r.logger.Debug("Nothing to reconcile", "selector", r.opts.ItemSelector)
		r.settle(Report{Applied: true, Frames: frames})
		return
	}
	if len(nodes) == 0 {
		if itemTries < r.opts.ItemRetries {
			r.frames.RequestFrame(func() { r.attempt(gen, slugs, containerTries, itemTries+1) })
			return
		}
		r.logger.Warn("No items found, giving up", "selector", r.opts.ItemSelector, "frames", frames)
		r.settle(Report{Frames: frames, GaveUpOn: r.opts.ItemSelector})
		return
	}

	report := r.apply(container, nodes, slugs)
	report.Frames = frames
	r.settle(report)
}

func (r *Reconciler) apply(container Element, nodes []Element, slugs []string) Report {
	want := make(map[string]struct{}, len(slugs))
	for _, s := range slugs {
		want[s] = struct{}{}
	}

	var report Report
	bySlug := make(map[string]Element, len(nodes))
	for _, node := range nodes {
		raw, _ := node.Attr(r.opts.SlugAttr)
		slug := r.opts.Normalize(raw)
		if _, dup := bySlug[slug]; !dup {
			bySlug[slug] = node
		}

		_, show := want[slug]
		node.SetHidden(!show)
		node.SetAttr("aria-hidden", strconv.FormatBool(!show))
		if !show {
			report.Hidden++
		}
	}

	for _, slug := range slugs {
		node, ok := bySlug[slug]
		if !ok {
			r.logger.Warn("No node for slug", "slug", slug, "selector", r.opts.ItemSelector)
			report.Missing = append(report.Missing, slug)
			continue
		}
		container.AppendChild(node)
		report.Visible++
	}

	report.Applied = true
	return report
}

func (r *Reconciler) settle(report Report) {
	if r.opts.OnSettled != nil {
		r.opts.OnSettled(report)
	}
}
