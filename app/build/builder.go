package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lysyi3m/folio/app/card"
	"github.com/lysyi3m/folio/app/config"
	"github.com/lysyi3m/folio/app/content"
	"github.com/lysyi3m/folio/app/database"
	"github.com/lysyi3m/folio/app/feed"
	"github.com/lysyi3m/folio/app/render"
)

const indexLatest = 3

type Options struct {
	OutputDir string
	StaticDir string
	BaseURL   string
	Deps      content.Deps
	// Repo receives a snapshot of every loaded collection when set
	Repo database.CardRepositoryInterface
}

// Result summarises one build
type Result struct {
	Cards    map[string]int
	Pages    int
	Drift    map[string]render.Drift
	Duration time.Duration
}

// Builder loads every collection of a site and writes the static output.
// Builds are serialized.
type Builder struct {
	mu        sync.Mutex
	site      *config.SiteConfig
	opts      Options
	sources   map[string]content.Source
	renderer  *render.Renderer
	generator *feed.Generator
}

func NewBuilder(site *config.SiteConfig, opts Options) (*Builder, error) {
	if opts.Deps.Store == nil && opts.Repo != nil {
		opts.Deps.Store = opts.Repo
	}

	sources := make(map[string]content.Source, len(site.Collections))
	for _, coll := range site.Collections {
		src, err := content.Open(coll, opts.Deps)
		if err != nil {
			return nil, fmt.Errorf("failed to open source for %s: %w", coll.Name, err)
		}
		sources[coll.Name] = src
	}

	renderer, err := render.NewRenderer(site)
	if err != nil {
		return nil, err
	}

	return &Builder{
		site:      site,
		opts:      opts,
		sources:   sources,
		renderer:  renderer,
		generator: feed.NewGenerator(),
	}, nil
}

func (b *Builder) Site() *config.SiteConfig {
	return b.site
}

// Load reads every collection from its source. A collection whose source
// fails falls back to the last stored snapshot when one exists.
func (b *Builder) Load(ctx context.Context) (map[string][]card.Card, error) {
	out := make(map[string][]card.Card, len(b.site.Collections))
	for _, coll := range b.site.Collections {
		cards, err := b.LoadCollection(ctx, coll.Name)
		if err != nil {
			return nil, err
		}
		out[coll.Name] = cards
	}
	return out, nil
}

func (b *Builder) LoadCollection(ctx context.Context, name string) ([]card.Card, error) {
	src, ok := b.sources[name]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", name)
	}

	cards, err := src.Load(ctx)
	if err == nil {
		return cards, nil
	}

	coll := b.site.Collection(name)
	if b.opts.Repo == nil || coll.Source == config.SourceDB {
		return nil, fmt.Errorf("failed to load collection %s: %w", name, err)
	}

	stored, repoErr := b.opts.Repo.Cards(ctx, name)
	if repoErr != nil || len(stored) == 0 {
		return nil, fmt.Errorf("failed to load collection %s: %w", name, err)
	}

	slog.Warn("Source failed, using stored snapshot", "collection", name, "cards", len(stored), "error", err)
	return stored, nil
}

// Sync loads every collection and stores it in the snapshot repository
func (b *Builder) Sync(ctx context.Context) (map[string][]card.Card, error) {
	collections, err := b.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := b.snapshot(ctx, collections); err != nil {
		return nil, err
	}
	return collections, nil
}

func (b *Builder) snapshot(ctx context.Context, collections map[string][]card.Card) error {
	if b.opts.Repo == nil {
		return nil
	}
	for _, coll := range b.site.Collections {
		if coll.Source == config.SourceDB {
			continue
		}
		if err := b.opts.Repo.ReplaceCollection(ctx, coll.Name, coll.Kind, collections[coll.Name]); err != nil {
			return fmt.Errorf("failed to store collection %s: %w", coll.Name, err)
		}
	}
	return nil
}

// Build loads, snapshots, renders and verifies the whole site
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	result, err := b.build(ctx)
	observe(result, err)
	return result, err
}

func (b *Builder) build(ctx context.Context) (*Result, error) {
	start := time.Now()

	collections, err := b.Sync(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Cards: make(map[string]int, len(collections)),
		Drift: make(map[string]render.Drift),
	}

	for _, coll := range b.site.Collections {
		cards := collections[coll.Name]
		result.Cards[coll.Name] = len(cards)

		pages, err := b.writeCollection(coll, cards, result)
		if err != nil {
			return nil, err
		}
		result.Pages += pages
	}

	index, err := b.renderer.Index(collections, indexLatest)
	if err != nil {
		return nil, err
	}
	if err := b.write("index.html", index); err != nil {
		return nil, err
	}
	result.Pages++

	if err := b.copyStatic(); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)

	slog.Info("Site built",
		"output", b.opts.OutputDir,
		"collections", len(collections),
		"pages", result.Pages,
		"drift", len(result.Drift),
		"duration", result.Duration)

	return result, nil
}

func (b *Builder) writeCollection(coll config.Collection, cards []card.Card, result *Result) (int, error) {
	page, err := b.renderer.Collection(coll, cards)
	if err != nil {
		return 0, err
	}

	drift, err := render.Verify(page, coll.Variant(), cards, slog.Default())
	if err != nil {
		return 0, err
	}
	if !drift.Clean() {
		result.Drift[coll.Name] = drift
	}

	if err := b.write(filepath.Join(coll.Name, "index.html"), page); err != nil {
		return 0, err
	}
	pages := 1

	for _, c := range cards {
		if c.Draft {
			continue
		}
		if c.Slug == "" || strings.Contains(c.Slug, "..") {
			slog.Warn("Skipping detail page with unsafe slug", "collection", coll.Name, "slug", c.Slug)
			continue
		}

		detail, err := b.renderer.Detail(coll, c)
		if err != nil {
			return 0, err
		}
		if err := b.write(filepath.Join(coll.Name, filepath.FromSlash(c.Slug), "index.html"), detail); err != nil {
			return 0, err
		}
		pages++
	}

	if coll.RSS {
		if err := b.writeFeed(coll, cards); err != nil {
			return 0, err
		}
	}

	slog.Debug("Collection written", "collection", coll.Name, "cards", len(cards), "pages", pages)
	return pages, nil
}

func (b *Builder) writeFeed(coll config.Collection, cards []card.Card) error {
	base := strings.TrimSuffix(b.opts.BaseURL, "/")
	if base == "" {
		base = strings.TrimSuffix(b.site.BaseURL, "/")
	}

	channel := feed.Channel{
		Title:       fmt.Sprintf("%s - %s", b.site.Title, coll.Title),
		Link:        base,
		Description: b.site.Description,
		Language:    b.site.Language,
	}
	if base != "" {
		channel.SelfLink = base + "/" + coll.Name + "/rss.xml"
	}

	rss, err := b.generator.Run(channel, cards)
	if err != nil {
		return fmt.Errorf("failed to generate feed for %s: %w", coll.Name, err)
	}

	return b.write(filepath.Join(coll.Name, "rss.xml"), []byte(rss))
}

func (b *Builder) write(rel string, data []byte) error {
	path := filepath.Join(b.opts.OutputDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	return nil
}
