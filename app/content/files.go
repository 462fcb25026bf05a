package content

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/lysyi3m/folio/app/card"
	"github.com/lysyi3m/folio/app/config"
	"github.com/lysyi3m/folio/app/feed"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const excerptLength = 160

var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// FileSource reads a collection from a directory of markdown files with
// YAML front matter
type FileSource struct {
	coll      config.Collection
	dir       string
	markdown  goldmark.Markdown
	extractor *feed.ContentExtractor
	titler    cases.Caser
}

func NewFileSource(coll config.Collection, contentDir string, extractor *feed.ContentExtractor) *FileSource {
	dir := coll.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(contentDir, dir)
	}

	return &FileSource{
		coll: coll,
		dir:  dir,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		extractor: extractor,
		titler:    cases.Title(language.English),
	}
}

func (s *FileSource) Name() string {
	return s.coll.Name
}

// Load reads every .md and .mdx file under the collection directory. Files
// that fail to parse are skipped with a warning.
func (s *FileSource) Load(ctx context.Context) ([]card.Card, error) {
	var paths []string
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".md", ".mdx":
			paths = append(paths, path)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Content directory not found", "collection", s.coll.Name, "dir", s.dir)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", s.dir, err)
	}

	cards := make([]card.Card, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c, err := s.readFile(path)
		if err != nil {
			slog.Warn("Skipping content file", "collection", s.coll.Name, "path", path, "error", err)
			continue
		}
		if prev, ok := seen[c.Slug]; ok {
			slog.Warn("Duplicate slug, keeping first", "collection", s.coll.Name, "slug", c.Slug, "path", path, "first", prev)
			continue
		}
		seen[c.Slug] = path
		cards = append(cards, c)
	}

	slog.Debug("Content files loaded", "collection", s.coll.Name, "dir", s.dir, "cards", len(cards))
	return cards, nil
}

func (s *FileSource) readFile(path string) (card.Card, error) {
	f, err := os.Open(path)
	if err != nil {
		return card.Card{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var fm frontMatter
	rest, err := frontmatter.Parse(f, &fm, yamlFormat)
	if err != nil {
		return card.Card{}, fmt.Errorf("failed to parse front matter: %w", err)
	}

	var body bytes.Buffer
	if err := s.markdown.Convert(rest, &body); err != nil {
		return card.Card{}, fmt.Errorf("failed to render markdown: %w", err)
	}

	rel, err := filepath.Rel(s.dir, path)
	if err != nil {
		rel = filepath.Base(path)
	}

	return s.toCard(rel, fm, body.String()), nil
}

func (s *FileSource) toCard(rel string, fm frontMatter, body string) card.Card {
	normalize := card.SlugNormalizer(s.coll.SlugPrefix)
	slug := normalize(cmp.Or(fm.Slug, filepath.ToSlash(rel)))

	c := card.Card{
		Kind:        s.coll.Kind,
		Slug:        slug,
		Title:       strings.TrimSpace(fm.Title),
		Description: cmp.Or(fm.Description, fm.Summary),
		Company:     fm.Company.Name,
		Thumbnail:   cmp.Or(fm.Thumbnail, fm.Cover, fm.Company.Image),
		Permalink:   permalink(s.coll.Name, slug),
		Date:        fm.Date,
		StartDate:   fm.StartDate,
		EndDate:     fm.EndDate,
		Tags:        fm.Tags,
		Languages:   fm.Languages,
		Domains:     fm.Domains,
		Draft:       fm.Draft,
		Body:        body,
	}

	if c.Title == "" {
		c.Title = s.titler.String(strings.NewReplacer("-", " ", "_", " ").Replace(filepath.Base(slug)))
	}
	if c.Date.IsZero() {
		c.Date = fm.PubDate
	}
	if c.Kind == card.KindExperience {
		if c.Date.IsZero() {
			c.Date = fm.Logistics.Duration
		}
		if c.StartDate.IsZero() {
			c.StartDate = fm.Logistics.StartDate
		}
		if c.EndDate.IsZero() {
			c.EndDate = fm.Logistics.EndDate
		}
	}
	if c.Description == "" && body != "" {
		c.Description = s.extractor.Excerpt(body, excerptLength)
	}

	return c
}

func permalink(collection, slug string) string {
	return "/" + collection + "/" + slug + "/"
}
