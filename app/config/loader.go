package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/lysyi3m/folio/app/card"
	"github.com/lysyi3m/folio/app/listing"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid site configuration")

// Loader handles loading and validation of the site configuration
type Loader struct {
	path string
}

// NewLoader creates a new configuration loader
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads site.yml, falling back to the built-in collections when the
// file does not exist
func (l *Loader) Load() (*SiteConfig, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("Site configuration not found, using defaults", "path", l.path)
		config := Default()
		l.setDefaults(config)
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config SiteConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	l.setDefaults(&config)

	if err := l.validate(&config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", l.path, err)
	}

	slog.Debug("Site configuration loaded", "path", l.path, "collections", len(config.Collections))
	return &config, nil
}

// Default returns the projects, experiences and posts collections
func Default() *SiteConfig {
	return &SiteConfig{
		Title:    "Portfolio",
		Language: "en",
		Collections: []Collection{
			{Kind: card.KindProject},
			{Kind: card.KindExperience},
			{Kind: card.KindPost, RSS: true},
		},
	}
}

// setDefaults fills every unset collection field from its kind's variant
func (l *Loader) setDefaults(config *SiteConfig) {
	if config.Language == "" {
		config.Language = "en"
	}

	for i := range config.Collections {
		c := &config.Collections[i]
		if c.Kind == "" {
			c.Kind = card.KindProject
		}
		base := baseVariant(c.Kind)

		if c.Name == "" {
			c.Name = base.Name
		}
		if c.Title == "" {
			c.Title = base.Title
		}
		if c.Source == "" {
			c.Source = SourceFiles
		}
		if c.Dir == "" {
			c.Dir = c.Name
		}
		if c.ObjectType == "" {
			c.ObjectType = c.Name
		}
		if c.Mode == "" {
			c.Mode = base.Mode
		}
		if c.Years == nil {
			years := base.Years
			c.Years = &years
		}
		if len(c.PageSizes) == 0 {
			c.PageSizes = base.PageSizes
		}
		if c.DefaultPageSize == 0 {
			c.DefaultPageSize = base.DefaultPageSize
		}
		if c.Container == "" {
			c.Container = base.ContainerSelector
		}
		if c.Item == "" {
			c.Item = base.ItemSelector
		}
		if c.SlugPrefix == "" {
			c.SlugPrefix = base.SlugPrefix
		}
		if c.Facets == nil {
			for _, f := range base.Facets {
				c.Facets = append(c.Facets, facetFromListing(f))
			}
		}
		for j := range c.Facets {
			if c.Facets[j].Label == "" && c.Facets[j].Key != "" {
				c.Facets[j].Label = strings.ToUpper(c.Facets[j].Key[:1]) + c.Facets[j].Key[1:]
			}
		}
	}
}

// validate validates the configuration
func (l *Loader) validate(config *SiteConfig) error {
	if len(config.Collections) == 0 {
		return fmt.Errorf("%w: at least one collection is required", ErrInvalidConfig)
	}

	validKinds := map[card.Kind]bool{
		card.KindProject:    true,
		card.KindExperience: true,
		card.KindPost:       true,
	}
	validSources := map[SourceType]bool{
		SourceFiles: true,
		SourceFeed:  true,
		SourceCMS:   true,
		SourceDB:    true,
	}
	validModes := map[listing.Mode]bool{
		listing.PreferEnd:   true,
		listing.PreferStart: true,
	}

	seen := make(map[string]bool)
	for i, c := range config.Collections {
		if seen[c.Name] {
			return fmt.Errorf("%w: duplicate collection name %q", ErrInvalidConfig, c.Name)
		}
		seen[c.Name] = true

		if !validKinds[c.Kind] {
			return fmt.Errorf("%w: invalid kind at index %d: %s", ErrInvalidConfig, i, c.Kind)
		}
		if !validSources[c.Source] {
			return fmt.Errorf("%w: invalid source at index %d: %s", ErrInvalidConfig, i, c.Source)
		}
		if !validModes[c.Mode] {
			return fmt.Errorf("%w: invalid sort mode at index %d: %s", ErrInvalidConfig, i, c.Mode)
		}
		if c.Source == SourceFeed && c.FeedURL == "" {
			return fmt.Errorf("%w: collection %q: feed URL is required for feed sources", ErrInvalidConfig, c.Name)
		}
		if c.Timeout < 0 {
			return fmt.Errorf("%w: collection %q: timeout must be non-negative", ErrInvalidConfig, c.Name)
		}
		if c.DefaultPageSize <= 0 {
			return fmt.Errorf("%w: collection %q: default page size must be positive", ErrInvalidConfig, c.Name)
		}
		if slices.ContainsFunc(c.PageSizes, func(n int) bool { return n <= 0 }) {
			return fmt.Errorf("%w: collection %q: page sizes must be positive", ErrInvalidConfig, c.Name)
		}

		keys := make(map[string]bool)
		for j, f := range c.Facets {
			if f.Key == "" {
				return fmt.Errorf("%w: collection %q: facet at index %d has no key", ErrInvalidConfig, c.Name, j)
			}
			if keys[f.Key] {
				return fmt.Errorf("%w: collection %q: duplicate facet %q", ErrInvalidConfig, c.Name, f.Key)
			}
			keys[f.Key] = true
		}
	}

	return nil
}
