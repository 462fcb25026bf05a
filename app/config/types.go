package config

import (
	"github.com/lysyi3m/folio/app/card"
	"github.com/lysyi3m/folio/app/listing"
)

type SourceType string

const (
	SourceFiles SourceType = "files"
	SourceFeed  SourceType = "feed"
	SourceCMS   SourceType = "cms"
	SourceDB    SourceType = "db"
)

// SiteConfig represents a complete site.yml
type SiteConfig struct {
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	BaseURL     string       `yaml:"base_url"`
	Language    string       `yaml:"language"`
	Author      string       `yaml:"author"`
	Collections []Collection `yaml:"collections"`
}

// Collection declares one content collection and how its list page behaves
type Collection struct {
	Name            string       `yaml:"name"`
	Title           string       `yaml:"title"`
	Kind            card.Kind    `yaml:"kind"`
	Source          SourceType   `yaml:"source"`
	Dir             string       `yaml:"dir"`
	FeedURL         string       `yaml:"feed_url"`
	ObjectType      string       `yaml:"object_type"` // CMS object type
	Timeout         int          `yaml:"timeout"`     // seconds
	Mode            listing.Mode `yaml:"sort_mode"`
	Years           *bool        `yaml:"years"`
	PageSizes       []int        `yaml:"page_sizes"`
	DefaultPageSize int          `yaml:"default_page_size"`
	Container       string       `yaml:"container"`
	Item            string       `yaml:"item"`
	SlugPrefix      string       `yaml:"slug_prefix"`
	Facets          []Facet      `yaml:"facets"`
	RSS             bool         `yaml:"rss"`
}

// Facet is a filter group. Synonyms map a canonical label to the raw labels
// folded into it.
type Facet struct {
	Key      string              `yaml:"key"`
	Field    string              `yaml:"field"`
	Label    string              `yaml:"label"`
	Synonyms map[string][]string `yaml:"synonyms"`
	Exclude  []string            `yaml:"exclude"`
}
