package content

import (
	"encoding/json"
	"strings"

	"github.com/lysyi3m/folio/app/card"
	"gopkg.in/yaml.v3"
)

// frontMatter is the union of the fields projects, experiences and posts
// declare in their markdown headers
type frontMatter struct {
	Title       string        `yaml:"title"`
	Slug        string        `yaml:"slug"`
	Description string        `yaml:"description"`
	Summary     string        `yaml:"summary"`
	Thumbnail   string        `yaml:"thumbnail"`
	Cover       string        `yaml:"cover"`
	Date        card.Date     `yaml:"date"`
	PubDate     card.Date     `yaml:"pubDate"`
	StartDate   card.Date     `yaml:"startDate"`
	EndDate     card.Date     `yaml:"endDate"`
	Tags        card.LabelSet `yaml:"tags"`
	Languages   card.LabelSet `yaml:"programming_languages"`
	Domains     card.LabelSet `yaml:"domains"`
	Company     company       `yaml:"company"`
	Logistics   logistics     `yaml:"logistics"`
	Draft       bool          `yaml:"draft"`
}

type logistics struct {
	StartDate card.Date `yaml:"startDate"`
	EndDate   card.Date `yaml:"endDate"`
	Duration  card.Date `yaml:"duration"`
}

// company accepts either a plain name or a {name, image} object
type company struct {
	Name  string `yaml:"name" json:"name"`
	Image string `yaml:"image" json:"image"`
}

func (c *company) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		c.Name = strings.TrimSpace(node.Value)
	case yaml.MappingNode:
		var raw struct {
			Name  string `yaml:"name"`
			Title string `yaml:"title"`
			Image string `yaml:"image"`
		}
		if err := node.Decode(&raw); err == nil {
			c.Name = strings.TrimSpace(raw.Name)
			if c.Name == "" {
				c.Name = strings.TrimSpace(raw.Title)
			}
			c.Image = raw.Image
		}
	}
	return nil
}

func (c *company) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		c.Name = strings.TrimSpace(name)
		return nil
	}

	var raw struct {
		Name     string `json:"name"`
		Title    string `json:"title"`
		Image    string `json:"image"`
		Metadata struct {
			Name string `json:"name"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(data, &raw); err == nil {
		for _, candidate := range []string{raw.Name, raw.Title, raw.Metadata.Name} {
			if candidate = strings.TrimSpace(candidate); candidate != "" {
				c.Name = candidate
				break
			}
		}
		c.Image = raw.Image
	}
	return nil
}

// cmsResponse is the objects listing of the hosted CMS
type cmsResponse struct {
	Objects []cmsObject `json:"objects"`
	Total   int         `json:"total"`
}

type cmsObject struct {
	ID       string      `json:"id"`
	Slug     string      `json:"slug"`
	Title    string      `json:"title"`
	Status   string      `json:"status"`
	Metadata cmsMetadata `json:"metadata"`
}

type cmsMetadata struct {
	Description string        `json:"description"`
	Summary     string        `json:"summary"`
	Content     string        `json:"content"`
	Thumbnail   cmsImage      `json:"thumbnail"`
	Date        card.Date     `json:"date"`
	StartDate   card.Date     `json:"startDate"`
	EndDate     card.Date     `json:"endDate"`
	Tags        card.LabelSet `json:"tags"`
	Languages   card.LabelSet `json:"programming_languages"`
	Domains     card.LabelSet `json:"domains"`
	Company     company       `json:"company"`
	Draft       bool          `json:"draft"`
}

// cmsImage accepts a bare URL or a media object
type cmsImage struct {
	URL string
}

func (i *cmsImage) UnmarshalJSON(data []byte) error {
	var url string
	if err := json.Unmarshal(data, &url); err == nil {
		i.URL = url
		return nil
	}

	var media struct {
		URL      string `json:"url"`
		ImgixURL string `json:"imgix_url"`
	}
	if err := json.Unmarshal(data, &media); err == nil {
		i.URL = media.ImgixURL
		if i.URL == "" {
			i.URL = media.URL
		}
	}
	return nil
}
