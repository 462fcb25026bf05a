package card

import (
	"regexp"
	"strings"
)

type Kind string

const (
	KindProject    Kind = "project"
	KindExperience Kind = "experience"
	KindPost       Kind = "post"
)

// Card is a single content item rendered into a collection grid. Only Slug,
// the dates, the label sets and Draft are read by the listing pipeline; the
// remaining fields are display-only.
type Card struct {
	Kind        Kind     `json:"kind"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Company     string   `json:"company,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	Permalink   string   `json:"permalink,omitempty"`
	Date        Date     `json:"date,omitzero"`
	StartDate   Date     `json:"startDate,omitzero"`
	EndDate     Date     `json:"endDate,omitzero"`
	Tags        LabelSet `json:"tags,omitempty"`
	Languages   LabelSet `json:"programming_languages,omitempty"`
	Domains     LabelSet `json:"domains,omitempty"`
	Draft       bool     `json:"draft,omitempty"`
	Body        string   `json:"-"`
}

// Labels returns the raw label set stored under a facet field name.
// Unknown fields yield nil.
func (c Card) Labels(field string) []string {
	switch strings.ToLower(strings.TrimSpace(field)) {
	case "tags", "tag":
		return c.Tags
	case "languages", "language", "programming_languages":
		return c.Languages
	case "domains", "domain":
		return c.Domains
	case "company":
		if c.Company != "" {
			return []string{c.Company}
		}
	}
	return nil
}

var slugExt = regexp.MustCompile(`(?i)\.mdx?$`)

// NormalizeSlug lower-cases s and strips surrounding slashes and a
// markdown file extension.
func NormalizeSlug(s string) string {
	s = strings.TrimSpace(s)
	s = slugExt.ReplaceAllString(s, "")
	s = strings.Trim(s, "/")
	return strings.ToLower(s)
}

// SlugNormalizer returns NormalizeSlug extended to also drop a collection
// path prefix such as "posts/".
func SlugNormalizer(prefix string) func(string) string {
	prefix = strings.ToLower(strings.Trim(prefix, "/"))
	if prefix == "" {
		return NormalizeSlug
	}
	return func(s string) string {
		s = NormalizeSlug(s)
		if rest, ok := strings.CutPrefix(s, prefix+"/"); ok {
			return rest
		}
		return s
	}
}
