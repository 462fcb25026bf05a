package feed

import (
	"bytes"
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/lysyi3m/folio/app/card"
	"github.com/mmcdole/gofeed"
)

// Parser turns an RSS, Atom or JSON feed into post cards
type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *Parser) Run(data []byte) (*Metadata, []card.Card, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	metadata := &Metadata{
		Title:       feed.Title,
		Link:        feed.Link,
		Description: feed.Description,
		Language:    feed.Language,
	}

	if feed.Image != nil {
		metadata.ImageURL = feed.Image.URL
	}

	if feed.PublishedParsed != nil {
		metadata.FeedPublishedAt = feed.PublishedParsed
	}

	cards := make([]card.Card, 0, len(feed.Items))
	seen := make(map[string]bool, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		c := p.normalizeItem(item)
		if seen[c.Slug] {
			continue
		}
		seen[c.Slug] = true
		cards = append(cards, c)
	}

	return metadata, cards, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) card.Card {
	c := card.Card{
		Kind:        card.KindPost,
		Slug:        p.slug(item),
		Title:       strings.TrimSpace(item.Title),
		Description: strings.TrimSpace(item.Description),
		Permalink:   item.Link,
		Body:        item.Content,
		Tags:        card.LabelSet(item.Categories),
	}

	if item.PublishedParsed != nil {
		c.Date = card.NewDate(item.PublishedParsed.UTC())
	} else if item.UpdatedParsed != nil {
		c.Date = card.NewDate(item.UpdatedParsed.UTC())
	}

	if item.Image != nil {
		c.Thumbnail = item.Image.URL
	} else {
		for _, enclosure := range item.Enclosures {
			if enclosure != nil && strings.HasPrefix(enclosure.Type, "image/") {
				c.Thumbnail = enclosure.URL
				break
			}
		}
	}

	return c
}

// slug uses the last path segment of the item link, falling back to a
// content hash when the link has no usable path
func (p *Parser) slug(item *gofeed.Item) string {
	for _, candidate := range []string{item.Link, item.GUID} {
		u, err := url.Parse(candidate)
		if err != nil || u.Path == "" {
			continue
		}
		base := path.Base(strings.TrimSuffix(u.Path, "/"))
		if slug := card.NormalizeSlug(strings.TrimSuffix(base, path.Ext(base))); slug != "" && slug != "." && slug != "/" {
			return slug
		}
	}
	return p.generateContentHash(item)[:12]
}

func (p *Parser) generateContentHash(item *gofeed.Item) string {
	content := fmt.Sprintf("%s|%s",
		item.Title,
		cmp.Or(item.Link, item.GUID))

	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
