package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"github.com/lysyi3m/folio/app/card"
	"github.com/lysyi3m/folio/app/cfg"
	"github.com/lysyi3m/folio/app/listing"
)

type Generator struct {
	pipeline *listing.Pipeline
}

func NewGenerator() *Generator {
	return &Generator{
		pipeline: listing.NewPipeline(listing.PreferEnd),
	}
}

// Run writes an RSS 2.0 document for the non-draft cards, newest first
func (g *Generator) Run(channel Channel, cards []card.Card) (string, error) {
	items := g.pipeline.Process(cards, listing.DefaultFilterState())
	if channel.MaxItems > 0 && len(items) > channel.MaxItems {
		items = items[:channel.MaxItems]
	}

	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", channel.Title, 4)
	g.writeElement(&buf, "link", channel.Link, 4)
	description := channel.Description
	if description == "" {
		description = fmt.Sprintf("Latest posts from %s", channel.Title)
	}
	g.writeElement(&buf, "description", description, 4)

	if channel.SelfLink != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(channel.SelfLink)))
	}

	lastBuildDate := time.Now().In(time.Local)
	if len(items) > 0 {
		if published, ok := g.publishedAt(items[0]); ok {
			lastBuildDate = published
		}
	}

	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("Folio/%s", cfg.Get().Version), 4)
	g.writeElement(&buf, "language", channel.Language, 4)

	if channel.ImageURL != "" {
		buf.WriteString("    <image>\n")
		g.writeElement(&buf, "url", channel.ImageURL, 6)
		g.writeElement(&buf, "title", channel.Title, 6)
		g.writeElement(&buf, "link", channel.Link, 6)
		buf.WriteString("    </image>\n")
	}

	for _, item := range items {
		g.writeItem(&buf, channel, item)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, channel Channel, item card.Card) {
	buf.WriteString("    <item>\n")

	link := g.absoluteLink(channel.Link, item.Permalink)
	if link != "" {
		buf.WriteString(fmt.Sprintf("      <guid isPermaLink=\"%t\">", g.isURL(link)))
		xml.EscapeText(buf, []byte(link))
		buf.WriteString("</guid>\n")
	}

	g.writeElement(buf, "title", item.Title, 6)
	g.writeElement(buf, "link", link, 6)
	g.writeElement(buf, "description", item.Description, 6)

	if item.Body != "" && item.Body != item.Description {
		buf.WriteString("      <content:encoded><![CDATA[")
		buf.WriteString(strings.ReplaceAll(item.Body, "]]>", "]]]]><![CDATA[>"))
		buf.WriteString("]]></content:encoded>\n")
	}

	if published, ok := g.publishedAt(item); ok {
		g.writeElement(buf, "pubDate", published.Format(time.RFC1123Z), 6)
	}

	for _, category := range item.Tags {
		if category != "" {
			g.writeElement(buf, "category", category, 6)
		}
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) publishedAt(item card.Card) (time.Time, bool) {
	ts := listing.ComparableTimestamp(item, listing.PreferEnd)
	if ts == 0 || math.IsInf(ts, 0) {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ts)).In(time.Local), true
}

func (g *Generator) absoluteLink(base, permalink string) string {
	if permalink == "" || g.isURL(permalink) || base == "" {
		return permalink
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(permalink, "/")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func (g *Generator) isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
