package feed

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/lysyi3m/folio/app/card"
)

func TestParseRSS2(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Jane's Notes</title>
    <link>https://jane.dev</link>
    <description>Writing about software</description>
    <language>en-us</language>
    <image>
      <url>https://jane.dev/icon.png</url>
      <title>Jane's Notes</title>
      <link>https://jane.dev</link>
    </image>
    <item>
      <title>Hello World</title>
      <link>https://jane.dev/posts/hello-world/</link>
      <description>First post</description>
      <guid>post-1</guid>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
      <category>Go</category>
      <category>Meta</category>
    </item>
    <item>
      <title>Release Notes</title>
      <link>https://jane.dev/posts/release-notes.html</link>
      <description>Second post</description>
      <pubDate>Tue, 04 Jul 2023 11:00:00 GMT</pubDate>
      <enclosure url="https://jane.dev/cover.png" length="100" type="image/png" />
    </item>
    <item>
      <title>Duplicate</title>
      <link>https://jane.dev/posts/hello-world</link>
    </item>
    <item>
      <title>No Link</title>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	metadata, cards, err := parser.Run([]byte(rssData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if metadata.Title != "Jane's Notes" {
		t.Errorf("Expected title 'Jane's Notes', got: %s", metadata.Title)
	}
	if metadata.ImageURL != "https://jane.dev/icon.png" {
		t.Errorf("Expected image URL 'https://jane.dev/icon.png', got: %s", metadata.ImageURL)
	}

	if len(cards) != 3 {
		t.Fatalf("Expected 3 cards after dropping the duplicate slug, got: %d", len(cards))
	}

	first := cards[0]
	if first.Slug != "hello-world" {
		t.Errorf("Expected slug 'hello-world', got: %s", first.Slug)
	}
	if first.Kind != card.KindPost {
		t.Errorf("Expected kind post, got: %s", first.Kind)
	}
	if diff := cmp.Diff(card.LabelSet{"Go", "Meta"}, first.Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	published, ok := first.Date.Value().(time.Time)
	if !ok || !published.Equal(time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected date %v", first.Date.Value())
	}

	second := cards[1]
	if second.Slug != "release-notes" {
		t.Errorf("Expected slug 'release-notes', got: %s", second.Slug)
	}
	if second.Thumbnail != "https://jane.dev/cover.png" {
		t.Errorf("Expected enclosure thumbnail, got: %s", second.Thumbnail)
	}

	third := cards[2]
	if len(third.Slug) != 12 {
		t.Errorf("Expected 12 character hash slug, got: %s", third.Slug)
	}
	if !third.Date.IsZero() {
		t.Errorf("Expected undated item, got %v", third.Date.Value())
	}
}

func TestParseAtom(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Notes</title>
  <link href="https://jane.dev/"/>
  <updated>2024-01-02T00:00:00Z</updated>
  <entry>
    <title>Atom Entry</title>
    <link href="https://jane.dev/posts/atom-entry"/>
    <id>urn:uuid:1</id>
    <updated>2024-01-02T00:00:00Z</updated>
    <summary>Summary text</summary>
  </entry>
</feed>`

	_, cards, err := NewParser().Run([]byte(atomData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("Expected 1 card, got %d", len(cards))
	}
	if cards[0].Slug != "atom-entry" {
		t.Errorf("Expected slug 'atom-entry', got '%s'", cards[0].Slug)
	}
	if cards[0].Date.IsZero() {
		t.Error("Expected updated date to be used when published is missing")
	}
}

func TestParseInvalidFeed(t *testing.T) {
	if _, _, err := NewParser().Run([]byte("not a feed")); err == nil {
		t.Error("Expected error for invalid feed")
	}
}
