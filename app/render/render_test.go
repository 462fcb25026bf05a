package render

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/lysyi3m/folio/app/card"
	"github.com/lysyi3m/folio/app/config"
	"github.com/lysyi3m/folio/app/listing"
)

func testSite(t *testing.T) *config.SiteConfig {
	t.Helper()
	site, err := config.NewLoader(filepath.Join(t.TempDir(), "site.yml")).Load()
	if err != nil {
		t.Fatalf("Failed to load site config: %v", err)
	}
	site.Title = "Jane Doe"
	return site
}

func projectsCollection() config.Collection {
	years := true
	return config.Collection{
		Name:            "projects",
		Title:           "Projects",
		Kind:            card.KindProject,
		Mode:            listing.PreferEnd,
		Years:           &years,
		PageSizes:       []int{6, 12, 24},
		DefaultPageSize: 6,
		Container:       ".project-grid",
		Item:            ".project-item",
		Facets: []config.Facet{
			{Key: "languages", Field: "programming_languages", Label: "Languages"},
		},
	}
}

func sampleCards() []card.Card {
	return []card.Card{
		{Kind: card.KindProject, Slug: "compiler", Title: "Compiler", Permalink: "/projects/compiler/", Date: card.NewDate("2021-03-01"), Languages: card.LabelSet{"Go"}},
		{Kind: card.KindProject, Slug: "widget", Title: "Widget <beta>", Permalink: "/projects/widget/", StartDate: card.NewDate("2022-01-01"), EndDate: card.NewDate("9999-12-31"), Languages: card.LabelSet{"Go", "Rust"}},
		{Kind: card.KindProject, Slug: "site", Title: "Site", Permalink: "/projects/site/", Date: card.NewDate("2023-06-01"), Languages: card.LabelSet{"TypeScript"}},
		{Kind: card.KindProject, Slug: "secret", Title: "Secret", Draft: true, Date: card.NewDate("2024-01-01")},
	}
}

func renderCollection(t *testing.T) (*goquery.Document, []byte) {
	t.Helper()

	r, err := NewRenderer(testSite(t))
	if err != nil {
		t.Fatalf("Failed to create renderer: %v", err)
	}

	page, err := r.Collection(projectsCollection(), sampleCards())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		t.Fatalf("Failed to parse page: %v", err)
	}
	return doc, page
}

func TestCollectionMarkup(t *testing.T) {
	doc, _ := renderCollection(t)

	var slugs []string
	doc.Find(".project-grid .project-item").Each(func(_ int, s *goquery.Selection) {
		slugs = append(slugs, s.AttrOr("data-slug", ""))
	})
	if diff := cmp.Diff([]string{"widget", "site", "compiler"}, slugs); diff != "" {
		t.Errorf("rendered order mismatch (-want +got):\n%s", diff)
	}

	var years []string
	doc.Find("#projects-year option").Each(func(_ int, s *goquery.Selection) {
		years = append(years, s.AttrOr("value", ""))
	})
	if diff := cmp.Diff([]string{"", "Present", "2023", "2022", "2021"}, years); diff != "" {
		t.Errorf("year options mismatch (-want +got):\n%s", diff)
	}

	if got := doc.Find("#projects-per-page option[selected]").AttrOr("value", ""); got != "6" {
		t.Errorf("Expected default page size 6 selected, got '%s'", got)
	}
	if got := doc.Find("#projects-languages-toggle").Text(); got != "All languages" {
		t.Errorf("Expected facet button 'All languages', got '%s'", got)
	}
	if got := doc.Find("#projects-languages-options li").First().AttrOr("data-label", ""); got != "Go" {
		t.Errorf("Expected most frequent label first, got '%s'", got)
	}
	if got := doc.Find("#projects-page-summary").Text(); got != "Page 1 of 1" {
		t.Errorf("Expected 'Page 1 of 1', got '%s'", got)
	}
	if _, disabled := doc.Find("#projects-next").Attr("disabled"); !disabled {
		t.Error("Expected next button to be disabled on the only page")
	}
	if live, _ := doc.Find("#projects-summary").Attr("aria-live"); live != "polite" {
		t.Errorf("Expected aria-live summary, got '%s'", live)
	}
	if strings.Contains(doc.Find(".project-grid").Text(), "Secret") {
		t.Error("Expected drafts to be left out of the markup")
	}
	if !strings.Contains(doc.Find(".project-item[data-slug=widget] .dates").Text(), "Present") {
		t.Error("Expected ongoing project to show Present")
	}
}

func TestCollectionPayload(t *testing.T) {
	doc, _ := renderCollection(t)

	raw := doc.Find("script#projects-data").Text()

	var payload listing.Payload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("Failed to decode payload: %v\n%s", err, raw)
	}
	if payload.Variant.Name != "projects" {
		t.Errorf("Expected variant 'projects', got '%s'", payload.Variant.Name)
	}
	if len(payload.Cards) != 3 {
		t.Fatalf("Expected 3 non-draft cards in payload, got %d", len(payload.Cards))
	}
	if payload.Cards[1].Title != "Widget <beta>" {
		t.Errorf("Expected title to survive escaping, got '%s'", payload.Cards[1].Title)
	}
	if strings.Contains(raw, "<beta>") {
		t.Error("Expected payload to escape markup")
	}
}

func TestVerifyCleanPage(t *testing.T) {
	_, page := renderCollection(t)

	collection := projectsCollection()
	drift, err := Verify(page, collection.Variant(), sampleCards(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !drift.Clean() {
		t.Errorf("Expected clean page, got %+v", drift)
	}
	if drift.Report.Visible != 3 {
		t.Errorf("Expected 3 visible items, got %d", drift.Report.Visible)
	}
}

func TestVerifyReportsDrift(t *testing.T) {
	_, page := renderCollection(t)
	page = bytes.Replace(page, []byte(`data-slug="site"`), []byte(`data-slug="stale"`), 1)

	collection := projectsCollection()
	drift, err := Verify(page, collection.Variant(), sampleCards(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if diff := cmp.Diff([]string{"stale"}, drift.Extra); diff != "" {
		t.Errorf("extra mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"site"}, drift.Report.Missing); diff != "" {
		t.Errorf("missing mismatch (-want +got):\n%s", diff)
	}
	if drift.Clean() {
		t.Error("Expected drift to be reported")
	}
}

func TestDetailAndIndex(t *testing.T) {
	r, err := NewRenderer(testSite(t))
	if err != nil {
		t.Fatalf("Failed to create renderer: %v", err)
	}

	cards := sampleCards()
	detail, err := r.Detail(projectsCollection(), card.Card{Slug: "compiler", Title: "Compiler", Body: "<p>Hello <em>there</em></p>"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !bytes.Contains(detail, []byte("<p>Hello <em>there</em></p>")) {
		t.Error("Expected body HTML to be rendered unescaped")
	}
	if bytes.Contains(detail, []byte("island.wasm")) {
		t.Error("Expected detail pages to skip the island")
	}

	index, err := r.Index(map[string][]card.Card{"projects": cards}, 2)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	doc, _ := goquery.NewDocumentFromReader(bytes.NewReader(index))
	if n := doc.Find(".home-section").First().Find("li").Length(); n != 2 {
		t.Errorf("Expected 2 latest projects, got %d", n)
	}
}

func TestDateRange(t *testing.T) {
	tests := []struct {
		name string
		card card.Card
		want string
	}{
		{"date only", card.Card{Date: card.NewDate("2021-03-01")}, "Mar 2021"},
		{"range", card.Card{StartDate: card.NewDate("2020-01-15"), EndDate: card.NewDate("2022-06-30")}, "Jan 2020 – Jun 2022"},
		{"ongoing", card.Card{StartDate: card.NewDate("2020-01-15"), EndDate: card.NewDate("9999-12-31")}, "Jan 2020 – Present"},
		{"unparseable", card.Card{Date: card.NewDate("someday")}, ""},
		{"empty", card.Card{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DateRange(tt.card); got != tt.want {
				t.Errorf("Expected '%s', got '%s'", tt.want, got)
			}
		})
	}
}
