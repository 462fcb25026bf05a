package content

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lysyi3m/folio/app/card"
	"github.com/lysyi3m/folio/app/config"
	"github.com/lysyi3m/folio/app/feed"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func loadFiles(t *testing.T, coll config.Collection, contentDir string) []card.Card {
	t.Helper()
	src := NewFileSource(coll, contentDir, feed.NewContentExtractor())
	cards, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	return cards
}

func TestFileSourceProjects(t *testing.T) {
	contentDir := t.TempDir()
	writeFile(t, contentDir, "projects/Compiler.md", `---
title: Toy Compiler
description: A compiler for a tiny language
date: 2023-05-01
programming_languages: [Go, TypeScript]
domains: Compilers
thumbnail: /img/compiler.png
---
# Toy Compiler

Body text.
`)
	writeFile(t, contentDir, "projects/widget.mdx", `---
title: Widget
startDate: "2022-01-01"
endDate: "9999-12-31"
draft: true
---
Widget body.
`)
	writeFile(t, contentDir, "projects/notes.txt", "ignored")

	coll := config.Collection{Name: "projects", Kind: card.KindProject, Dir: "projects"}
	cards := loadFiles(t, coll, contentDir)

	if len(cards) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(cards))
	}

	compiler := cards[0]
	if compiler.Slug != "compiler" {
		t.Errorf("Expected slug 'compiler', got '%s'", compiler.Slug)
	}
	if compiler.Permalink != "/projects/compiler/" {
		t.Errorf("Expected permalink '/projects/compiler/', got '%s'", compiler.Permalink)
	}
	if diff := cmp.Diff(card.LabelSet{"Go", "TypeScript"}, compiler.Languages); diff != "" {
		t.Errorf("languages mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(card.LabelSet{"Compilers"}, compiler.Domains); diff != "" {
		t.Errorf("domains mismatch (-want +got):\n%s", diff)
	}
	if compiler.Date.IsZero() {
		t.Error("Expected date to be set")
	}
	if !strings.Contains(compiler.Body, "<h1") {
		t.Errorf("Expected rendered markdown body, got '%s'", compiler.Body)
	}

	widget := cards[1]
	if widget.Slug != "widget" {
		t.Errorf("Expected slug 'widget', got '%s'", widget.Slug)
	}
	if !widget.Draft {
		t.Error("Expected widget to be a draft")
	}
	if widget.EndDate.String() != "9999-12-31" {
		t.Errorf("Expected end date '9999-12-31', got '%s'", widget.EndDate.String())
	}
	if widget.Description != "Widget body." {
		t.Errorf("Expected excerpt description, got '%s'", widget.Description)
	}
}

func TestFileSourceExperienceFallbacks(t *testing.T) {
	contentDir := t.TempDir()
	writeFile(t, contentDir, "experiences/acme.md", `---
company:
  name: Acme Corp
  image: /img/acme.png
logistics:
  startDate: "2020-03-01"
  endDate: "2022-06-30"
summary: Built things
---
`)
	writeFile(t, contentDir, "experiences/initech.md", `---
title: Engineer
company: Initech
startDate: "2023-01-01"
---
`)

	coll := config.Collection{Name: "experiences", Kind: card.KindExperience, Dir: "experiences"}
	cards := loadFiles(t, coll, contentDir)

	if len(cards) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(cards))
	}

	acme := cards[0]
	if acme.Company != "Acme Corp" {
		t.Errorf("Expected company 'Acme Corp', got '%s'", acme.Company)
	}
	if acme.Thumbnail != "/img/acme.png" {
		t.Errorf("Expected company image thumbnail, got '%s'", acme.Thumbnail)
	}
	if acme.StartDate.String() != "2020-03-01" || acme.EndDate.String() != "2022-06-30" {
		t.Errorf("Expected logistics dates, got %s - %s", acme.StartDate, acme.EndDate)
	}
	if acme.Title != "Acme" {
		t.Errorf("Expected title from filename 'Acme', got '%s'", acme.Title)
	}
	if acme.Description != "Built things" {
		t.Errorf("Expected summary as description, got '%s'", acme.Description)
	}

	if cards[1].Company != "Initech" {
		t.Errorf("Expected company 'Initech', got '%s'", cards[1].Company)
	}
}

func TestFileSourceSkipsBrokenFiles(t *testing.T) {
	contentDir := t.TempDir()
	writeFile(t, contentDir, "posts/good.md", "---\ntitle: Good\ndate: not a date\n---\nhello\n")
	writeFile(t, contentDir, "posts/bad.md", "---\ntitle: [unterminated\n---\n")
	writeFile(t, contentDir, "posts/Good.mdx", "---\ntitle: Duplicate\n---\n")

	coll := config.Collection{Name: "posts", Kind: card.KindPost, Dir: "posts", SlugPrefix: "posts"}
	cards := loadFiles(t, coll, contentDir)

	if len(cards) != 1 {
		t.Fatalf("Expected 1 card, got %d", len(cards))
	}
	if cards[0].Title != "Duplicate" && cards[0].Title != "Good" {
		t.Errorf("Unexpected card %q", cards[0].Title)
	}
	if cards[0].Slug != "good" {
		t.Errorf("Expected slug 'good', got '%s'", cards[0].Slug)
	}
}

func TestFileSourceMissingDirectory(t *testing.T) {
	coll := config.Collection{Name: "projects", Kind: card.KindProject, Dir: "projects"}
	cards := loadFiles(t, coll, t.TempDir())
	if len(cards) != 0 {
		t.Errorf("Expected no cards, got %d", len(cards))
	}
}
