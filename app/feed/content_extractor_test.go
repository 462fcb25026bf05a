package feed

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestContentExtractorRun(t *testing.T) {
	extractor := NewContentExtractor()

	htmlContent := `
	<!DOCTYPE html>
	<html>
	<head><title>Shipping a compiler</title></head>
	<body>
		<nav>Home | Projects | Posts</nav>
		<article>
			<h1>Shipping a compiler</h1>
			<p>Writing a compiler for a small language taught me more about parsing than any textbook. The first version was a tree-walking interpreter.</p>
			<p>The second version emitted bytecode for a stack machine, which made the test suite run ten times faster and simplified error reporting.</p>
			<p>The final version targets WebAssembly so the playground can run entirely in the browser without a server round trip.</p>
		</article>
		<footer><p>Copyright 2024</p></footer>
	</body>
	</html>
	`

	result, err := extractor.Run([]byte(htmlContent))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(result, "tree-walking interpreter") {
		t.Errorf("Expected extracted content to contain article text")
	}
	if strings.Contains(result, "Copyright 2024") {
		t.Errorf("Expected extracted content to exclude footer")
	}
}

func TestContentExtractorRunEmptyData(t *testing.T) {
	extractor := NewContentExtractor()

	result, err := extractor.Run(nil)
	if err == nil {
		t.Fatal("Expected error for empty data")
	}
	if result != "" {
		t.Errorf("Expected empty result for empty data")
	}
	if err.Error() != "HTML data is empty" {
		t.Errorf("Expected error message 'HTML data is empty', got '%s'", err.Error())
	}
}

func TestExcerptShortFragment(t *testing.T) {
	extractor := NewContentExtractor()

	got := extractor.Excerpt("<p>Hello <strong>world</strong>.</p>", 100)
	if got != "Hello world." {
		t.Errorf("Expected 'Hello world.', got '%s'", got)
	}

	if got := extractor.Excerpt("   ", 100); got != "" {
		t.Errorf("Expected empty excerpt, got '%s'", got)
	}
}

func TestExcerptTruncatesAtWordBoundary(t *testing.T) {
	extractor := NewContentExtractor()

	fragment := "<p>" + strings.Repeat("lorem ipsum dolor sit amet ", 40) + "</p>"
	got := extractor.Excerpt(fragment, 50)

	if !strings.HasSuffix(got, "…") {
		t.Errorf("Expected ellipsis, got '%s'", got)
	}
	if utf8.RuneCountInString(got) > 51 {
		t.Errorf("Expected at most 51 runes, got %d", utf8.RuneCountInString(got))
	}
	if strings.Contains(got, "  ") {
		t.Errorf("Expected collapsed whitespace, got '%s'", got)
	}
}
