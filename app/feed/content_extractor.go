package feed

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"codeberg.org/readeck/go-readability"
	"github.com/PuerkitoBio/goquery"
)

// ContentExtractor pulls the readable body out of an HTML document
type ContentExtractor struct{}

func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{}
}

func (e *ContentExtractor) Run(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	article, err := readability.FromReader(strings.NewReader(string(data)), nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	if article.Content == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	slog.Debug("Content extracted successfully",
		"title", article.Title,
		"content_length", len(article.Content))

	return article.Content, nil
}

// Excerpt returns up to maxLen characters of plain text from an HTML
// fragment, cut at a word boundary. Fragments too small for readability are
// read as-is.
func (e *ContentExtractor) Excerpt(fragment string, maxLen int) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	page := "<!DOCTYPE html><html><head><title></title></head><body><article>" + fragment + "</article></body></html>"
	source := fragment
	if content, err := e.Run([]byte(page)); err == nil {
		source = content
	}

	text := plainText(source)
	if text == "" && source != fragment {
		text = plainText(fragment)
	}
	return truncate(text, maxLen)
}

func plainText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func truncate(text string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(text) <= maxLen {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:maxLen])
	if i := strings.LastIndex(cut, " "); i > maxLen/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
