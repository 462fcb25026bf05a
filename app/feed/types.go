package feed

import (
	"time"
)

// Metadata describes a parsed upstream feed
type Metadata struct {
	Title           string
	Link            string
	Description     string
	ImageURL        string
	Language        string
	FeedPublishedAt *time.Time
}

// Channel describes the feed the generator writes
type Channel struct {
	Title       string
	Link        string
	Description string
	Language    string
	SelfLink    string
	ImageURL    string
	MaxItems    int
}
