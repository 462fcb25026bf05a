package content

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/lysyi3m/folio/app/card"
	"github.com/lysyi3m/folio/app/config"
	"github.com/lysyi3m/folio/app/feed"
)

// FeedSource reads posts from a remote RSS, Atom or JSON feed
type FeedSource struct {
	coll       config.Collection
	httpClient *http.Client
	parser     *feed.Parser
	userAgent  string
}

func NewFeedSource(coll config.Collection, httpClient *http.Client, parser *feed.Parser, userAgent string) *FeedSource {
	return &FeedSource{
		coll:       coll,
		httpClient: httpClient,
		parser:     parser,
		userAgent:  userAgent,
	}
}

func (s *FeedSource) Name() string {
	return s.coll.Name
}

func (s *FeedSource) Load(ctx context.Context) ([]card.Card, error) {
	data, err := fetch(ctx, s.httpClient, s.coll.FeedURL, s.userAgent, s.coll.GetTimeout())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	metadata, cards, err := s.parser.Run(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	normalize := card.SlugNormalizer(s.coll.SlugPrefix)
	for i := range cards {
		cards[i].Kind = s.coll.Kind
		cards[i].Slug = normalize(cards[i].Slug)
	}

	slog.Debug("Feed loaded",
		"collection", s.coll.Name,
		"title", metadata.Title,
		"items", len(cards))

	return cards, nil
}
