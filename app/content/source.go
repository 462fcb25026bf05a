package content

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/lysyi3m/folio/app/card"
	"github.com/lysyi3m/folio/app/config"
	"github.com/lysyi3m/folio/app/feed"
)

var ErrUnknownSource = errors.New("unknown content source")

// Source loads every card of one collection, drafts included. Drafts are
// dropped later by the listing pipeline.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]card.Card, error)
}

// Store is the read side of the content snapshot used by db sources
type Store interface {
	Cards(ctx context.Context, collection string) ([]card.Card, error)
}

// Deps carries the shared clients a source may need
type Deps struct {
	ContentDir string
	HTTPClient *http.Client
	UserAgent  string

	CMSURL     string
	CMSBucket  string
	CMSReadKey string

	Store     Store
	Parser    *feed.Parser
	Extractor *feed.ContentExtractor

	// Cache wraps remote sources when set
	Cache *Cache[[]card.Card]
}

// Open builds the source declared by a collection
func Open(coll config.Collection, deps Deps) (Source, error) {
	if deps.HTTPClient == nil {
		deps.HTTPClient = http.DefaultClient
	}
	if deps.Parser == nil {
		deps.Parser = feed.NewParser()
	}
	if deps.Extractor == nil {
		deps.Extractor = feed.NewContentExtractor()
	}

	var src Source
	switch coll.Source {
	case config.SourceFiles, "":
		return NewFileSource(coll, deps.ContentDir, deps.Extractor), nil
	case config.SourceFeed:
		src = NewFeedSource(coll, deps.HTTPClient, deps.Parser, deps.UserAgent)
	case config.SourceCMS:
		cms, err := NewCMSSource(coll, deps)
		if err != nil {
			return nil, err
		}
		src = cms
	case config.SourceDB:
		if deps.Store == nil {
			return nil, fmt.Errorf("collection %q: db source requires a store", coll.Name)
		}
		return NewStoreSource(coll.Name, deps.Store), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, coll.Source)
	}

	if deps.Cache != nil {
		return NewCached(src, deps.Cache), nil
	}
	return src, nil
}

// StoreSource reads a collection back from the content snapshot
type StoreSource struct {
	name  string
	store Store
}

func NewStoreSource(name string, store Store) *StoreSource {
	return &StoreSource{name: name, store: store}
}

func (s *StoreSource) Name() string {
	return s.name
}

func (s *StoreSource) Load(ctx context.Context) ([]card.Card, error) {
	cards, err := s.store.Cards(ctx, s.name)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection %s from store: %w", s.name, err)
	}
	return cards, nil
}
