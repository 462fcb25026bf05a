package database

import (
	"context"
	"time"

	"github.com/lysyi3m/folio/app/card"
)

type CollectionStats struct {
	Name     string    `json:"name"`
	Kind     card.Kind `json:"kind"`
	Cards    int       `json:"cards"`
	Drafts   int       `json:"drafts"`
	SyncedAt time.Time `json:"synced_at"`
}

type CardRepositoryInterface interface {
	ReplaceCollection(ctx context.Context, collection string, kind card.Kind, cards []card.Card) error
	Cards(ctx context.Context, collection string) ([]card.Card, error)
	Card(ctx context.Context, collection, slug string) (*card.Card, error)
	Stats(ctx context.Context) ([]CollectionStats, error)
	Count(ctx context.Context) (int, error)
}

var _ CardRepositoryInterface = (*CardRepository)(nil)
