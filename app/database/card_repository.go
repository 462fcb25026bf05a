package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lysyi3m/folio/app/card"
)

// CardRepository stores the latest snapshot of every collection
type CardRepository struct {
	db *DB
}

// NewCardRepository creates a new card repository
func NewCardRepository(db *DB) *CardRepository {
	return &CardRepository{db: db}
}

// ReplaceCollection swaps the stored cards of a collection for the given
// ones, keeping their order
func (r *CardRepository) ReplaceCollection(ctx context.Context, collection string, kind card.Kind, cards []card.Card) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO collections (name, kind, card_count, synced_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			kind = excluded.kind,
			card_count = excluded.card_count,
			synced_at = excluded.synced_at
	`, collection, string(kind), len(cards), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to upsert collection: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE collection = ?`, collection); err != nil {
		return fmt.Errorf("failed to clear collection: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cards (collection, slug, kind, position, data, body, draft)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (collection, slug) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range cards {
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to encode card %s: %w", c.Slug, err)
		}

		if _, err := stmt.ExecContext(ctx, collection, c.Slug, string(c.Kind), i, string(data), c.Body, c.Draft); err != nil {
			return fmt.Errorf("failed to insert card %s: %w", c.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Cards returns every stored card of a collection in snapshot order
func (r *CardRepository) Cards(ctx context.Context, collection string) ([]card.Card, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT data, body
		FROM cards
		WHERE collection = ?
		ORDER BY position
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to get cards: %w", err)
	}
	defer rows.Close()

	var cards []card.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating card rows: %w", err)
	}

	return cards, nil
}

// Card returns a single card, or nil when it does not exist
func (r *CardRepository) Card(ctx context.Context, collection, slug string) (*card.Card, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT data, body
		FROM cards
		WHERE collection = ? AND slug = ?
	`, collection, card.NormalizeSlug(slug))

	c, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// Stats returns per-collection counts ordered by name
func (r *CardRepository) Stats(ctx context.Context) ([]CollectionStats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.name, c.kind, c.synced_at,
		       COUNT(k.slug),
		       COALESCE(SUM(k.draft), 0)
		FROM collections c
		LEFT JOIN cards k ON k.collection = c.name
		GROUP BY c.name, c.kind, c.synced_at
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection stats: %w", err)
	}
	defer rows.Close()

	var stats []CollectionStats
	for rows.Next() {
		var s CollectionStats
		var kind string
		var syncedAt int64
		if err := rows.Scan(&s.Name, &kind, &syncedAt, &s.Cards, &s.Drafts); err != nil {
			return nil, fmt.Errorf("failed to scan collection row: %w", err)
		}
		s.Kind = card.Kind(kind)
		s.SyncedAt = time.UnixMilli(syncedAt).In(time.Local)
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collection rows: %w", err)
	}

	return stats, nil
}

// Count returns the total number of stored cards
func (r *CardRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cards").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get card count: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCard(s scanner) (card.Card, error) {
	var data, body string
	if err := s.Scan(&data, &body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return card.Card{}, err
		}
		return card.Card{}, fmt.Errorf("failed to scan card row: %w", err)
	}

	var c card.Card
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return card.Card{}, fmt.Errorf("failed to decode card: %w", err)
	}
	c.Body = body

	return c, nil
}
