package storage

import (
	"context"

	"tape-analytics/internal/domain"
)

// SynthesisStore persists one DailySynthesisRecord per
// (instrument, trade date). Upsert must be atomic per key: readers
// never observe a half-written record, and concurrent writers for the
// same key resolve last-writer-wins.
type SynthesisStore interface {
	// Exists reports whether a record exists for the key.
	Exists(ctx context.Context, instrument, tradeDate string) (bool, error)

	// Upsert inserts or fully replaces the record for its key.
	Upsert(ctx context.Context, rec *domain.DailySynthesisRecord) error

	// Get retrieves the record for the key. Returns ErrNotFound if absent.
	Get(ctx context.Context, instrument, tradeDate string) (*domain.DailySynthesisRecord, error)

	// GetRange retrieves records with startDate <= trade_date <= endDate,
	// ordered by trade date descending.
	GetRange(ctx context.Context, instrument, startDate, endDate string) ([]*domain.DailySynthesisRecord, error)

	// Delete removes the record for the key. Deleting an absent key is
	// not an error.
	Delete(ctx context.Context, instrument, tradeDate string) error
}

// TickStore is the raw tick archive owned by the ingestion
// collaborator. The engine reads a day's slice from it and, once the
// day is synthesized, marks it processed so the owner may prune raw
// rows later.
type TickStore interface {
	// InsertBulk appends a day's ticks.
	InsertBulk(ctx context.Context, instrument, tradeDate string, ticks []domain.TradeTick) error

	// GetByDate retrieves all ticks for the day, ordered by time ASC.
	GetByDate(ctx context.Context, instrument, tradeDate string) ([]domain.TradeTick, error)

	// MarkProcessed flags the day as synthesized. Idempotent.
	MarkProcessed(ctx context.Context, instrument, tradeDate string) error

	// IsProcessed reports whether the day has been flagged.
	IsProcessed(ctx context.Context, instrument, tradeDate string) (bool, error)
}
