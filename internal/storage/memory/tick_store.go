package memory

import (
	"context"
	"sort"
	"sync"

	"tape-analytics/internal/domain"
	"tape-analytics/internal/storage"
)

// TickStore is an in-memory implementation of storage.TickStore.
type TickStore struct {
	mu        sync.RWMutex
	ticks     map[string][]domain.TradeTick // keyed by instrument|date
	processed map[string]struct{}
}

// NewTickStore creates a new in-memory tick store.
func NewTickStore() *TickStore {
	return &TickStore{
		ticks:     make(map[string][]domain.TradeTick),
		processed: make(map[string]struct{}),
	}
}

// Compile-time interface check.
var _ storage.TickStore = (*TickStore)(nil)

// InsertBulk appends a day's ticks.
func (s *TickStore) InsertBulk(_ context.Context, instrument, tradeDate string, ticks []domain.TradeTick) error {
	if instrument == "" || tradeDate == "" {
		return storage.ErrInvalidInput
	}
	if len(ticks) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := synthesisKey(instrument, tradeDate)
	s.ticks[key] = append(s.ticks[key], ticks...)
	return nil
}

// GetByDate retrieves all ticks for the day, ordered by time ASC.
func (s *TickStore) GetByDate(_ context.Context, instrument, tradeDate string) ([]domain.TradeTick, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.ticks[synthesisKey(instrument, tradeDate)]
	result := make([]domain.TradeTick, len(stored))
	copy(result, stored)

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Time < result[j].Time
	})

	return result, nil
}

// MarkProcessed flags the day as synthesized. Idempotent.
func (s *TickStore) MarkProcessed(_ context.Context, instrument, tradeDate string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.processed[synthesisKey(instrument, tradeDate)] = struct{}{}
	return nil
}

// IsProcessed reports whether the day has been flagged.
func (s *TickStore) IsProcessed(_ context.Context, instrument, tradeDate string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.processed[synthesisKey(instrument, tradeDate)]
	return ok, nil
}
