package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"tape-analytics/internal/domain"
	"tape-analytics/internal/storage"
)

// SynthesisStore is an in-memory implementation of storage.SynthesisStore.
type SynthesisStore struct {
	mu   sync.RWMutex
	data map[string]*domain.DailySynthesisRecord // keyed by instrument|date
}

// NewSynthesisStore creates a new in-memory synthesis store.
func NewSynthesisStore() *SynthesisStore {
	return &SynthesisStore{
		data: make(map[string]*domain.DailySynthesisRecord),
	}
}

// Compile-time interface check.
var _ storage.SynthesisStore = (*SynthesisStore)(nil)

func synthesisKey(instrument, tradeDate string) string {
	return fmt.Sprintf("%s|%s", instrument, tradeDate)
}

// Exists reports whether a record exists for the key.
func (s *SynthesisStore) Exists(_ context.Context, instrument, tradeDate string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.data[synthesisKey(instrument, tradeDate)]
	return exists, nil
}

// Upsert inserts or fully replaces the record for its key. The record
// pointer is swapped under the lock, so readers see either the old or
// the new record, never a mix.
func (s *SynthesisStore) Upsert(_ context.Context, rec *domain.DailySynthesisRecord) error {
	if rec == nil || rec.Instrument == "" || rec.TradeDate == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recCopy := *rec
	s.data[synthesisKey(rec.Instrument, rec.TradeDate)] = &recCopy
	return nil
}

// Get retrieves the record for the key. Returns ErrNotFound if absent.
func (s *SynthesisStore) Get(_ context.Context, instrument, tradeDate string) (*domain.DailySynthesisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.data[synthesisKey(instrument, tradeDate)]
	if !exists {
		return nil, storage.ErrNotFound
	}

	recCopy := *rec
	return &recCopy, nil
}

// GetRange retrieves records within [startDate, endDate], ordered by
// trade date descending.
func (s *SynthesisStore) GetRange(_ context.Context, instrument, startDate, endDate string) ([]*domain.DailySynthesisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.DailySynthesisRecord
	for _, rec := range s.data {
		if rec.Instrument != instrument {
			continue
		}
		if rec.TradeDate < startDate || rec.TradeDate > endDate {
			continue
		}
		recCopy := *rec
		result = append(result, &recCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TradeDate > result[j].TradeDate
	})

	return result, nil
}

// Delete removes the record for the key.
func (s *SynthesisStore) Delete(_ context.Context, instrument, tradeDate string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, synthesisKey(instrument, tradeDate))
	return nil
}
