package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tape-analytics/internal/domain"
	"tape-analytics/internal/storage"
)

// SynthesisStore implements storage.SynthesisStore using PostgreSQL.
// Payloads are stored as JSONB columns; the single-statement upsert on
// the (instrument, trade_date) primary key gives last-writer-wins
// semantics without torn writes.
type SynthesisStore struct {
	pool *Pool
}

// NewSynthesisStore creates a new SynthesisStore.
func NewSynthesisStore(pool *Pool) *SynthesisStore {
	return &SynthesisStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SynthesisStore = (*SynthesisStore)(nil)

// Exists reports whether a record exists for the key.
func (s *SynthesisStore) Exists(ctx context.Context, instrument, tradeDate string) (bool, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM daily_synthesis
			WHERE instrument = $1 AND trade_date = $2
		)
	`, instrument, tradeDate)

	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("check synthesis exists: %w", err)
	}
	return exists, nil
}

// Upsert inserts or fully replaces the record for its key.
func (s *SynthesisStore) Upsert(ctx context.Context, rec *domain.DailySynthesisRecord) error {
	if rec == nil || rec.Instrument == "" || rec.TradeDate == "" {
		return storage.ErrInvalidInput
	}

	imposterPayload, err := json.Marshal(rec.Imposter)
	if err != nil {
		return fmt.Errorf("marshal imposter payload: %w", err)
	}
	speedPayload, err := json.Marshal(rec.Speed)
	if err != nil {
		return fmt.Errorf("marshal speed payload: %w", err)
	}
	combinedPayload, err := json.Marshal(rec.Combined)
	if err != nil {
		return fmt.Errorf("marshal combined payload: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO daily_synthesis (
			instrument, trade_date,
			imposter_payload, speed_payload, combined_payload,
			raw_record_count, raw_data_fingerprint, computed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (instrument, trade_date) DO UPDATE
		SET imposter_payload = EXCLUDED.imposter_payload,
		    speed_payload = EXCLUDED.speed_payload,
		    combined_payload = EXCLUDED.combined_payload,
		    raw_record_count = EXCLUDED.raw_record_count,
		    raw_data_fingerprint = EXCLUDED.raw_data_fingerprint,
		    computed_at = EXCLUDED.computed_at
	`,
		rec.Instrument,
		rec.TradeDate,
		imposterPayload,
		speedPayload,
		combinedPayload,
		rec.RawRecordCount,
		rec.RawDataFingerprint,
		rec.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert daily synthesis: %w", err)
	}
	return nil
}

// Get retrieves the record for the key. Returns ErrNotFound if absent.
func (s *SynthesisStore) Get(ctx context.Context, instrument, tradeDate string) (*domain.DailySynthesisRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT instrument, trade_date,
		       imposter_payload, speed_payload, combined_payload,
		       raw_record_count, raw_data_fingerprint, computed_at
		FROM daily_synthesis
		WHERE instrument = $1 AND trade_date = $2
	`, instrument, tradeDate)

	rec, err := scanSynthesis(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get daily synthesis: %w", err)
	}
	return rec, nil
}

// GetRange retrieves records within [startDate, endDate], ordered by
// trade date descending.
func (s *SynthesisStore) GetRange(ctx context.Context, instrument, startDate, endDate string) ([]*domain.DailySynthesisRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT instrument, trade_date,
		       imposter_payload, speed_payload, combined_payload,
		       raw_record_count, raw_data_fingerprint, computed_at
		FROM daily_synthesis
		WHERE instrument = $1 AND trade_date >= $2 AND trade_date <= $3
		ORDER BY trade_date DESC
	`, instrument, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("query synthesis range: %w", err)
	}
	defer rows.Close()

	var records []*domain.DailySynthesisRecord
	for rows.Next() {
		rec, err := scanSynthesis(rows)
		if err != nil {
			return nil, fmt.Errorf("scan synthesis row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Delete removes the record for the key.
func (s *SynthesisStore) Delete(ctx context.Context, instrument, tradeDate string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM daily_synthesis
		WHERE instrument = $1 AND trade_date = $2
	`, instrument, tradeDate)
	if err != nil {
		return fmt.Errorf("delete daily synthesis: %w", err)
	}
	return nil
}

// rowScanner covers pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSynthesis(row rowScanner) (*domain.DailySynthesisRecord, error) {
	var (
		rec             domain.DailySynthesisRecord
		tradeDate       time.Time
		imposterPayload []byte
		speedPayload    []byte
		combinedPayload []byte
	)
	err := row.Scan(
		&rec.Instrument,
		&tradeDate,
		&imposterPayload,
		&speedPayload,
		&combinedPayload,
		&rec.RawRecordCount,
		&rec.RawDataFingerprint,
		&rec.ComputedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.TradeDate = tradeDate.Format(domain.TradeDateLayout)

	if err := json.Unmarshal(imposterPayload, &rec.Imposter); err != nil {
		return nil, fmt.Errorf("unmarshal imposter payload: %w", err)
	}
	if err := json.Unmarshal(speedPayload, &rec.Speed); err != nil {
		return nil, fmt.Errorf("unmarshal speed payload: %w", err)
	}
	if err := json.Unmarshal(combinedPayload, &rec.Combined); err != nil {
		return nil, fmt.Errorf("unmarshal combined payload: %w", err)
	}
	return &rec, nil
}
