package clickhouse

import (
	"context"
	"fmt"
	"time"

	"tape-analytics/internal/domain"
	"tape-analytics/internal/storage"
)

// TickStore implements storage.TickStore using ClickHouse. Raw ticks
// live in the trade_ticks MergeTree; synthesized days are flagged in
// the processed_days ReplacingMergeTree, whose latest row per key wins,
// making MarkProcessed idempotent.
type TickStore struct {
	conn *Conn
}

// NewTickStore creates a new TickStore.
func NewTickStore(conn *Conn) *TickStore {
	return &TickStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TickStore = (*TickStore)(nil)

// InsertBulk appends a day's ticks.
func (s *TickStore) InsertBulk(ctx context.Context, instrument, tradeDate string, ticks []domain.TradeTick) error {
	if instrument == "" || tradeDate == "" {
		return storage.ErrInvalidInput
	}
	if len(ticks) == 0 {
		return nil
	}

	date, err := time.Parse(domain.TradeDateLayout, tradeDate)
	if err != nil {
		return fmt.Errorf("parse trade date: %w", err)
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO trade_ticks (
			instrument, trade_date, time, price, quantity, buyer_code, seller_code
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, tick := range ticks {
		err = batch.Append(
			instrument, date, uint64(tick.Time),
			tick.Price, tick.Quantity, tick.BuyerCode, tick.SellerCode,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByDate retrieves all ticks for the day, ordered by time ASC.
func (s *TickStore) GetByDate(ctx context.Context, instrument, tradeDate string) ([]domain.TradeTick, error) {
	date, err := time.Parse(domain.TradeDateLayout, tradeDate)
	if err != nil {
		return nil, fmt.Errorf("parse trade date: %w", err)
	}

	rows, err := s.conn.Query(ctx, `
		SELECT time, price, quantity, buyer_code, seller_code
		FROM trade_ticks
		WHERE instrument = ? AND trade_date = ?
		ORDER BY time ASC
	`, instrument, date)
	if err != nil {
		return nil, fmt.Errorf("query ticks by date: %w", err)
	}
	defer rows.Close()

	var ticks []domain.TradeTick
	for rows.Next() {
		var (
			tick   domain.TradeTick
			second uint64
		)
		if err := rows.Scan(&second, &tick.Price, &tick.Quantity, &tick.BuyerCode, &tick.SellerCode); err != nil {
			return nil, fmt.Errorf("scan tick: %w", err)
		}
		tick.Time = int64(second)
		ticks = append(ticks, tick)
	}
	return ticks, rows.Err()
}

// MarkProcessed flags the day as synthesized. Idempotent.
func (s *TickStore) MarkProcessed(ctx context.Context, instrument, tradeDate string) error {
	date, err := time.Parse(domain.TradeDateLayout, tradeDate)
	if err != nil {
		return fmt.Errorf("parse trade date: %w", err)
	}

	err = s.conn.Exec(ctx, `
		INSERT INTO processed_days (instrument, trade_date, marked_at)
		VALUES (?, ?, now())
	`, instrument, date)
	if err != nil {
		return fmt.Errorf("mark day processed: %w", err)
	}
	return nil
}

// IsProcessed reports whether the day has been flagged.
func (s *TickStore) IsProcessed(ctx context.Context, instrument, tradeDate string) (bool, error) {
	date, err := time.Parse(domain.TradeDateLayout, tradeDate)
	if err != nil {
		return false, fmt.Errorf("parse trade date: %w", err)
	}

	row := s.conn.QueryRow(ctx, `
		SELECT count()
		FROM processed_days
		WHERE instrument = ? AND trade_date = ?
	`, instrument, date)

	var count uint64
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("check day processed: %w", err)
	}
	return count > 0, nil
}
