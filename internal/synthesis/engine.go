package synthesis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tape-analytics/internal/domain"
	"tape-analytics/internal/imposter"
	"tape-analytics/internal/signal"
	"tape-analytics/internal/speed"
	"tape-analytics/internal/storage"
)

// Engine computes and caches daily synthesis records.
type Engine struct {
	store          storage.SynthesisStore
	classifier     domain.BrokerClassifier
	burstThreshold int
	now            func() time.Time
}

// Options for creating an Engine.
type Options struct {
	// Store is the synthesis cache backend. Required.
	Store storage.SynthesisStore

	// Classifier maps broker codes to categories. Required.
	Classifier domain.BrokerClassifier

	// BurstThreshold overrides domain.DefaultBurstThreshold when > 0.
	BurstThreshold int

	// Now overrides the clock; used in tests.
	Now func() time.Time
}

// New creates a new Engine.
func New(opts Options) *Engine {
	threshold := opts.BurstThreshold
	if threshold <= 0 {
		threshold = domain.DefaultBurstThreshold
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		store:          opts.Store,
		classifier:     opts.Classifier,
		burstThreshold: threshold,
		now:            now,
	}
}

// Compute runs all three analyzers over a tick slice without touching
// the cache. The imposter and speed passes have no data dependency and
// run concurrently; the combined signal joins on both.
func (e *Engine) Compute(ticks []domain.TradeTick) (*domain.ImposterResult, *domain.SpeedResult, *domain.CombinedSignalResult) {
	var (
		imposterResult *domain.ImposterResult
		speedResult    *domain.SpeedResult
		wg             sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		imposterResult = imposter.Detect(ticks, e.classifier)
	}()
	go func() {
		defer wg.Done()
		speedResult = speed.Analyze(ticks, e.burstThreshold)
	}()
	wg.Wait()

	combined := signal.Synthesize(imposterResult, speedResult)
	return imposterResult, speedResult, combined
}

// ComputeAndSave runs the full pipeline over one day's ticks and
// upserts the result. Recomputing an unchanged tick set produces an
// identical payload; a changed set fully replaces the prior record.
func (e *Engine) ComputeAndSave(ctx context.Context, instrument, tradeDate string, ticks []domain.TradeTick) (*domain.DailySynthesisRecord, error) {
	if instrument == "" || tradeDate == "" {
		return nil, storage.ErrInvalidInput
	}
	if _, err := time.Parse(domain.TradeDateLayout, tradeDate); err != nil {
		return nil, fmt.Errorf("parse trade date %q: %w", tradeDate, err)
	}

	imposterResult, speedResult, combined := e.Compute(ticks)

	rec := &domain.DailySynthesisRecord{
		Instrument:         instrument,
		TradeDate:          tradeDate,
		Imposter:           imposterResult,
		Speed:              speedResult,
		Combined:           combined,
		RawRecordCount:     len(ticks),
		RawDataFingerprint: Fingerprint(ticks),
		ComputedAt:         e.now().UTC(),
	}

	if err := e.store.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("upsert synthesis %s/%s: %w", instrument, tradeDate, err)
	}
	return rec, nil
}

// Exists reports whether a record is cached for the key.
func (e *Engine) Exists(ctx context.Context, instrument, tradeDate string) (bool, error) {
	return e.store.Exists(ctx, instrument, tradeDate)
}

// Get retrieves the cached record for the key.
func (e *Engine) Get(ctx context.Context, instrument, tradeDate string) (*domain.DailySynthesisRecord, error) {
	return e.store.Get(ctx, instrument, tradeDate)
}

// Delete removes the cached record for the key.
func (e *Engine) Delete(ctx context.Context, instrument, tradeDate string) error {
	return e.store.Delete(ctx, instrument, tradeDate)
}

// AggregateRange reads the cached records within [startDate, endDate]
// and reduces them into one RangeSummary.
func (e *Engine) AggregateRange(ctx context.Context, instrument, startDate, endDate string) (*domain.RangeSummary, error) {
	records, err := e.store.GetRange(ctx, instrument, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("get range %s [%s, %s]: %w", instrument, startDate, endDate, err)
	}

	summary := Aggregate(records)
	summary.Instrument = instrument
	summary.StartDate = startDate
	summary.EndDate = endDate
	return summary, nil
}
