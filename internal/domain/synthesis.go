package domain

import "time"

// TradeDateLayout is the canonical format for trade dates in cache keys.
const TradeDateLayout = "2006-01-02"

// DailySynthesisRecord is the persisted bundle of all three analysis
// payloads for one instrument on one trade date. Corresponds to the
// daily_synthesis table; unique key (instrument, trade_date).
type DailySynthesisRecord struct {
	Instrument string `json:"instrument"`
	TradeDate  string `json:"trade_date"` // TradeDateLayout

	Imposter *ImposterResult       `json:"imposter"`
	Speed    *SpeedResult          `json:"speed"`
	Combined *CombinedSignalResult `json:"combined"`

	// Provenance
	RawRecordCount     int       `json:"raw_record_count"`
	RawDataFingerprint string    `json:"raw_data_fingerprint"` // SHA-256 over the canonical tick serialization
	ComputedAt         time.Time `json:"computed_at"`
}

// BrokerRangeAggregate accumulates one broker's imposter totals across
// the days of a range query.
type BrokerRangeAggregate struct {
	Count         int     `json:"count"`
	BuyValue      float64 `json:"buy_value"`
	SellValue     float64 `json:"sell_value"`
	TotalValue    float64 `json:"total_value"`
	TotalQuantity float64 `json:"total_quantity"`
	DaysActive    int     `json:"days_active"`
}

// RangedBroker is one entry of the range top-broker ranking. Recurring
// marks brokers active on more than one day of the range.
type RangedBroker struct {
	Code      string               `json:"code"`
	Aggregate BrokerRangeAggregate `json:"aggregate"`
	Recurring bool                 `json:"recurring"`
}

// DailyTimelineEntry is one day of a range summary's timeline.
type DailyTimelineEntry struct {
	TradeDate     string          `json:"trade_date"`
	Transactions  int             `json:"transactions"`
	ImposterValue float64         `json:"imposter_value"`
	ImposterLot   float64         `json:"imposter_lot"`
	Direction     SignalDirection `json:"direction"`
	Confidence    float64         `json:"confidence"`
}

// RangeSummary reduces N cached daily records into one multi-day view.
// The additive totals equal the sum of the corresponding single-day
// summary fields.
type RangeSummary struct {
	Instrument         string                           `json:"instrument"`
	StartDate          string                           `json:"start_date"`
	EndDate            string                           `json:"end_date"`
	DaysAnalyzed       int                              `json:"days_analyzed"`
	TotalTransactions  int                              `json:"total_transactions"`
	TotalImposterValue float64                          `json:"total_imposter_value"`
	TotalImposterLot   float64                          `json:"total_imposter_lot"`
	PerBroker          map[string]*BrokerRangeAggregate `json:"per_broker"`
	TopBrokers         []RangedBroker                   `json:"top_brokers"`
	DailyTimeline      []DailyTimelineEntry             `json:"daily_timeline"`
}
