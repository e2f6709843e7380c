package domain

// DefaultBurstThreshold is the minimum number of trades in one second
// for that second to count as a burst.
const DefaultBurstThreshold = 10

// SecondBucket is the global trade count at one timestamp-second.
type SecondBucket struct {
	Second int64 `json:"second"`
	Count  int   `json:"count"`
}

// MinuteBucket sums per-second counts into one minute of the session.
// HasBurst is set when any constituent second produced a burst event.
type MinuteBucket struct {
	Minute   int64 `json:"minute"`
	Count    int   `json:"count"`
	HasBurst bool  `json:"has_burst"`
}

// BurstEvent is a one-second window whose trade count reached the burst
// threshold.
type BurstEvent struct {
	Second int64 `json:"second"`
	Count  int   `json:"count"`
}

// BrokerSpeedAggregate accumulates trading-velocity statistics per
// broker code. A broker is active in a second if it appeared as buyer
// or seller; TradesPerSecond is TotalTrades over distinct active
// seconds.
type BrokerSpeedAggregate struct {
	TotalTrades     int     `json:"total_trades"`
	BuyTrades       int     `json:"buy_trades"`
	SellTrades      int     `json:"sell_trades"`
	TotalValue      float64 `json:"total_value"`
	SecondsActive   int     `json:"seconds_active"`
	TradesPerSecond float64 `json:"trades_per_second"`
}

// SpeedSummary totals one analysis pass.
type SpeedSummary struct {
	TotalTrades        int     `json:"total_trades"`
	UniqueSeconds      int     `json:"unique_seconds"`
	AvgTradesPerSecond float64 `json:"avg_trades_per_second"`
	MaxTradesPerSecond int     `json:"max_trades_per_second"`
	// PeakSecond is the earliest second achieving the maximum count.
	PeakSecond int64 `json:"peak_second"`
}

// SpeedResult is the full output of one speed/burst pass over a tick
// slice. GlobalTimeline is sorted ascending by second; BurstEvents
// descending by count with ties broken by earliest second.
type SpeedResult struct {
	GlobalTimeline []SecondBucket                   `json:"global_timeline"`
	PerBroker      map[string]*BrokerSpeedAggregate `json:"per_broker"`
	BurstEvents    []BurstEvent                     `json:"burst_events"`
	MinuteTimeline []MinuteBucket                   `json:"minute_timeline"`
	Summary        SpeedSummary                     `json:"summary"`
}
