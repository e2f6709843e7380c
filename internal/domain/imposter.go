package domain

// ImposterLevel grades how far outside the quantity distribution a
// trade sits.
type ImposterLevel string

const (
	// LevelStrong marks quantities at or above the 99th percentile.
	LevelStrong ImposterLevel = "STRONG"
	// LevelPossible marks quantities in the [P95, P99) band.
	LevelPossible ImposterLevel = "POSSIBLE"
	// LevelNone marks quantities below the 95th percentile.
	LevelNone ImposterLevel = ""
)

// ImposterFinding is one qualifying trade side: an outlier-sized trade
// attributed to a retail or mixed-category broker. A single tick can
// produce zero, one, or two findings (buyer and seller side are
// evaluated independently).
type ImposterFinding struct {
	Time           int64         `json:"time"`
	BrokerCode     string        `json:"broker_code"`
	Direction      TradeSide     `json:"direction"`
	Quantity       float64       `json:"quantity"`
	Price          float64       `json:"price"`
	Value          float64       `json:"value"`
	Counterparty   string        `json:"counterparty"`
	Level          ImposterLevel `json:"level"`
	PercentileRank float64       `json:"percentile_rank"` // display only
}

// BrokerImposterAggregate accumulates findings per broker code.
//
// Invariants: StrongCount+PossibleCount == Count and
// BuyCount+SellCount == Count.
type BrokerImposterAggregate struct {
	Count         int     `json:"count"`
	BuyCount      int     `json:"buy_count"`
	SellCount     int     `json:"sell_count"`
	BuyValue      float64 `json:"buy_value"`
	SellValue     float64 `json:"sell_value"`
	TotalValue    float64 `json:"total_value"`
	TotalQuantity float64 `json:"total_quantity"`
	StrongCount   int     `json:"strong_count"`
	PossibleCount int     `json:"possible_count"`
}

// ClassifiedTrade annotates a tick with its distribution level for
// display. The level reflects quantity alone, independent of broker
// category.
type ClassifiedTrade struct {
	Tick  TradeTick     `json:"tick"`
	Level ImposterLevel `json:"level,omitempty"`
}

// ImposterSummary totals one detection pass.
//
// TotalValue/TotalQuantity sum over all ticks. ImposterValue/ImposterLot
// sum over ticks that produced at least one finding, counted once per
// tick even when both sides qualify. StrongCount/PossibleCount count
// findings, so a both-sides tick can contribute two.
type ImposterSummary struct {
	TotalTransactions int     `json:"total_transactions"`
	TotalValue        float64 `json:"total_value"`
	TotalQuantity     float64 `json:"total_quantity"`
	ImposterTrades    int     `json:"imposter_trades"`
	ImposterValue     float64 `json:"imposter_value"`
	ImposterLot       float64 `json:"imposter_lot"`
	StrongCount       int     `json:"strong_count"`
	PossibleCount     int     `json:"possible_count"`
}

// ImposterResult is the full output of one detection pass over a tick
// slice. Aggregates are untruncated; presentation layers take top-N
// views themselves.
type ImposterResult struct {
	Thresholds PercentileThresholds                `json:"thresholds"`
	AllTrades  []ClassifiedTrade                   `json:"all_trades"`
	Findings   []ImposterFinding                   `json:"findings"`
	PerBroker  map[string]*BrokerImposterAggregate `json:"per_broker"`
	Summary    ImposterSummary                     `json:"summary"`
}
