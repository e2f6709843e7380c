package domain

// SignalDirection is the net direction implied by imposter flow.
type SignalDirection string

const (
	DirectionBullish SignalDirection = "BULLISH"
	DirectionBearish SignalDirection = "BEARISH"
	DirectionNeutral SignalDirection = "NEUTRAL"
)

// SignalLevel tiers a confidence score.
type SignalLevel string

const (
	SignalStrong   SignalLevel = "STRONG"   // confidence >= 70
	SignalModerate SignalLevel = "MODERATE" // confidence >= 50
	SignalWeak     SignalLevel = "WEAK"     // confidence >= 30
	SignalNeutral  SignalLevel = "NEUTRAL"
)

// PowerBroker is a broker code present in both the top imposter-value
// ranking and the top trading-speed ranking for the same period.
type PowerBroker struct {
	Code         string                  `json:"code"`
	Imposter     BrokerImposterAggregate `json:"imposter"`
	Speed        BrokerSpeedAggregate    `json:"speed"`
	NetDirection TradeSide               `json:"net_direction"`
}

// ConfidenceFactors is the per-factor breakdown of a confidence score.
// Each factor is independently capped; the total is their sum clamped
// to [0, 100].
type ConfidenceFactors struct {
	FlowImbalance float64 `json:"flow_imbalance"` // max 40
	StrongCount   float64 `json:"strong_count"`   // max 25
	Burst         float64 `json:"burst"`          // max 20
	PowerBroker   float64 `json:"power_broker"`   // max 15
}

// CombinedSignalResult merges the imposter and speed passes into one
// directional signal with a bounded confidence score.
type CombinedSignalResult struct {
	Direction    SignalDirection   `json:"direction"`
	Level        SignalLevel       `json:"level"`
	Confidence   float64           `json:"confidence"`
	Factors      ConfidenceFactors `json:"factors"`
	PowerBrokers []PowerBroker     `json:"power_brokers"`
	NetBuyValue  float64           `json:"net_buy_value"`
	NetSellValue float64           `json:"net_sell_value"`
	NetValue     float64           `json:"net_value"`
}
