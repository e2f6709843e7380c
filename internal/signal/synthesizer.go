// Package signal merges the imposter and speed passes into one
// directional signal with a bounded confidence score.
package signal

import (
	"sort"

	"tape-analytics/internal/domain"
)

// topN is the ranking depth used when intersecting imposter-value and
// trading-speed leaders into power brokers.
const topN = 10

// Confidence factor caps.
const (
	maxFlowFactor        = 40.0
	maxStrongFactor      = 25.0
	maxBurstFactor       = 20.0
	maxPowerBrokerFactor = 15.0
)

// Signal level tiers.
const (
	strongConfidence   = 70.0
	moderateConfidence = 50.0
	weakConfidence     = 30.0
)

// Synthesize combines one imposter pass and one speed pass into a
// directional signal. Pure function of its two inputs; the direction is
// computed over all findings, not just power brokers.
func Synthesize(imposter *domain.ImposterResult, speed *domain.SpeedResult) *domain.CombinedSignalResult {
	result := &domain.CombinedSignalResult{
		Direction:    domain.DirectionNeutral,
		Level:        domain.SignalNeutral,
		PowerBrokers: []domain.PowerBroker{},
	}
	if imposter == nil || speed == nil {
		return result
	}

	result.PowerBrokers = powerBrokers(imposter, speed)

	for _, f := range imposter.Findings {
		if f.Direction == domain.SideBuy {
			result.NetBuyValue += f.Value
		} else {
			result.NetSellValue += f.Value
		}
	}
	result.NetValue = result.NetBuyValue - result.NetSellValue
	switch {
	case result.NetValue > 0:
		result.Direction = domain.DirectionBullish
	case result.NetValue < 0:
		result.Direction = domain.DirectionBearish
	}

	result.Factors = domain.ConfidenceFactors{
		FlowImbalance: flowImbalanceFactor(result.NetBuyValue, result.NetSellValue),
		StrongCount:   strongCountFactor(imposter.Summary.StrongCount),
		Burst:         burstFactor(len(speed.BurstEvents)),
		PowerBroker:   powerBrokerFactor(len(result.PowerBrokers)),
	}
	result.Confidence = clamp(
		result.Factors.FlowImbalance+result.Factors.StrongCount+
			result.Factors.Burst+result.Factors.PowerBroker,
		0, 100)
	result.Level = levelFor(result.Confidence)

	return result
}

// powerBrokers intersects the top brokers by imposter value with the
// top brokers by trade count. Each entry carries both aggregates and
// the broker's own net direction.
func powerBrokers(imposter *domain.ImposterResult, speed *domain.SpeedResult) []domain.PowerBroker {
	byValue := topImposterBrokers(imposter.PerBroker)
	bySpeed := make(map[string]struct{}, topN)
	for _, code := range topSpeedBrokers(speed.PerBroker) {
		bySpeed[code] = struct{}{}
	}

	power := []domain.PowerBroker{}
	for _, code := range byValue {
		if _, ok := bySpeed[code]; !ok {
			continue
		}
		impAgg := imposter.PerBroker[code]
		spdAgg := speed.PerBroker[code]

		direction := domain.SideSell
		if impAgg.BuyValue > impAgg.SellValue {
			direction = domain.SideBuy
		}
		power = append(power, domain.PowerBroker{
			Code:         code,
			Imposter:     *impAgg,
			Speed:        *spdAgg,
			NetDirection: direction,
		})
	}
	return power
}

// topImposterBrokers ranks broker codes by imposter TotalValue
// descending, ties by code ascending, truncated to topN.
func topImposterBrokers(perBroker map[string]*domain.BrokerImposterAggregate) []string {
	codes := make([]string, 0, len(perBroker))
	for code := range perBroker {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		vi, vj := perBroker[codes[i]].TotalValue, perBroker[codes[j]].TotalValue
		if vi != vj {
			return vi > vj
		}
		return codes[i] < codes[j]
	})
	if len(codes) > topN {
		codes = codes[:topN]
	}
	return codes
}

// topSpeedBrokers ranks broker codes by TotalTrades descending, ties by
// code ascending, truncated to topN.
func topSpeedBrokers(perBroker map[string]*domain.BrokerSpeedAggregate) []string {
	codes := make([]string, 0, len(perBroker))
	for code := range perBroker {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		ti, tj := perBroker[codes[i]].TotalTrades, perBroker[codes[j]].TotalTrades
		if ti != tj {
			return ti > tj
		}
		return codes[i] < codes[j]
	})
	if len(codes) > topN {
		codes = codes[:topN]
	}
	return codes
}

// flowImbalanceFactor scales |buy-sell|/(buy+sell) onto [0, 40].
func flowImbalanceFactor(buyValue, sellValue float64) float64 {
	total := buyValue + sellValue
	if total == 0 {
		return 0
	}
	imbalance := buyValue - sellValue
	if imbalance < 0 {
		imbalance = -imbalance
	}
	return imbalance / total * maxFlowFactor
}

// strongCountFactor tiers the strong-finding count onto [0, 25].
func strongCountFactor(strongCount int) float64 {
	switch {
	case strongCount >= 10:
		return maxStrongFactor
	case strongCount >= 5:
		return 20
	case strongCount >= 3:
		return 15
	case strongCount >= 1:
		return 10
	default:
		return 0
	}
}

// burstFactor tiers the burst-event count onto [0, 20].
func burstFactor(burstCount int) float64 {
	switch {
	case burstCount >= 10:
		return maxBurstFactor
	case burstCount >= 5:
		return 15
	case burstCount >= 3:
		return 10
	case burstCount >= 1:
		return 5
	default:
		return 0
	}
}

// powerBrokerFactor tiers the power-broker count onto [0, 15].
func powerBrokerFactor(powerCount int) float64 {
	switch {
	case powerCount >= 5:
		return maxPowerBrokerFactor
	case powerCount >= 3:
		return 10
	case powerCount >= 1:
		return 5
	default:
		return 0
	}
}

func levelFor(confidence float64) domain.SignalLevel {
	switch {
	case confidence >= strongConfidence:
		return domain.SignalStrong
	case confidence >= moderateConfidence:
		return domain.SignalModerate
	case confidence >= weakConfidence:
		return domain.SignalWeak
	default:
		return domain.SignalNeutral
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
