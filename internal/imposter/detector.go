// Package imposter detects disguised large-volume activity: outlier-sized
// trades attributed to retail or mixed-category broker accounts.
package imposter

import (
	"sort"

	"tape-analytics/internal/domain"
	"tape-analytics/internal/stats"
)

// Detect classifies every tick against quantity thresholds derived from
// the entire slice and records a finding per qualifying trade side.
// Buyer and seller sides are evaluated independently, so one tick can
// produce up to two findings. Zero ticks yields a zeroed result, never
// an error.
//
// Thresholds never leak across calls: each invocation computes its own
// distribution from the ticks it was given.
func Detect(ticks []domain.TradeTick, classifier domain.BrokerClassifier) *domain.ImposterResult {
	result := &domain.ImposterResult{
		AllTrades: []domain.ClassifiedTrade{},
		Findings:  []domain.ImposterFinding{},
		PerBroker: make(map[string]*domain.BrokerImposterAggregate),
	}
	if len(ticks) == 0 {
		return result
	}

	quantities := make([]float64, len(ticks))
	for i, tick := range ticks {
		quantities[i] = tick.Quantity
	}
	thresholds, err := stats.ComputeThresholds(quantities)
	if err != nil {
		// Unreachable with a non-empty slice; keep the zeroed result.
		return result
	}
	result.Thresholds = thresholds

	sorted := make([]float64, len(quantities))
	copy(sorted, quantities)
	sort.Float64s(sorted)

	for _, tick := range ticks {
		level := classify(tick.Quantity, thresholds)
		result.AllTrades = append(result.AllTrades, domain.ClassifiedTrade{Tick: tick, Level: level})

		result.Summary.TotalTransactions++
		result.Summary.TotalValue += tick.Value()
		result.Summary.TotalQuantity += tick.Quantity

		if level == domain.LevelNone {
			continue
		}

		rank := stats.Rank(sorted, tick.Quantity)
		flagged := false

		if classifier.Classify(tick.BuyerCode).RetailLike() {
			finding := newFinding(tick, domain.SideBuy, level, rank)
			result.Findings = append(result.Findings, finding)
			accumulate(result.PerBroker, finding)
			countFinding(&result.Summary, level)
			flagged = true
		}
		if classifier.Classify(tick.SellerCode).RetailLike() {
			finding := newFinding(tick, domain.SideSell, level, rank)
			result.Findings = append(result.Findings, finding)
			accumulate(result.PerBroker, finding)
			countFinding(&result.Summary, level)
			flagged = true
		}

		// Imposter totals are tick-level: a trade where both sides
		// qualify is still one economic trade.
		if flagged {
			result.Summary.ImposterTrades++
			result.Summary.ImposterValue += tick.Value()
			result.Summary.ImposterLot += tick.Quantity
		}
	}

	return result
}

// classify grades a quantity against the thresholds.
func classify(quantity float64, th domain.PercentileThresholds) domain.ImposterLevel {
	switch {
	case quantity >= th.P99:
		return domain.LevelStrong
	case quantity >= th.P95:
		return domain.LevelPossible
	default:
		return domain.LevelNone
	}
}

func newFinding(tick domain.TradeTick, side domain.TradeSide, level domain.ImposterLevel, rank float64) domain.ImposterFinding {
	broker, counterparty := tick.BuyerCode, tick.SellerCode
	if side == domain.SideSell {
		broker, counterparty = tick.SellerCode, tick.BuyerCode
	}
	return domain.ImposterFinding{
		Time:           tick.Time,
		BrokerCode:     broker,
		Direction:      side,
		Quantity:       tick.Quantity,
		Price:          tick.Price,
		Value:          tick.Value(),
		Counterparty:   counterparty,
		Level:          level,
		PercentileRank: rank,
	}
}

func accumulate(perBroker map[string]*domain.BrokerImposterAggregate, f domain.ImposterFinding) {
	agg, ok := perBroker[f.BrokerCode]
	if !ok {
		agg = &domain.BrokerImposterAggregate{}
		perBroker[f.BrokerCode] = agg
	}

	agg.Count++
	agg.TotalValue += f.Value
	agg.TotalQuantity += f.Quantity
	if f.Direction == domain.SideBuy {
		agg.BuyCount++
		agg.BuyValue += f.Value
	} else {
		agg.SellCount++
		agg.SellValue += f.Value
	}
	if f.Level == domain.LevelStrong {
		agg.StrongCount++
	} else {
		agg.PossibleCount++
	}
}

func countFinding(summary *domain.ImposterSummary, level domain.ImposterLevel) {
	if level == domain.LevelStrong {
		summary.StrongCount++
	} else {
		summary.PossibleCount++
	}
}
