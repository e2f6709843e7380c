package synthesis

import (
	"sort"

	"tape-analytics/internal/domain"
)

// topRangeBrokers is the ranking depth within which recurring brokers
// are flagged.
const topRangeBrokers = 20

// Aggregate reduces cached daily records into one multi-day summary.
// The additive totals (imposter value, imposter lot, transactions)
// equal the sum of the corresponding single-day fields. Brokers active
// on more than one day are flagged recurring among the top
// topRangeBrokers by aggregated value.
func Aggregate(records []*domain.DailySynthesisRecord) *domain.RangeSummary {
	summary := &domain.RangeSummary{
		PerBroker:     make(map[string]*domain.BrokerRangeAggregate),
		TopBrokers:    []domain.RangedBroker{},
		DailyTimeline: []domain.DailyTimelineEntry{},
	}

	for _, rec := range records {
		if rec == nil || rec.Imposter == nil {
			continue
		}
		summary.DaysAnalyzed++
		summary.TotalTransactions += rec.Imposter.Summary.TotalTransactions
		summary.TotalImposterValue += rec.Imposter.Summary.ImposterValue
		summary.TotalImposterLot += rec.Imposter.Summary.ImposterLot

		for code, dayAgg := range rec.Imposter.PerBroker {
			agg, ok := summary.PerBroker[code]
			if !ok {
				agg = &domain.BrokerRangeAggregate{}
				summary.PerBroker[code] = agg
			}
			agg.Count += dayAgg.Count
			agg.BuyValue += dayAgg.BuyValue
			agg.SellValue += dayAgg.SellValue
			agg.TotalValue += dayAgg.TotalValue
			agg.TotalQuantity += dayAgg.TotalQuantity
			agg.DaysActive++
		}

		entry := domain.DailyTimelineEntry{
			TradeDate:     rec.TradeDate,
			Transactions:  rec.Imposter.Summary.TotalTransactions,
			ImposterValue: rec.Imposter.Summary.ImposterValue,
			ImposterLot:   rec.Imposter.Summary.ImposterLot,
			Direction:     domain.DirectionNeutral,
		}
		if rec.Combined != nil {
			entry.Direction = rec.Combined.Direction
			entry.Confidence = rec.Combined.Confidence
		}
		summary.DailyTimeline = append(summary.DailyTimeline, entry)
	}

	sort.Slice(summary.DailyTimeline, func(i, j int) bool {
		return summary.DailyTimeline[i].TradeDate < summary.DailyTimeline[j].TradeDate
	})

	summary.TopBrokers = rankRangeBrokers(summary.PerBroker)
	return summary
}

// rankRangeBrokers orders brokers by aggregated value descending (ties
// by code ascending) and flags multi-day brokers within the top slice.
func rankRangeBrokers(perBroker map[string]*domain.BrokerRangeAggregate) []domain.RangedBroker {
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
	if len(codes) > topRangeBrokers {
		codes = codes[:topRangeBrokers]
	}

	ranked := make([]domain.RangedBroker, 0, len(codes))
	for _, code := range codes {
		agg := perBroker[code]
		ranked = append(ranked, domain.RangedBroker{
			Code:      code,
			Aggregate: *agg,
			Recurring: agg.DaysActive > 1,
		})
	}
	return ranked
}
