// Package speed measures trading velocity: per-second trade histograms,
// burst seconds, per-broker pace and minute-bucketed timelines.
package speed

import (
	"sort"

	"tape-analytics/internal/domain"
)

// brokerAccumulator tracks one broker's counts plus the distinct
// seconds it was active in, before the aggregate is finalized.
type brokerAccumulator struct {
	agg     domain.BrokerSpeedAggregate
	seconds map[int64]struct{}
}

// Analyze builds the per-second histogram and velocity statistics for a
// tick slice in a single pass. A trade counts once in the global
// histogram but contributes to both the buyer's and the seller's
// per-broker activity. Zero ticks yields a zeroed result, never an
// error.
//
// burstThreshold <= 0 falls back to domain.DefaultBurstThreshold.
func Analyze(ticks []domain.TradeTick, burstThreshold int) *domain.SpeedResult {
	if burstThreshold <= 0 {
		burstThreshold = domain.DefaultBurstThreshold
	}

	result := &domain.SpeedResult{
		GlobalTimeline: []domain.SecondBucket{},
		PerBroker:      make(map[string]*domain.BrokerSpeedAggregate),
		BurstEvents:    []domain.BurstEvent{},
		MinuteTimeline: []domain.MinuteBucket{},
	}
	if len(ticks) == 0 {
		return result
	}

	secondCounts := make(map[int64]int)
	brokers := make(map[string]*brokerAccumulator)

	for _, tick := range ticks {
		secondCounts[tick.Second()]++
		record(brokers, tick.BuyerCode, tick, domain.SideBuy)
		record(brokers, tick.SellerCode, tick, domain.SideSell)
	}

	result.GlobalTimeline = buildTimeline(secondCounts)
	result.BurstEvents = detectBursts(result.GlobalTimeline, burstThreshold)
	result.MinuteTimeline = buildMinuteTimeline(result.GlobalTimeline, result.BurstEvents)

	for code, acc := range brokers {
		acc.agg.SecondsActive = len(acc.seconds)
		if acc.agg.SecondsActive > 0 {
			acc.agg.TradesPerSecond = float64(acc.agg.TotalTrades) / float64(acc.agg.SecondsActive)
		}
		agg := acc.agg
		result.PerBroker[code] = &agg
	}

	result.Summary = summarize(ticks, result.GlobalTimeline)
	return result
}

func record(brokers map[string]*brokerAccumulator, code string, tick domain.TradeTick, side domain.TradeSide) {
	acc, ok := brokers[code]
	if !ok {
		acc = &brokerAccumulator{seconds: make(map[int64]struct{})}
		brokers[code] = acc
	}
	acc.agg.TotalTrades++
	acc.agg.TotalValue += tick.Value()
	if side == domain.SideBuy {
		acc.agg.BuyTrades++
	} else {
		acc.agg.SellTrades++
	}
	acc.seconds[tick.Second()] = struct{}{}
}

// buildTimeline converts the second histogram into a slice sorted
// ascending by second.
func buildTimeline(secondCounts map[int64]int) []domain.SecondBucket {
	timeline := make([]domain.SecondBucket, 0, len(secondCounts))
	for second, count := range secondCounts {
		timeline = append(timeline, domain.SecondBucket{Second: second, Count: count})
	}
	sort.Slice(timeline, func(i, j int) bool {
		return timeline[i].Second < timeline[j].Second
	})
	return timeline
}

// detectBursts returns every second at or above the threshold, sorted
// descending by count with ties broken by earliest second.
func detectBursts(timeline []domain.SecondBucket, threshold int) []domain.BurstEvent {
	bursts := []domain.BurstEvent{}
	for _, bucket := range timeline {
		if bucket.Count >= threshold {
			bursts = append(bursts, domain.BurstEvent{Second: bucket.Second, Count: bucket.Count})
		}
	}
	sort.Slice(bursts, func(i, j int) bool {
		if bursts[i].Count != bursts[j].Count {
			return bursts[i].Count > bursts[j].Count
		}
		return bursts[i].Second < bursts[j].Second
	})
	return bursts
}

// buildMinuteTimeline folds the per-second timeline into per-minute
// sums, flagging minutes that contain a burst second.
func buildMinuteTimeline(timeline []domain.SecondBucket, bursts []domain.BurstEvent) []domain.MinuteBucket {
	burstSeconds := make(map[int64]struct{}, len(bursts))
	for _, b := range bursts {
		burstSeconds[b.Second] = struct{}{}
	}

	minuteCounts := make(map[int64]*domain.MinuteBucket)
	for _, bucket := range timeline {
		minute := bucket.Second - bucket.Second%60
		mb, ok := minuteCounts[minute]
		if !ok {
			mb = &domain.MinuteBucket{Minute: minute}
			minuteCounts[minute] = mb
		}
		mb.Count += bucket.Count
		if _, burst := burstSeconds[bucket.Second]; burst {
			mb.HasBurst = true
		}
	}

	minutes := make([]domain.MinuteBucket, 0, len(minuteCounts))
	for _, mb := range minuteCounts {
		minutes = append(minutes, *mb)
	}
	sort.Slice(minutes, func(i, j int) bool {
		return minutes[i].Minute < minutes[j].Minute
	})
	return minutes
}

// summarize computes session-level velocity figures. The peak second is
// the earliest second achieving the maximum count; the ascending
// timeline makes the first maximum the earliest.
func summarize(ticks []domain.TradeTick, timeline []domain.SecondBucket) domain.SpeedSummary {
	summary := domain.SpeedSummary{
		TotalTrades:   len(ticks),
		UniqueSeconds: len(timeline),
	}
	for _, bucket := range timeline {
		if bucket.Count > summary.MaxTradesPerSecond {
			summary.MaxTradesPerSecond = bucket.Count
			summary.PeakSecond = bucket.Second
		}
	}
	if summary.UniqueSeconds > 0 {
		summary.AvgTradesPerSecond = float64(summary.TotalTrades) / float64(summary.UniqueSeconds)
	}
	return summary
}
