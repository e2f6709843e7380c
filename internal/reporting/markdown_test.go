package reporting

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"tape-analytics/internal/domain"
)

func sampleRecord() *domain.DailySynthesisRecord {
	return &domain.DailySynthesisRecord{
		Instrument: "BBCA",
		TradeDate:  "2024-03-01",
		Imposter: &domain.ImposterResult{
			Thresholds: domain.PercentileThresholds{P95: 500, P99: 900, SampleCount: 100, Reliable: true},
			PerBroker: map[string]*domain.BrokerImposterAggregate{
				"YP": {Count: 3, BuyValue: 90000, TotalValue: 90000, StrongCount: 2},
				"AK": {Count: 1, SellValue: 15000, TotalValue: 15000},
			},
			Summary: domain.ImposterSummary{
				TotalTransactions: 100,
				ImposterTrades:    4,
				ImposterValue:     105000,
				StrongCount:       2,
				PossibleCount:     2,
			},
		},
		Speed: &domain.SpeedResult{
			BurstEvents: []domain.BurstEvent{{Second: 1709260200, Count: 14}},
			Summary: domain.SpeedSummary{
				TotalTrades:        100,
				UniqueSeconds:      40,
				AvgTradesPerSecond: 2.5,
				MaxTradesPerSecond: 14,
				PeakSecond:         1709260200,
			},
		},
		Combined: &domain.CombinedSignalResult{
			Direction:  domain.DirectionBullish,
			Level:      domain.SignalModerate,
			Confidence: 55,
			PowerBrokers: []domain.PowerBroker{
				{
					Code:         "YP",
					Imposter:     domain.BrokerImposterAggregate{TotalValue: 90000},
					Speed:        domain.BrokerSpeedAggregate{TotalTrades: 30, TradesPerSecond: 1.5},
					NetDirection: domain.SideBuy,
				},
			},
			NetBuyValue:  90000,
			NetSellValue: 15000,
		},
		RawRecordCount:     100,
		RawDataFingerprint: "abcdef0123456789abcdef0123456789",
		ComputedAt:         time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestRenderDaily(t *testing.T) {
	out := RenderDaily(sampleRecord())

	for _, want := range []string{
		"# Synthesis BBCA 2024-03-01",
		"| BULLISH | MODERATE | 55.0 | 90000 | 15000 |",
		"### Power Brokers",
		"| YP | BUY | 90000 | 30 | 1.50 |",
		"Transactions: 100 | Imposter trades: 4 | Imposter value: 105000 | Strong: 2 | Possible: 2",
		"| YP | 3 | 90000 | 0 | 90000 | 2 |",
		"### Bursts",
		"| 02:30:00 | 14 |",
		"Fingerprint: abcdef012345",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}

	// Reliable thresholds draw no warning.
	if strings.Contains(out, "Low sample warning") {
		t.Error("unexpected low sample warning")
	}
}

func TestRenderDaily_LowSampleWarning(t *testing.T) {
	rec := sampleRecord()
	rec.Imposter.Thresholds.Reliable = false
	rec.Imposter.Thresholds.SampleCount = 12

	out := RenderDaily(rec)
	if !strings.Contains(out, "Low sample warning: 12 ticks") {
		t.Errorf("expected low sample warning\n%s", out)
	}
}

func TestRenderDaily_BrokerTableTruncatedAndSorted(t *testing.T) {
	rec := sampleRecord()
	rec.Imposter.PerBroker = map[string]*domain.BrokerImposterAggregate{}
	for i := 0; i < 15; i++ {
		code := fmt.Sprintf("B%02d", i)
		rec.Imposter.PerBroker[code] = &domain.BrokerImposterAggregate{
			Count:      1,
			TotalValue: float64(1000 * (i + 1)),
		}
	}

	out := RenderDaily(rec)
	if strings.Contains(out, "| B00 |") || strings.Contains(out, "| B04 |") {
		t.Errorf("low-value brokers should be truncated from display\n%s", out)
	}
	// Highest value first.
	top := strings.Index(out, "| B14 |")
	second := strings.Index(out, "| B13 |")
	if top == -1 || second == -1 || top > second {
		t.Errorf("broker rows not ranked by value\n%s", out)
	}
}

func TestRenderRange(t *testing.T) {
	summary := &domain.RangeSummary{
		Instrument:         "BBCA",
		StartDate:          "2024-03-01",
		EndDate:            "2024-03-05",
		DaysAnalyzed:       3,
		TotalTransactions:  300,
		TotalImposterValue: 250000,
		TotalImposterLot:   2500,
		TopBrokers: []domain.RangedBroker{
			{Code: "YP", Aggregate: domain.BrokerRangeAggregate{TotalValue: 180000, Count: 8, DaysActive: 3}, Recurring: true},
			{Code: "AK", Aggregate: domain.BrokerRangeAggregate{TotalValue: 70000, Count: 2, DaysActive: 1}},
		},
		DailyTimeline: []domain.DailyTimelineEntry{
			{TradeDate: "2024-03-01", Transactions: 100, ImposterValue: 90000, Direction: domain.DirectionBullish, Confidence: 55},
			{TradeDate: "2024-03-04", Transactions: 200, ImposterValue: 160000, Direction: domain.DirectionBearish, Confidence: 40},
		},
	}

	out := RenderRange(summary)
	for _, want := range []string{
		"# Range Summary BBCA (2024-03-01 to 2024-03-05)",
		"Days analyzed: 3 | Transactions: 300 | Imposter value: 250000 | Imposter lot: 2500",
		"| YP | 180000 | 8 | 3 | yes |",
		"| AK | 70000 | 2 | 1 |  |",
		"| 2024-03-01 | 100 | 90000 | BULLISH | 55.0 |",
		"| 2024-03-04 | 200 | 160000 | BEARISH | 40.0 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestRenderRange_Empty(t *testing.T) {
	out := RenderRange(&domain.RangeSummary{
		Instrument: "BBCA",
		StartDate:  "2024-03-01",
		EndDate:    "2024-03-05",
	})
	if !strings.Contains(out, "Days analyzed: 0") {
		t.Errorf("empty range should still render summary line\n%s", out)
	}
	if strings.Contains(out, "## Top Brokers") || strings.Contains(out, "## Daily Timeline") {
		t.Errorf("empty range should omit tables\n%s", out)
	}
}
