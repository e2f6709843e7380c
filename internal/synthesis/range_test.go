package synthesis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"tape-analytics/internal/domain"
	"tape-analytics/internal/storage/memory"
)

func dayRecord(date string, imposterValue, imposterLot float64, transactions int, perBroker map[string]*domain.BrokerImposterAggregate) *domain.DailySynthesisRecord {
	return &domain.DailySynthesisRecord{
		Instrument: "BBCA",
		TradeDate:  date,
		Imposter: &domain.ImposterResult{
			PerBroker: perBroker,
			Summary: domain.ImposterSummary{
				TotalTransactions: transactions,
				ImposterValue:     imposterValue,
				ImposterLot:       imposterLot,
			},
		},
		Speed: &domain.SpeedResult{},
		Combined: &domain.CombinedSignalResult{
			Direction:  domain.DirectionBullish,
			Confidence: 40,
		},
		ComputedAt: time.Unix(1700000000, 0).UTC(),
	}
}

func TestAggregate_AdditiveTotals(t *testing.T) {
	records := []*domain.DailySynthesisRecord{
		dayRecord("2024-03-01", 100, 10, 500, nil),
		dayRecord("2024-03-02", 50, 5, 300, nil),
	}

	summary := Aggregate(records)

	if summary.DaysAnalyzed != 2 {
		t.Errorf("DaysAnalyzed = %d, want 2", summary.DaysAnalyzed)
	}
	if summary.TotalImposterValue != 150 {
		t.Errorf("TotalImposterValue = %f, want 150", summary.TotalImposterValue)
	}
	if summary.TotalImposterLot != 15 {
		t.Errorf("TotalImposterLot = %f, want 15", summary.TotalImposterLot)
	}
	if summary.TotalTransactions != 800 {
		t.Errorf("TotalTransactions = %d, want 800", summary.TotalTransactions)
	}
}

func TestAggregate_Empty(t *testing.T) {
	summary := Aggregate(nil)

	if summary.DaysAnalyzed != 0 || summary.TotalImposterValue != 0 {
		t.Errorf("empty aggregate should be zeroed, got %+v", summary)
	}
	if summary.PerBroker == nil || summary.TopBrokers == nil || summary.DailyTimeline == nil {
		t.Error("empty aggregate must still have well-formed collections")
	}
}

func TestAggregate_PerBrokerDaysActive(t *testing.T) {
	records := []*domain.DailySynthesisRecord{
		dayRecord("2024-03-01", 100, 10, 500, map[string]*domain.BrokerImposterAggregate{
			"R1": {Count: 2, BuyValue: 80, TotalValue: 80, TotalQuantity: 8},
			"R2": {Count: 1, SellValue: 20, TotalValue: 20, TotalQuantity: 2},
		}),
		dayRecord("2024-03-02", 50, 5, 300, map[string]*domain.BrokerImposterAggregate{
			"R1": {Count: 1, BuyValue: 50, TotalValue: 50, TotalQuantity: 5},
		}),
	}

	summary := Aggregate(records)

	r1 := summary.PerBroker["R1"]
	if r1 == nil {
		t.Fatal("expected R1 in PerBroker")
	}
	if r1.Count != 3 || r1.TotalValue != 130 || r1.DaysActive != 2 {
		t.Errorf("R1 aggregate wrong: %+v", r1)
	}
	r2 := summary.PerBroker["R2"]
	if r2 == nil || r2.DaysActive != 1 {
		t.Errorf("R2 aggregate wrong: %+v", r2)
	}
}

func TestAggregate_RecurringFlag(t *testing.T) {
	records := []*domain.DailySynthesisRecord{
		dayRecord("2024-03-01", 0, 0, 0, map[string]*domain.BrokerImposterAggregate{
			"MULTI":  {Count: 1, TotalValue: 100},
			"SINGLE": {Count: 1, TotalValue: 200},
		}),
		dayRecord("2024-03-02", 0, 0, 0, map[string]*domain.BrokerImposterAggregate{
			"MULTI": {Count: 1, TotalValue: 100},
		}),
	}

	summary := Aggregate(records)

	if len(summary.TopBrokers) != 2 {
		t.Fatalf("expected 2 top brokers, got %d", len(summary.TopBrokers))
	}
	// MULTI aggregated 200 ties with SINGLE 200; code order breaks the tie.
	for _, rb := range summary.TopBrokers {
		wantRecurring := rb.Code == "MULTI"
		if rb.Recurring != wantRecurring {
			t.Errorf("%s recurring = %v, want %v", rb.Code, rb.Recurring, wantRecurring)
		}
	}
}

func TestAggregate_TopBrokersTruncatedAndSorted(t *testing.T) {
	perBroker := make(map[string]*domain.BrokerImposterAggregate)
	for i := 0; i < 30; i++ {
		perBroker[fmt.Sprintf("B%02d", i)] = &domain.BrokerImposterAggregate{
			Count: 1, TotalValue: float64(i + 1),
		}
	}
	summary := Aggregate([]*domain.DailySynthesisRecord{
		dayRecord("2024-03-01", 0, 0, 0, perBroker),
	})

	if len(summary.TopBrokers) != topRangeBrokers {
		t.Fatalf("expected %d top brokers, got %d", topRangeBrokers, len(summary.TopBrokers))
	}
	for i := 1; i < len(summary.TopBrokers); i++ {
		if summary.TopBrokers[i].Aggregate.TotalValue > summary.TopBrokers[i-1].Aggregate.TotalValue {
			t.Error("top brokers not sorted by value descending")
		}
	}
	// The full map stays untruncated.
	if len(summary.PerBroker) != 30 {
		t.Errorf("PerBroker truncated: %d entries, want 30", len(summary.PerBroker))
	}
}

func TestAggregate_TimelineAscending(t *testing.T) {
	records := []*domain.DailySynthesisRecord{
		dayRecord("2024-03-04", 1, 1, 1, nil),
		dayRecord("2024-03-01", 1, 1, 1, nil),
		dayRecord("2024-03-02", 1, 1, 1, nil),
	}

	summary := Aggregate(records)

	want := []string{"2024-03-01", "2024-03-02", "2024-03-04"}
	for i, entry := range summary.DailyTimeline {
		if entry.TradeDate != want[i] {
			t.Errorf("timeline[%d] = %s, want %s", i, entry.TradeDate, want[i])
		}
		if entry.Direction != domain.DirectionBullish || entry.Confidence != 40 {
			t.Errorf("timeline[%d] signal fields wrong: %+v", i, entry)
		}
	}
}

func TestAggregateRange_UsesStore(t *testing.T) {
	store := memory.NewSynthesisStore()
	ctx := context.Background()
	for _, rec := range []*domain.DailySynthesisRecord{
		dayRecord("2024-03-01", 100, 10, 500, nil),
		dayRecord("2024-03-02", 50, 5, 300, nil),
		dayRecord("2024-03-09", 999, 99, 900, nil), // outside range
	} {
		if err := store.Upsert(ctx, rec); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	engine := New(Options{Store: store, Classifier: domain.StaticBrokerClassifier{}})
	summary, err := engine.AggregateRange(ctx, "BBCA", "2024-03-01", "2024-03-05")
	if err != nil {
		t.Fatalf("AggregateRange failed: %v", err)
	}

	if summary.DaysAnalyzed != 2 || summary.TotalImposterValue != 150 {
		t.Errorf("range summary wrong: %+v", summary)
	}
	if summary.Instrument != "BBCA" || summary.StartDate != "2024-03-01" || summary.EndDate != "2024-03-05" {
		t.Errorf("range identity fields wrong: %+v", summary)
	}
}
