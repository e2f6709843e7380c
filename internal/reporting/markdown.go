// Package reporting renders synthesis results for display. Truncation
// to top-N views happens here; the engine's aggregates stay full.
package reporting

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"tape-analytics/internal/domain"
)

// displayTopN is how many rows per-broker tables show.
const displayTopN = 10

// RenderDaily renders one day's synthesis record as Markdown.
func RenderDaily(rec *domain.DailySynthesisRecord) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Synthesis %s %s\n\n", rec.Instrument, rec.TradeDate))
	sb.WriteString(fmt.Sprintf("Computed: %s | Ticks: %d | Fingerprint: %s\n\n",
		rec.ComputedAt.Format(time.RFC3339), rec.RawRecordCount, shortFingerprint(rec.RawDataFingerprint)))

	if rec.Combined != nil {
		sb.WriteString("## Signal\n\n")
		sb.WriteString("| Direction | Level | Confidence | Net Buy | Net Sell |\n")
		sb.WriteString("|-----------|-------|------------|---------|----------|\n")
		sb.WriteString(fmt.Sprintf("| %s | %s | %.1f | %.0f | %.0f |\n\n",
			rec.Combined.Direction, rec.Combined.Level, rec.Combined.Confidence,
			rec.Combined.NetBuyValue, rec.Combined.NetSellValue))

		if len(rec.Combined.PowerBrokers) > 0 {
			sb.WriteString("### Power Brokers\n\n")
			sb.WriteString("| Broker | Net | Imposter Value | Trades | Trades/s |\n")
			sb.WriteString("|--------|-----|----------------|--------|----------|\n")
			for _, pb := range rec.Combined.PowerBrokers {
				sb.WriteString(fmt.Sprintf("| %s | %s | %.0f | %d | %.2f |\n",
					pb.Code, pb.NetDirection, pb.Imposter.TotalValue,
					pb.Speed.TotalTrades, pb.Speed.TradesPerSecond))
			}
			sb.WriteString("\n")
		}
	}

	if rec.Imposter != nil {
		sb.WriteString("## Imposter Activity\n\n")
		summary := rec.Imposter.Summary
		sb.WriteString(fmt.Sprintf("Transactions: %d | Imposter trades: %d | Imposter value: %.0f | Strong: %d | Possible: %d\n\n",
			summary.TotalTransactions, summary.ImposterTrades, summary.ImposterValue,
			summary.StrongCount, summary.PossibleCount))

		if !rec.Imposter.Thresholds.Reliable && summary.TotalTransactions > 0 {
			sb.WriteString(fmt.Sprintf("Low sample warning: %d ticks, percentiles unreliable.\n\n",
				rec.Imposter.Thresholds.SampleCount))
		}

		if len(rec.Imposter.PerBroker) > 0 {
			sb.WriteString("| Broker | Count | Buy Value | Sell Value | Total Value | Strong |\n")
			sb.WriteString("|--------|-------|-----------|------------|-------------|--------|\n")
			for _, code := range topImposterCodes(rec.Imposter.PerBroker) {
				agg := rec.Imposter.PerBroker[code]
				sb.WriteString(fmt.Sprintf("| %s | %d | %.0f | %.0f | %.0f | %d |\n",
					code, agg.Count, agg.BuyValue, agg.SellValue, agg.TotalValue, agg.StrongCount))
			}
			sb.WriteString("\n")
		}
	}

	if rec.Speed != nil {
		sb.WriteString("## Trading Speed\n\n")
		summary := rec.Speed.Summary
		sb.WriteString(fmt.Sprintf("Trades: %d | Active seconds: %d | Avg/s: %.2f | Max/s: %d | Peak: %s\n\n",
			summary.TotalTrades, summary.UniqueSeconds, summary.AvgTradesPerSecond,
			summary.MaxTradesPerSecond, formatSecond(summary.PeakSecond)))

		if len(rec.Speed.BurstEvents) > 0 {
			sb.WriteString("### Bursts\n\n")
			sb.WriteString("| Time | Trades |\n")
			sb.WriteString("|------|--------|\n")
			bursts := rec.Speed.BurstEvents
			if len(bursts) > displayTopN {
				bursts = bursts[:displayTopN]
			}
			for _, b := range bursts {
				sb.WriteString(fmt.Sprintf("| %s | %d |\n", formatSecond(b.Second), b.Count))
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// RenderRange renders a multi-day range summary as Markdown.
func RenderRange(summary *domain.RangeSummary) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Range Summary %s (%s to %s)\n\n",
		summary.Instrument, summary.StartDate, summary.EndDate))
	sb.WriteString(fmt.Sprintf("Days analyzed: %d | Transactions: %d | Imposter value: %.0f | Imposter lot: %.0f\n\n",
		summary.DaysAnalyzed, summary.TotalTransactions,
		summary.TotalImposterValue, summary.TotalImposterLot))

	if len(summary.TopBrokers) > 0 {
		sb.WriteString("## Top Brokers\n\n")
		sb.WriteString("| Broker | Total Value | Count | Days Active | Recurring |\n")
		sb.WriteString("|--------|-------------|-------|-------------|-----------|\n")
		for _, rb := range summary.TopBrokers {
			recurring := ""
			if rb.Recurring {
				recurring = "yes"
			}
			sb.WriteString(fmt.Sprintf("| %s | %.0f | %d | %d | %s |\n",
				rb.Code, rb.Aggregate.TotalValue, rb.Aggregate.Count, rb.Aggregate.DaysActive, recurring))
		}
		sb.WriteString("\n")
	}

	if len(summary.DailyTimeline) > 0 {
		sb.WriteString("## Daily Timeline\n\n")
		sb.WriteString("| Date | Transactions | Imposter Value | Direction | Confidence |\n")
		sb.WriteString("|------|--------------|----------------|-----------|------------|\n")
		for _, entry := range summary.DailyTimeline {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.0f | %s | %.1f |\n",
				entry.TradeDate, entry.Transactions, entry.ImposterValue,
				entry.Direction, entry.Confidence))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// topImposterCodes ranks codes by total value descending, ties by code,
// truncated for display.
func topImposterCodes(perBroker map[string]*domain.BrokerImposterAggregate) []string {
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
	if len(codes) > displayTopN {
		codes = codes[:displayTopN]
	}
	return codes
}

func formatSecond(second int64) string {
	return time.Unix(second, 0).UTC().Format("15:04:05")
}

func shortFingerprint(fingerprint string) string {
	if len(fingerprint) > 12 {
		return fingerprint[:12]
	}
	return fingerprint
}
