package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"tape-analytics/internal/domain"
	"tape-analytics/internal/reporting"
	"tape-analytics/internal/storage"
	pgstore "tape-analytics/internal/storage/postgres"
	"tape-analytics/internal/synthesis"
)

func main() {
	instrument := flag.String("instrument", "", "Instrument code, e.g. BBCA (required)")
	startDate := flag.String("start", "", "Range start date YYYY-MM-DD inclusive (required)")
	endDate := flag.String("end", "", "Range end date YYYY-MM-DD inclusive (required)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string for the synthesis cache (required)")
	date := flag.String("date", "", "Report a single cached day instead of a range")
	outputJSON := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	if *instrument == "" || *postgresDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: --instrument and --postgres-dsn are required")
		os.Exit(1)
	}
	if *date == "" && (*startDate == "" || *endDate == "") {
		fmt.Fprintln(os.Stderr, "Error: provide --start and --end, or --date for a single day")
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to postgres: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	engine := synthesis.New(synthesis.Options{
		Store:      pgstore.NewSynthesisStore(pool),
		Classifier: domain.StaticBrokerClassifier{},
	})

	if *date != "" {
		reportDay(ctx, engine, *instrument, *date, *outputJSON)
		return
	}

	if err := validateRange(*startDate, *endDate); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	summary, err := engine.AggregateRange(ctx, *instrument, *startDate, *endDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error aggregating range: %v\n", err)
		os.Exit(1)
	}

	if *outputJSON {
		output, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Println(string(output))
		return
	}
	fmt.Print(reporting.RenderRange(summary))
}

func reportDay(ctx context.Context, engine *synthesis.Engine, instrument, date string, asJSON bool) {
	rec, err := engine.Get(ctx, instrument, date)
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "No cached synthesis for %s/%s, run synthesize first\n", instrument, date)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading cached synthesis: %v\n", err)
		os.Exit(1)
	}

	if asJSON {
		output, _ := json.MarshalIndent(rec, "", "  ")
		fmt.Println(string(output))
		return
	}
	fmt.Print(reporting.RenderDaily(rec))
}

func validateRange(startDate, endDate string) error {
	start, err := time.Parse(domain.TradeDateLayout, startDate)
	if err != nil {
		return fmt.Errorf("parse start date %q: %w", startDate, err)
	}
	end, err := time.Parse(domain.TradeDateLayout, endDate)
	if err != nil {
		return fmt.Errorf("parse end date %q: %w", endDate, err)
	}
	if end.Before(start) {
		return fmt.Errorf("end date %s before start date %s", endDate, startDate)
	}
	return nil
}
