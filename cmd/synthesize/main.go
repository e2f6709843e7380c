package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"tape-analytics/internal/domain"
	"tape-analytics/internal/ingestion"
	"tape-analytics/internal/reporting"
	"tape-analytics/internal/storage"
	chstore "tape-analytics/internal/storage/clickhouse"
	"tape-analytics/internal/storage/memory"
	"tape-analytics/internal/storage/migrations"
	pgstore "tape-analytics/internal/storage/postgres"
	"tape-analytics/internal/synthesis"
)

func main() {
	// Analysis key
	instrument := flag.String("instrument", "", "Instrument code, e.g. BBCA (required)")
	tradeDate := flag.String("date", "", "Trade date YYYY-MM-DD (required)")

	// Input
	ticksCSV := flag.String("ticks-csv", "", "Path to tick CSV (time,price,quantity,buyer,seller)")
	brokersCSV := flag.String("brokers-csv", "", "Path to broker classification CSV (code,categories)")

	// Storage
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string for the synthesis cache")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string for the raw tick archive")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage (no persistence)")
	migrate := flag.Bool("migrate", false, "Apply embedded migrations before running")

	// Behavior
	burstThreshold := flag.Int("burst-threshold", domain.DefaultBurstThreshold, "Trades per second that count as a burst")
	force := flag.Bool("force", false, "Recompute even when the day is already cached")
	archiveTicks := flag.Bool("archive-ticks", false, "Store CSV ticks in ClickHouse and mark the day processed")

	// Output
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	if *instrument == "" || *tradeDate == "" {
		fmt.Fprintln(os.Stderr, "Error: --instrument and --date are required")
		os.Exit(1)
	}
	if !*useMemory && *postgresDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: --postgres-dsn is required when not using --use-memory")
		os.Exit(1)
	}
	if *ticksCSV == "" && *clickhouseDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: ticks must come from --ticks-csv or --clickhouse-dsn")
		os.Exit(1)
	}
	if *archiveTicks && (*ticksCSV == "" || *clickhouseDSN == "") {
		fmt.Fprintln(os.Stderr, "Error: --archive-ticks needs both --ticks-csv and --clickhouse-dsn")
		os.Exit(1)
	}

	ctx := context.Background()

	// Synthesis cache
	var synthesisStore storage.SynthesisStore = memory.NewSynthesisStore()
	if !*useMemory {
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to postgres: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()

		if *migrate {
			if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
				fmt.Fprintf(os.Stderr, "Error applying postgres migrations: %v\n", err)
				os.Exit(1)
			}
		}
		synthesisStore = pgstore.NewSynthesisStore(pool)
	}

	// Raw tick archive
	var tickStore storage.TickStore
	if *clickhouseDSN != "" {
		conn, err := connectClickhouse(ctx, *clickhouseDSN, *migrate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to clickhouse: %v\n", err)
			os.Exit(1)
		}
		defer conn.Close()
		tickStore = chstore.NewTickStore(conn)
	}

	classifier, err := loadClassifier(*brokersCSV)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading broker classifications: %v\n", err)
		os.Exit(1)
	}

	engine := synthesis.New(synthesis.Options{
		Store:          synthesisStore,
		Classifier:     classifier,
		BurstThreshold: *burstThreshold,
	})

	// Idempotent skip: a cached day is served as-is unless forced.
	if !*force {
		exists, err := engine.Exists(ctx, *instrument, *tradeDate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error checking cache: %v\n", err)
			os.Exit(1)
		}
		if exists {
			rec, err := engine.Get(ctx, *instrument, *tradeDate)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading cached synthesis: %v\n", err)
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "Day %s/%s already synthesized, serving cached result (use --force to recompute)\n",
				*instrument, *tradeDate)
			printRecord(rec, *outputJSON)
			return
		}
	}

	ticks, err := loadTicks(ctx, tickStore, *ticksCSV, *instrument, *tradeDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ticks: %v\n", err)
		os.Exit(1)
	}

	rec, err := engine.ComputeAndSave(ctx, *instrument, *tradeDate, ticks)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error synthesizing: %v\n", err)
		os.Exit(1)
	}

	if *archiveTicks {
		if err := tickStore.InsertBulk(ctx, *instrument, *tradeDate, ticks); err != nil {
			fmt.Fprintf(os.Stderr, "Error archiving ticks: %v\n", err)
			os.Exit(1)
		}
	}
	if tickStore != nil {
		if err := tickStore.MarkProcessed(ctx, *instrument, *tradeDate); err != nil {
			fmt.Fprintf(os.Stderr, "Error marking day processed: %v\n", err)
			os.Exit(1)
		}
	}

	printRecord(rec, *outputJSON)
}

func connectClickhouse(ctx context.Context, dsn string, migrate bool) (*chstore.Conn, error) {
	if migrate {
		return migrations.RunClickhouseMigrations(ctx, dsn)
	}
	return chstore.NewConn(ctx, dsn)
}

// loadClassifier builds the broker classifier; with no CSV every code
// falls back to UNKNOWN and no imposter findings are produced.
func loadClassifier(path string) (domain.BrokerClassifier, error) {
	if path == "" {
		return domain.StaticBrokerClassifier{}, nil
	}
	return ingestion.LoadBrokerCategories(path)
}

func loadTicks(ctx context.Context, tickStore storage.TickStore, csvPath, instrument, tradeDate string) ([]domain.TradeTick, error) {
	if csvPath != "" {
		return ingestion.LoadTicks(csvPath)
	}
	return tickStore.GetByDate(ctx, instrument, tradeDate)
}

func printRecord(rec *domain.DailySynthesisRecord, asJSON bool) {
	if asJSON {
		output, _ := json.MarshalIndent(rec, "", "  ")
		fmt.Println(string(output))
		return
	}
	fmt.Print(reporting.RenderDaily(rec))
}
