// Package ingestion loads trade ticks and broker classifications from
// CSV files. It is the file-based stand-in for the ingestion
// collaborator that owns raw data acquisition.
package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"tape-analytics/internal/domain"
)

// tickTimeLayout is the human-readable timestamp format accepted in
// tick CSVs, parsed as UTC. Plain Unix seconds are accepted too.
const tickTimeLayout = "2006-01-02 15:04:05"

// LoadTicks reads a tick CSV with header
// time,price,quantity,buyer,seller. The time column holds Unix seconds
// or a "2006-01-02 15:04:05" timestamp.
func LoadTicks(path string) ([]domain.TradeTick, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tick csv: %w", err)
	}
	defer f.Close()

	return ReadTicks(f)
}

// ReadTicks parses tick CSV content from r.
func ReadTicks(r io.Reader) ([]domain.TradeTick, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return []domain.TradeTick{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) < 5 {
		return nil, fmt.Errorf("tick csv needs 5 columns (time,price,quantity,buyer,seller), got %d", len(header))
	}

	var ticks []domain.TradeTick
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line+1, err)
		}
		line++

		tick, err := parseTick(record)
		if err != nil {
			return nil, fmt.Errorf("parse csv line %d: %w", line, err)
		}
		ticks = append(ticks, tick)
	}

	return ticks, nil
}

func parseTick(record []string) (domain.TradeTick, error) {
	var tick domain.TradeTick

	ts, err := parseTime(record[0])
	if err != nil {
		return tick, err
	}
	price, err := strconv.ParseFloat(record[1], 64)
	if err != nil {
		return tick, fmt.Errorf("parse price %q: %w", record[1], err)
	}
	quantity, err := strconv.ParseFloat(record[2], 64)
	if err != nil {
		return tick, fmt.Errorf("parse quantity %q: %w", record[2], err)
	}
	if quantity < 0 {
		return tick, fmt.Errorf("negative quantity %q", record[2])
	}

	tick.Time = ts
	tick.Price = price
	tick.Quantity = quantity
	tick.BuyerCode = strings.TrimSpace(record[3])
	tick.SellerCode = strings.TrimSpace(record[4])
	return tick, nil
}

func parseTime(field string) (int64, error) {
	field = strings.TrimSpace(field)
	if seconds, err := strconv.ParseInt(field, 10, 64); err == nil {
		return seconds, nil
	}
	ts, err := time.Parse(tickTimeLayout, field)
	if err != nil {
		return 0, fmt.Errorf("parse time %q: %w", field, err)
	}
	return ts.Unix(), nil
}

// LoadBrokerCategories reads a classification CSV with header
// code,categories, where categories is a |-separated list of
// RETAIL, INSTITUTIONAL, FOREIGN, MIXED or UNKNOWN.
func LoadBrokerCategories(path string) (domain.StaticBrokerClassifier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open broker csv: %w", err)
	}
	defer f.Close()

	return ReadBrokerCategories(f)
}

// ReadBrokerCategories parses classification CSV content from r.
func ReadBrokerCategories(r io.Reader) (domain.StaticBrokerClassifier, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	classifier := make(domain.StaticBrokerClassifier)

	if _, err := reader.Read(); err == io.EOF {
		return classifier, nil
	} else if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line+1, err)
		}
		line++

		if len(record) < 2 {
			return nil, fmt.Errorf("parse csv line %d: need code,categories", line)
		}
		code := strings.TrimSpace(record[0])
		if code == "" {
			return nil, fmt.Errorf("parse csv line %d: empty broker code", line)
		}

		var categories domain.CategorySet
		for _, raw := range strings.Split(record[1], "|") {
			category, err := parseCategory(raw)
			if err != nil {
				return nil, fmt.Errorf("parse csv line %d: %w", line, err)
			}
			categories = append(categories, category)
		}
		classifier[code] = categories
	}

	return classifier, nil
}

func parseCategory(raw string) (domain.BrokerCategory, error) {
	switch domain.BrokerCategory(strings.ToUpper(strings.TrimSpace(raw))) {
	case domain.CategoryRetail:
		return domain.CategoryRetail, nil
	case domain.CategoryInstitutional:
		return domain.CategoryInstitutional, nil
	case domain.CategoryForeign:
		return domain.CategoryForeign, nil
	case domain.CategoryMixed:
		return domain.CategoryMixed, nil
	case domain.CategoryUnknown:
		return domain.CategoryUnknown, nil
	default:
		return "", fmt.Errorf("unknown broker category %q", raw)
	}
}
