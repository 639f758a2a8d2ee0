package analytics

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

// ParseRecords reads CSV financial data with a header naming at least the
// date, category, revenue, expenses and profit columns (any order).
// Rows with unparsable dates or numbers are skipped and counted rather
// than aborting the import.
func ParseRecords(r io.Reader) ([]FinancialRecord, int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "category", "revenue", "expenses", "profit"} {
		if _, ok := cols[required]; !ok {
			return nil, 0, fmt.Errorf("missing required column %q", required)
		}
	}

	var records []FinancialRecord
	var skipped int
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		record, ok := parseRow(row, cols)
		if !ok {
			skipped++
			continue
		}
		records = append(records, record)
	}
	return records, skipped, nil
}

func parseRow(row []string, cols map[string]int) (FinancialRecord, bool) {
	field := func(name string) (string, bool) {
		i := cols[name]
		if i >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[i]), true
	}

	rawDate, ok := field("date")
	if !ok {
		return FinancialRecord{}, false
	}
	date, ok := parseDate(rawDate)
	if !ok {
		return FinancialRecord{}, false
	}

	category, _ := field("category")

	var nums [3]float64
	for i, name := range []string{"revenue", "expenses", "profit"} {
		raw, ok := field(name)
		if !ok {
			return FinancialRecord{}, false
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return FinancialRecord{}, false
		}
		nums[i] = v
	}

	return FinancialRecord{
		Date:     date,
		Category: category,
		Revenue:  nums[0],
		Expenses: nums[1],
		Profit:   nums[2],
	}, true
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
