package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/dkaz/retail-ledger/internal/ledger/domain"
)

// Period is a time-bucketing unit for series aggregation.
type Period string

const (
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// ParsePeriod validates a period name.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodMonth, PeriodQuarter, PeriodYear:
		return Period(s), nil
	case "":
		return PeriodMonth, nil
	}
	return "", &domain.ValidationError{Field: "period", Reason: "must be month, quarter or year"}
}

// FinancialRecord is one dated revenue/expense/profit observation, either
// imported from CSV or derived from a sale event.
type FinancialRecord struct {
	Date     time.Time `json:"date"`
	Category string    `json:"category"`
	Revenue  float64   `json:"revenue"`
	Expenses float64   `json:"expenses"`
	Profit   float64   `json:"profit"`
}

// Bucket is one period of an aggregated series.
type Bucket struct {
	Label    string  `json:"label"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`

	start time.Time
}

func bucketOf(t time.Time, period Period) (string, time.Time) {
	switch period {
	case PeriodQuarter:
		q := (int(t.Month())-1)/3 + 1
		start := time.Date(t.Year(), time.Month((q-1)*3+1), 1, 0, 0, 0, 0, t.Location())
		return fmt.Sprintf("%d-Q%d", t.Year(), q), start
	case PeriodYear:
		start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
		return fmt.Sprintf("%d", t.Year()), start
	default:
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
		return start.Format("2006-01"), start
	}
}

// ComputeTimeSeries buckets records into the requested period and sums
// revenue, expenses and profit per bucket, ordered chronologically.
func ComputeTimeSeries(records []FinancialRecord, period Period) []Bucket {
	index := make(map[string]int)
	buckets := make([]Bucket, 0)
	for _, r := range records {
		label, start := bucketOf(r.Date, period)
		bi, ok := index[label]
		if !ok {
			bi = len(buckets)
			index[label] = bi
			buckets = append(buckets, Bucket{Label: label, start: start})
		}
		buckets[bi].Revenue += r.Revenue
		buckets[bi].Expenses += r.Expenses
		buckets[bi].Profit += r.Profit
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].start.Before(buckets[j].start)
	})
	return buckets
}

// Metric extractors for ComputeGrowth.
var (
	MetricRevenue  = func(b Bucket) float64 { return b.Revenue }
	MetricExpenses = func(b Bucket) float64 { return b.Expenses }
	MetricProfit   = func(b Bucket) float64 { return b.Profit }
)

// ComputeGrowth returns the mean period-over-period percentage change of
// metric across all consecutive bucket pairs. Pairs whose previous value
// is zero are skipped; fewer than two usable periods yields 0.
func ComputeGrowth(series []Bucket, metric func(Bucket) float64) float64 {
	if len(series) < 2 {
		return 0
	}
	var sum float64
	var pairs int
	for i := 1; i < len(series); i++ {
		prev := metric(series[i-1])
		if prev == 0 {
			continue
		}
		sum += (metric(series[i]) - prev) / prev * 100
		pairs++
	}
	if pairs == 0 {
		return 0
	}
	return sum / float64(pairs)
}

// FilterByDateRange keeps records with from <= date <= to. Zero bounds are
// open.
func FilterByDateRange(records []FinancialRecord, from, to time.Time) []FinancialRecord {
	out := make([]FinancialRecord, 0, len(records))
	for _, r := range records {
		if !from.IsZero() && r.Date.Before(from) {
			continue
		}
		if !to.IsZero() && r.Date.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterByCategories keeps records whose category is in categories. An
// empty filter keeps everything.
func FilterByCategories(records []FinancialRecord, categories []string) []FinancialRecord {
	if len(categories) == 0 {
		return records
	}
	allowed := make(map[string]bool, len(categories))
	for _, c := range categories {
		allowed[c] = true
	}
	out := make([]FinancialRecord, 0, len(records))
	for _, r := range records {
		if allowed[r.Category] {
			out = append(out, r)
		}
	}
	return out
}

// RecordsFromSales converts the sale log into financial records: revenue
// and profit come from the sale, expenses are the cost basis
// (revenue - profit), category is derived from the product name.
func RecordsFromSales(sales []domain.SaleEvent) []FinancialRecord {
	records := make([]FinancialRecord, 0, len(sales))
	for _, s := range sales {
		records = append(records, FinancialRecord{
			Date:     s.SoldAt,
			Category: domain.Categorize(s.Name),
			Revenue:  s.Revenue,
			Expenses: s.Revenue - s.Profit,
			Profit:   s.Profit,
		})
	}
	return records
}

// DistributeExpenses groups record expenses by category, first-occurrence
// order, mirroring the expense structure pie of the source dashboard.
func DistributeExpenses(records []FinancialRecord) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)
	for _, r := range records {
		gi, ok := index[r.Category]
		if !ok {
			gi = len(groups)
			index[r.Category] = gi
			groups = append(groups, Group{Key: r.Category})
		}
		groups[gi].Count++
		groups[gi].Value += r.Expenses
	}
	return groups
}

// Totals summarizes a record set.
type Totals struct {
	Records  int     `json:"records"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
	Margin   float64 `json:"margin"`
}

// Summarize sums revenue, expenses and profit and computes the profit
// margin as a percentage of revenue.
func Summarize(records []FinancialRecord) Totals {
	var t Totals
	t.Records = len(records)
	for _, r := range records {
		t.Revenue += r.Revenue
		t.Expenses += r.Expenses
		t.Profit += r.Profit
	}
	if t.Revenue > 0 {
		t.Margin = t.Profit / t.Revenue * 100
	}
	return t
}
