package analytics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecords(t *testing.T) {
	input := strings.Join([]string{
		"date,category,revenue,expenses,profit",
		"2025-01-15,groceries,100,60,40",
		"2025-02-01,electronics,500.5,300,200.5",
		"not-a-date,groceries,10,5,5",
		"2025-03-01,groceries,abc,5,5",
		"2025-04-01,apparel,50,30,20",
	}, "\n")

	records, skipped, err := ParseRecords(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 2, skipped)
	require.Len(t, records, 3)

	assert.Equal(t, time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, "groceries", records[0].Category)
	assert.Equal(t, 100.0, records[0].Revenue)
	assert.Equal(t, 60.0, records[0].Expenses)
	assert.Equal(t, 40.0, records[0].Profit)

	assert.Equal(t, 500.5, records[1].Revenue)
	assert.Equal(t, "apparel", records[2].Category)
}

func TestParseRecords_HeaderOrderIndependent(t *testing.T) {
	input := strings.Join([]string{
		"Profit, Revenue, Date, Expenses, Category",
		"40,100,2025-01-15,60,groceries",
	}, "\n")

	records, skipped, err := ParseRecords(strings.NewReader(input))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, records, 1)
	assert.Equal(t, 100.0, records[0].Revenue)
	assert.Equal(t, 40.0, records[0].Profit)
}

func TestParseRecords_AlternateDateLayouts(t *testing.T) {
	input := strings.Join([]string{
		"date,category,revenue,expenses,profit",
		"2025-01-15T10:30:00Z,groceries,1,1,0",
		"2025-01-16 08:00:00,groceries,2,1,1",
	}, "\n")

	records, skipped, err := ParseRecords(strings.NewReader(input))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Len(t, records, 2)
}

func TestParseRecords_MissingColumn(t *testing.T) {
	input := "date,category,revenue,profit\n2025-01-15,groceries,100,40\n"

	_, _, err := ParseRecords(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expenses")
}

func TestParseRecords_EmptyInput(t *testing.T) {
	_, _, err := ParseRecords(strings.NewReader(""))
	assert.Error(t, err)
}

func TestParseRecords_MalformedRowSkipped(t *testing.T) {
	input := strings.Join([]string{
		"date,category,revenue,expenses,profit",
		"2025-01-15,groceries,100",
		"2025-01-16,groceries,100,60,40",
	}, "\n")

	records, skipped, err := ParseRecords(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	assert.Len(t, records, 1)
}
