package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/insight-be/internal/models"
)

func TestWriteCSVRoundTrip(t *testing.T) {
	t.Parallel()

	entries := []models.Entry{
		{
			Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Sales:       100,
			Profit:      40,
			Category:    "electronics",
			Description: `screens, "4k" models`,
			Tags:        []string{"q1", "hardware"},
		},
		{
			Date:     time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
			Sales:    19.5,
			Profit:   -2.25,
			Category: "clothing",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, entries))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(entries)+1)

	assert.Equal(t, []string{"Date", "Sales", "Profit", "Category", "Description", "Tags"}, records[0])

	for i, e := range entries {
		row := records[i+1]
		assert.Equal(t, e.Date.Format("2006-01-02"), row[0])
		sales, err := strconv.ParseFloat(row[1], 64)
		require.NoError(t, err)
		assert.InDelta(t, e.Sales, sales, 1e-9)
		profit, err := strconv.ParseFloat(row[2], 64)
		require.NoError(t, err)
		assert.InDelta(t, e.Profit, profit, 1e-9)
		assert.Equal(t, e.Category, row[3])
	}

	assert.Equal(t, `screens, "4k" models`, records[1][4])
	assert.Equal(t, "q1;hardware", records[1][5])
}

func TestWriteCSVMalformedEntry(t *testing.T) {
	t.Parallel()

	// A zero date must render as an empty cell, not panic the export.
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []models.Entry{{Sales: 10, Profit: 1, Category: "misc"}}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "", records[1][0])
}

func TestNewJSONEnvelope(t *testing.T) {
	t.Parallel()

	env := NewJSONEnvelope(nil)
	assert.NotNil(t, env.Entries)
	assert.Zero(t, env.TotalEntries)
	assert.False(t, env.ExportDate.IsZero())

	entries := []models.Entry{{Category: "misc"}}
	env = NewJSONEnvelope(entries)
	assert.Equal(t, 1, env.TotalEntries)
	assert.Equal(t, entries, env.Entries)
}
