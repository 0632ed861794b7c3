package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/insight-be/internal/models"
)

func entry(sales, profit float64, category string) models.Entry {
	return models.Entry{
		Date:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Sales:    sales,
		Profit:   profit,
		Category: category,
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	entries := []models.Entry{
		entry(100, 40, "electronics"),
		entry(200, 50, "clothing"),
		entry(50, -10, "electronics"),
	}

	s := Summarize(entries)

	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 350, s.TotalSales, 1e-9)
	assert.InDelta(t, 80, s.TotalProfit, 1e-9)
	assert.InDelta(t, 350.0/3, s.AvgSales, 1e-9)
	assert.InDelta(t, 50, s.MinSales, 1e-9)
	assert.InDelta(t, 200, s.MaxSales, 1e-9)
	assert.InDelta(t, -10, s.MinProfit, 1e-9)
	assert.InDelta(t, 50, s.MaxProfit, 1e-9)
	assert.InDelta(t, 80.0/350*100, s.ProfitMargin, 1e-9)
	assert.Equal(t, []string{"clothing", "electronics"}, s.Categories)
}

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	s := Summarize(nil)

	assert.Equal(t, 0, s.Count)
	assert.Zero(t, s.TotalSales)
	assert.Zero(t, s.AvgSales)
	assert.Zero(t, s.ProfitMargin)
	assert.Empty(t, s.Categories)
}

func TestSummarizeZeroSalesMargin(t *testing.T) {
	t.Parallel()

	s := Summarize([]models.Entry{entry(0, 0, "free"), entry(0, 0, "free")})

	assert.Zero(t, s.TotalSales)
	assert.Zero(t, s.ProfitMargin, "margin must be zero when total sales is zero")
}

func TestByCategory(t *testing.T) {
	t.Parallel()

	entries := []models.Entry{
		entry(100, 40, "electronics"),
		entry(300, 60, "clothing"),
		entry(50, 10, "electronics"),
	}

	stats := ByCategory(entries)
	require.Len(t, stats, 2)

	// Sorted descending by total sales.
	assert.Equal(t, "clothing", stats[0].Category)
	assert.InDelta(t, 300, stats[0].TotalSales, 1e-9)
	assert.InDelta(t, 20, stats[0].ProfitMargin, 1e-9)

	assert.Equal(t, "electronics", stats[1].Category)
	assert.Equal(t, 2, stats[1].Count)
	assert.InDelta(t, 150, stats[1].TotalSales, 1e-9)
	assert.InDelta(t, 75, stats[1].AvgSales, 1e-9)
	assert.InDelta(t, 50.0/150*100, stats[1].ProfitMargin, 1e-9)
}

func TestByCategoryEmpty(t *testing.T) {
	t.Parallel()

	stats := ByCategory(nil)
	assert.NotNil(t, stats)
	assert.Empty(t, stats)
}
