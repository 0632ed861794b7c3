package handlers

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/insight-be/internal/models"
	"github.com/hongminglow/insight-be/internal/models/dto"
)

func ptr[T any](v T) *T { return &v }

func validPayload() dto.EntryPayload {
	return dto.EntryPayload{
		Date:     "2024-01-01",
		Sales:    ptr(100.0),
		Profit:   ptr(40.0),
		Category: "Electronics",
	}
}

func TestEntryFromPayload(t *testing.T) {
	t.Parallel()

	entry, details := entryFromPayload(7, validPayload())
	require.Empty(t, details)

	assert.Equal(t, int64(7), entry.OwnerID)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), entry.Date)
	assert.Equal(t, "electronics", entry.Category, "category is case-folded on write")
	assert.Equal(t, models.SourceManual, entry.Source)
	assert.NotNil(t, entry.Tags)
	assert.True(t, entry.IsActive)
}

func TestEntryFromPayloadRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*dto.EntryPayload)
		want   string
	}{
		{"missing date", func(p *dto.EntryPayload) { p.Date = "" }, "date is required"},
		{"bad date", func(p *dto.EntryPayload) { p.Date = "01/02/2024" }, "not valid"},
		{"missing sales", func(p *dto.EntryPayload) { p.Sales = nil }, "sales is required"},
		{"negative sales", func(p *dto.EntryPayload) { p.Sales = ptr(-1.0) }, "sales must not be negative"},
		{"profit above sales", func(p *dto.EntryPayload) { p.Profit = ptr(101.0) }, "profit must not exceed sales"},
		{"missing category", func(p *dto.EntryPayload) { p.Category = "  " }, "category is required"},
		{"long category", func(p *dto.EntryPayload) { p.Category = string(make([]byte, 51)) }, "at most 50 characters"},
		{"bad source", func(p *dto.EntryPayload) { p.Source = "csv" }, "not valid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload()
			tt.mutate(&payload)
			_, details := entryFromPayload(1, payload)
			require.NotEmpty(t, details)
			assert.Contains(t, details[0], tt.want)
		})
	}
}

func TestApplyUpdateMergesAndRevalidates(t *testing.T) {
	t.Parallel()

	entry := models.Entry{
		ID:       1,
		OwnerID:  7,
		Date:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Sales:    100,
		Profit:   40,
		Category: "electronics",
	}

	details := applyUpdate(&entry, dto.EntryUpdate{
		Sales:    ptr(200.0),
		Category: ptr("  Gadgets "),
	})
	require.Empty(t, details)
	assert.InDelta(t, 200, entry.Sales, 1e-9)
	assert.InDelta(t, 40, entry.Profit, 1e-9, "untouched fields survive the merge")
	assert.Equal(t, "gadgets", entry.Category)
}

func TestApplyUpdateCrossFieldInvariant(t *testing.T) {
	t.Parallel()

	entry := models.Entry{Sales: 100, Profit: 40, Category: "electronics"}

	// Shrinking sales below the existing profit must fail even though
	// profit itself was not part of the update.
	details := applyUpdate(&entry, dto.EntryUpdate{Sales: ptr(30.0)})
	require.NotEmpty(t, details)
	assert.Contains(t, details[len(details)-1], "profit must not exceed sales")
}

func TestParseQueryOptions(t *testing.T) {
	t.Parallel()

	q := url.Values{}
	q.Set("page", "2")
	q.Set("limit", "10")
	q.Set("sort", "sales")
	q.Set("category", "elec")
	q.Set("startDate", "2024-01-01")
	q.Set("endDate", "2024-02-01")
	q.Set("minSales", "10")
	q.Set("maxProfit", "99.5")

	opts, err := parseQueryOptions(q)
	require.NoError(t, err)

	assert.Equal(t, 2, opts.Page)
	assert.Equal(t, 10, opts.Limit)
	assert.Equal(t, "sales", opts.Sort)
	assert.Equal(t, "elec", opts.Category)
	require.NotNil(t, opts.StartDate)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *opts.StartDate)
	require.NotNil(t, opts.MinSales)
	assert.InDelta(t, 10, *opts.MinSales, 1e-9)
	require.NotNil(t, opts.MaxProfit)
	assert.InDelta(t, 99.5, *opts.MaxProfit, 1e-9)
	assert.Nil(t, opts.MaxSales, "absent bounds stay unset")
	assert.Nil(t, opts.MinProfit)
}

func TestParseQueryOptionsDefaultsAndErrors(t *testing.T) {
	t.Parallel()

	opts, err := parseQueryOptions(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, 20, opts.Limit)
	assert.Equal(t, "-date", opts.Sort)

	q := url.Values{}
	q.Set("limit", "250")
	opts, err = parseQueryOptions(q)
	require.NoError(t, err)
	assert.Equal(t, maxPageLimit, opts.Limit, "limit is capped")

	for param, value := range map[string]string{
		"page":      "zero",
		"limit":     "-1",
		"startDate": "yesterday",
		"minSales":  "lots",
	} {
		q := url.Values{}
		q.Set(param, value)
		_, err := parseQueryOptions(q)
		assert.Error(t, err, "param %s=%s", param, value)
	}
}
