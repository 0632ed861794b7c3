// Package analytics computes read-side summaries over filtered entries.
// Everything here is a pure function: the store does the filtering, this
// package does the math.
package analytics

import (
	"sort"

	"github.com/hongminglow/insight-be/internal/models"
)

// Summary aggregates a set of entries in one pass.
type Summary struct {
	Count        int      `json:"count"`
	TotalSales   float64  `json:"totalSales"`
	AvgSales     float64  `json:"avgSales"`
	MinSales     float64  `json:"minSales"`
	MaxSales     float64  `json:"maxSales"`
	TotalProfit  float64  `json:"totalProfit"`
	AvgProfit    float64  `json:"avgProfit"`
	MinProfit    float64  `json:"minProfit"`
	MaxProfit    float64  `json:"maxProfit"`
	ProfitMargin float64  `json:"profitMargin"`
	Categories   []string `json:"categories"`
}

// CategoryStats aggregates the entries of one category.
type CategoryStats struct {
	Category     string  `json:"category"`
	Count        int     `json:"count"`
	TotalSales   float64 `json:"totalSales"`
	AvgSales     float64 `json:"avgSales"`
	TotalProfit  float64 `json:"totalProfit"`
	AvgProfit    float64 `json:"avgProfit"`
	ProfitMargin float64 `json:"profitMargin"`
}

// Summarize computes count, sums, averages, extrema, distinct categories and
// the overall profit margin. Margin is zero when total sales is zero.
func Summarize(entries []models.Entry) Summary {
	s := Summary{Categories: []string{}}
	seen := map[string]bool{}
	for i, e := range entries {
		s.Count++
		s.TotalSales += e.Sales
		s.TotalProfit += e.Profit
		if i == 0 {
			s.MinSales, s.MaxSales = e.Sales, e.Sales
			s.MinProfit, s.MaxProfit = e.Profit, e.Profit
		} else {
			if e.Sales < s.MinSales {
				s.MinSales = e.Sales
			}
			if e.Sales > s.MaxSales {
				s.MaxSales = e.Sales
			}
			if e.Profit < s.MinProfit {
				s.MinProfit = e.Profit
			}
			if e.Profit > s.MaxProfit {
				s.MaxProfit = e.Profit
			}
		}
		if !seen[e.Category] {
			seen[e.Category] = true
			s.Categories = append(s.Categories, e.Category)
		}
	}
	if s.Count > 0 {
		s.AvgSales = s.TotalSales / float64(s.Count)
		s.AvgProfit = s.TotalProfit / float64(s.Count)
	}
	s.ProfitMargin = margin(s.TotalProfit, s.TotalSales)
	sort.Strings(s.Categories)
	return s
}

// ByCategory groups entries by category, sorted descending by total sales.
func ByCategory(entries []models.Entry) []CategoryStats {
	byName := map[string]*CategoryStats{}
	order := []string{}
	for _, e := range entries {
		cs, ok := byName[e.Category]
		if !ok {
			cs = &CategoryStats{Category: e.Category}
			byName[e.Category] = cs
			order = append(order, e.Category)
		}
		cs.Count++
		cs.TotalSales += e.Sales
		cs.TotalProfit += e.Profit
	}

	out := make([]CategoryStats, 0, len(order))
	for _, name := range order {
		cs := byName[name]
		cs.AvgSales = cs.TotalSales / float64(cs.Count)
		cs.AvgProfit = cs.TotalProfit / float64(cs.Count)
		cs.ProfitMargin = margin(cs.TotalProfit, cs.TotalSales)
		out = append(out, *cs)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalSales > out[j].TotalSales
	})
	return out
}

func margin(profit, sales float64) float64 {
	if sales == 0 {
		return 0
	}
	return profit / sales * 100
}
