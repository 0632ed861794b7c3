// Package filter applies free-text search and structured predicates to an
// in-memory entry slice. It mirrors the dashboard's client-side filter
// composition: text search first, then each structured filter ANDed in
// sequence. Apply never mutates its input, so "clear" is simply going back
// to the original slice.
package filter

import (
	"strings"
	"time"

	"github.com/hongminglow/insight-be/internal/models"
)

// Op is a structured-filter operator.
type Op string

const (
	OpEquals      Op = "equals"
	OpIn          Op = "in"
	OpBetween     Op = "between"
	OpGreaterThan Op = "greater_than"
	OpLessThan    Op = "less_than"
)

// Filter is one structured predicate. Value is loosely typed the way it
// arrives from a decoded JSON body: string, float64, or a slice of either.
// OpIn expects a slice; OpBetween expects a two-element slice.
type Filter struct {
	Field string `json:"field"`
	Op    Op     `json:"operator"`
	Value any    `json:"value"`
}

// searchFields are the entry fields covered by free-text search.
var searchFields = []func(models.Entry) string{
	func(e models.Entry) string { return e.Category },
	func(e models.Entry) string { return e.Description },
	func(e models.Entry) string { return strings.Join(e.Tags, " ") },
}

// Apply returns the entries matching the query and every filter. Filters
// whose field or operator is unknown match nothing, so a typo fails loudly
// in the result rather than silently passing everything through.
func Apply(entries []models.Entry, query string, filters []Filter) []models.Entry {
	out := make([]models.Entry, 0, len(entries))
	query = strings.ToLower(strings.TrimSpace(query))
	for _, e := range entries {
		if query != "" && !matchesQuery(e, query) {
			continue
		}
		if !matchesAll(e, filters) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matchesQuery(e models.Entry, query string) bool {
	for _, field := range searchFields {
		if strings.Contains(strings.ToLower(field(e)), query) {
			return true
		}
	}
	return false
}

func matchesAll(e models.Entry, filters []Filter) bool {
	for _, f := range filters {
		if !matches(e, f) {
			return false
		}
	}
	return true
}

func matches(e models.Entry, f Filter) bool {
	switch f.Field {
	case "category", "source":
		return matchString(fieldString(e, f.Field), f)
	case "sales", "profit":
		return matchNumber(fieldNumber(e, f.Field), f)
	case "date":
		return matchDate(e.Date, f)
	}
	return false
}

func fieldString(e models.Entry, field string) string {
	if field == "category" {
		return e.Category
	}
	return e.Source
}

func fieldNumber(e models.Entry, field string) float64 {
	if field == "sales" {
		return e.Sales
	}
	return e.Profit
}

func matchString(value string, f Filter) bool {
	value = strings.ToLower(value)
	switch f.Op {
	case OpEquals:
		s, ok := asString(f.Value)
		return ok && strings.ToLower(s) == value
	case OpIn:
		items, ok := asSlice(f.Value)
		if !ok {
			return false
		}
		for _, item := range items {
			if s, ok := asString(item); ok && strings.ToLower(s) == value {
				return true
			}
		}
	}
	return false
}

func matchNumber(value float64, f Filter) bool {
	switch f.Op {
	case OpEquals:
		n, ok := asNumber(f.Value)
		return ok && n == value
	case OpGreaterThan:
		n, ok := asNumber(f.Value)
		return ok && value > n
	case OpLessThan:
		n, ok := asNumber(f.Value)
		return ok && value < n
	case OpBetween:
		lo, hi, ok := asRange(f.Value)
		return ok && value >= lo && value <= hi
	case OpIn:
		items, ok := asSlice(f.Value)
		if !ok {
			return false
		}
		for _, item := range items {
			if n, ok := asNumber(item); ok && n == value {
				return true
			}
		}
	}
	return false
}

func matchDate(value time.Time, f Filter) bool {
	switch f.Op {
	case OpEquals:
		t, ok := asDate(f.Value)
		return ok && sameDay(value, t)
	case OpGreaterThan:
		t, ok := asDate(f.Value)
		return ok && value.After(t)
	case OpLessThan:
		t, ok := asDate(f.Value)
		return ok && value.Before(t)
	case OpBetween:
		items, ok := asSlice(f.Value)
		if !ok || len(items) != 2 {
			return false
		}
		lo, okLo := asDate(items[0])
		hi, okHi := asDate(items[1])
		return okLo && okHi && !value.Before(lo) && !value.After(hi)
	}
	return false
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func asDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case string:
		if t, err := time.Parse(time.RFC3339, d); err == nil {
			return t, true
		}
		if t, err := time.Parse("2006-01-02", d); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func asSlice(v any) ([]any, bool) {
	switch items := v.(type) {
	case []any:
		return items, true
	case []string:
		out := make([]any, len(items))
		for i, s := range items {
			out[i] = s
		}
		return out, true
	case []float64:
		out := make([]any, len(items))
		for i, n := range items {
			out[i] = n
		}
		return out, true
	}
	return nil, false
}

func asRange(v any) (float64, float64, bool) {
	items, ok := asSlice(v)
	if !ok || len(items) != 2 {
		return 0, 0, false
	}
	lo, okLo := asNumber(items[0])
	hi, okHi := asNumber(items[1])
	return lo, hi, okLo && okHi
}
