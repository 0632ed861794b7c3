// Package export serializes filtered entries for download. Malformed fields
// render as empty strings rather than failing the whole export.
package export

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hongminglow/insight-be/internal/models"
)

// csvHeader is the fixed column order of the CSV export.
var csvHeader = []string{"Date", "Sales", "Profit", "Category", "Description", "Tags"}

// JSONEnvelope wraps an export so consumers know when and how much was exported.
type JSONEnvelope struct {
	ExportDate   time.Time      `json:"exportDate"`
	TotalEntries int            `json:"totalEntries"`
	Entries      []models.Entry `json:"entries"`
}

// NewJSONEnvelope builds the JSON export body.
func NewJSONEnvelope(entries []models.Entry) JSONEnvelope {
	if entries == nil {
		entries = []models.Entry{}
	}
	return JSONEnvelope{
		ExportDate:   time.Now().UTC(),
		TotalEntries: len(entries),
		Entries:      entries,
	}
}

// WriteCSV streams entries as CSV with the fixed column order. Tags are
// joined with a semicolon; quoting is handled by encoding/csv.
func WriteCSV(w io.Writer, entries []models.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(csvRow(e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(e models.Entry) []string {
	date := ""
	if !e.Date.IsZero() {
		date = e.Date.Format("2006-01-02")
	}
	return []string{
		date,
		formatNumber(e.Sales),
		formatNumber(e.Profit),
		e.Category,
		e.Description,
		strings.Join(e.Tags, ";"),
	}
}

func formatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
