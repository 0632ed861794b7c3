package models

import "time"

// Entry sources. Bulk-imported rows and API-created rows are tagged so the
// dashboard can distinguish them from manually entered data.
const (
	SourceManual = "manual"
	SourceImport = "import"
	SourceAPI    = "api"
)

// Entry is one user-owned row of business data.
type Entry struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"ownerId"`
	Date        time.Time `json:"date"`
	Sales       float64   `json:"sales"`
	Profit      float64   `json:"profit"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags"`
	Source      string    `json:"source"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Margin returns the entry's profit margin in percent, zero when sales is zero.
func (e Entry) Margin() float64 {
	if e.Sales == 0 {
		return 0
	}
	return e.Profit / e.Sales * 100
}

// ValidSource reports whether the given source tag is recognized.
func ValidSource(source string) bool {
	switch source {
	case SourceManual, SourceImport, SourceAPI:
		return true
	}
	return false
}
