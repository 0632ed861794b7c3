package dto

import "github.com/hongminglow/insight-be/internal/models"

// EntryPayload is the wire shape for creating an entry, single or bulk.
// Numeric fields are pointers so that absent and zero are distinguishable.
type EntryPayload struct {
	Date        string   `json:"date"`
	Sales       *float64 `json:"sales"`
	Profit      *float64 `json:"profit"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Source      string   `json:"source"`
}

// EntryUpdate carries a partial update; nil fields are left untouched.
type EntryUpdate struct {
	Date        *string   `json:"date"`
	Sales       *float64  `json:"sales"`
	Profit      *float64  `json:"profit"`
	Category    *string   `json:"category"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
}

// Pagination describes one page of a larger result set.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// EntryPage is the list-endpoint response body.
type EntryPage struct {
	Entries    []models.Entry `json:"entries"`
	Pagination Pagination     `json:"pagination"`
}

// RowError identifies a single failed row within a bulk request.
type RowError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// BulkResult reports how a bulk import went. Inserted counts only rows that
// were actually persisted.
type BulkResult struct {
	Inserted int        `json:"inserted"`
	Failed   int        `json:"failed"`
	Errors   []RowError `json:"errors,omitempty"`
}
