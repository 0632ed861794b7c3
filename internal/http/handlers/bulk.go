package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hongminglow/insight-be/internal/auth"
	"github.com/hongminglow/insight-be/internal/http/respond"
	"github.com/hongminglow/insight-be/internal/models"
	"github.com/hongminglow/insight-be/internal/models/dto"
)

const maxBulkEntries = 1000

// handleBulk imports up to 1000 entries, persisting each row independently.
// A fully successful batch answers 201, a partial one 207 with per-row
// errors, and a batch with no persisted rows 400.
func (h *DataHandler) handleBulk(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payloads []dto.EntryPayload
	if err := json.NewDecoder(r.Body).Decode(&payloads); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload: expected an array of entries")
		return
	}
	if len(payloads) == 0 {
		respond.Error(w, http.StatusBadRequest, "bulk import requires at least one entry")
		return
	}
	if len(payloads) > maxBulkEntries {
		respond.Error(w, http.StatusBadRequest, fmt.Sprintf("bulk import is limited to %d entries", maxBulkEntries))
		return
	}

	// Rows that fail normalization never reach the store; the rest are
	// inserted independently so one bad row cannot abort its siblings.
	result := dto.BulkResult{}
	valid := make([]models.Entry, 0, len(payloads))
	validIdx := make([]int, 0, len(payloads))
	for i, payload := range payloads {
		payload.Source = models.SourceImport
		entry, details := entryFromPayload(identity.UserID, payload)
		if len(details) > 0 {
			result.Failed++
			result.Errors = append(result.Errors, dto.RowError{Index: i, Error: strings.Join(details, "; ")})
			continue
		}
		valid = append(valid, entry)
		validIdx = append(validIdx, i)
	}

	_, errs := h.entries.InsertEntries(r.Context(), valid)
	for i, err := range errs {
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, dto.RowError{Index: validIdx[i], Error: err.Error()})
			slog.Error("bulk insert row failed", "error", err, "index", validIdx[i], "owner_id", identity.UserID)
			continue
		}
		result.Inserted++
	}

	switch {
	case result.Failed == 0:
		respond.JSON(w, http.StatusCreated, result)
	case result.Inserted == 0:
		respond.ErrorDetails(w, http.StatusBadRequest, "no entries could be imported", result.Errors)
	default:
		respond.Partial(w, result)
	}
}
