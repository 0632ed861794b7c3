package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hongminglow/insight-be/internal/analytics"
	"github.com/hongminglow/insight-be/internal/auth"
	"github.com/hongminglow/insight-be/internal/http/respond"
)

type statsResponse struct {
	Summary    analytics.Summary         `json:"summary"`
	ByCategory []analytics.CategoryStats `json:"byCategory"`
}

// handleStats computes the owner-scoped summary and category breakdown over
// the same filter params the list endpoint takes, minus pagination.
func (h *DataHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	filter, err := parseEntryFilter(r.URL.Query())
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.entries.AllEntries(r.Context(), identity.UserID, filter, h.cfg.ExportMaxRows)
	if err != nil {
		slog.Error("stats query failed", "error", err, "owner_id", identity.UserID)
		respond.Error(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	respond.JSON(w, http.StatusOK, statsResponse{
		Summary:    analytics.Summarize(entries),
		ByCategory: analytics.ByCategory(entries),
	})
}
