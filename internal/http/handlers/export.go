package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hongminglow/insight-be/internal/auth"
	"github.com/hongminglow/insight-be/internal/export"
	"github.com/hongminglow/insight-be/internal/http/respond"
)

// handleExport serializes the owner's filtered entries as JSON or CSV.
// Pagination does not apply; the configured row ceiling does.
func (h *DataHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		respond.Error(w, http.StatusBadRequest, "format must be json or csv")
		return
	}

	filter, err := parseEntryFilter(r.URL.Query())
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.entries.AllEntries(r.Context(), identity.UserID, filter, h.cfg.ExportMaxRows)
	if err != nil {
		slog.Error("export query failed", "error", err, "owner_id", identity.UserID)
		respond.Error(w, http.StatusInternalServerError, "failed to export entries")
		return
	}

	stamp := time.Now().Format("2006-01-02")
	if format == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="entries-`+stamp+`.csv"`)
		if err := export.WriteCSV(w, entries); err != nil {
			slog.Error("write csv failed", "error", err, "owner_id", identity.UserID)
		}
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="entries-`+stamp+`.json"`)
	respond.JSON(w, http.StatusOK, export.NewJSONEnvelope(entries))
}
