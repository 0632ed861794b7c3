package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hongminglow/insight-be/internal/auth"
	"github.com/hongminglow/insight-be/internal/config"
	"github.com/hongminglow/insight-be/internal/http/respond"
	"github.com/hongminglow/insight-be/internal/middleware"
	"github.com/hongminglow/insight-be/internal/models"
	"github.com/hongminglow/insight-be/internal/models/dto"
	"github.com/hongminglow/insight-be/internal/storage"
)

const (
	maxCategoryLen    = 50
	maxDescriptionLen = 500
	maxPageLimit      = 100
)

// DataHandler owns the entry CRUD, stats, bulk, and export routes.
type DataHandler struct {
	entries storage.EntryStore
	cfg     *config.Config
}

// NewDataHandler constructs the handler.
func NewDataHandler(entries storage.EntryStore, cfg *config.Config) *DataHandler {
	return &DataHandler{entries: entries, cfg: cfg}
}

// Register attaches data routes to the mux. All routes require auth.
func (h *DataHandler) Register(mux *http.ServeMux, protect middleware.Chain) {
	mux.HandleFunc("GET /api/data", protect(h.handleList))
	mux.HandleFunc("POST /api/data", protect(h.handleCreate))
	mux.HandleFunc("POST /api/data/bulk", protect(h.handleBulk))
	mux.HandleFunc("GET /api/data/stats", protect(h.handleStats))
	mux.HandleFunc("GET /api/data/export", protect(h.handleExport))
	mux.HandleFunc("PUT /api/data/{id}", protect(h.handleUpdate))
	mux.HandleFunc("DELETE /api/data/{id}", protect(h.handleDelete))
}

func (h *DataHandler) handleList(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	opts, err := parseQueryOptions(r.URL.Query())
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, total, err := h.entries.QueryEntries(r.Context(), identity.UserID, opts)
	if err != nil {
		slog.Error("query entries failed", "error", err, "owner_id", identity.UserID)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch entries")
		return
	}
	if entries == nil {
		entries = []models.Entry{}
	}

	pages := 0
	if total > 0 {
		pages = int(math.Ceil(float64(total) / float64(opts.Limit)))
	}
	respond.JSON(w, http.StatusOK, dto.EntryPage{
		Entries: entries,
		Pagination: dto.Pagination{
			Page:  opts.Page,
			Limit: opts.Limit,
			Total: total,
			Pages: pages,
		},
	})
}

func (h *DataHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload dto.EntryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	entry, details := entryFromPayload(identity.UserID, payload)
	if len(details) > 0 {
		respond.ErrorDetails(w, http.StatusBadRequest, "validation failed", details)
		return
	}

	created, err := h.entries.CreateEntry(r.Context(), entry)
	if err != nil {
		slog.Error("create entry failed", "error", err, "owner_id", identity.UserID)
		respond.Error(w, http.StatusInternalServerError, "failed to create entry")
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

func (h *DataHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	var update dto.EntryUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	entry, err := h.entries.GetEntry(r.Context(), identity.UserID, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "entry not found")
			return
		}
		slog.Error("fetch entry failed", "error", err, "entry_id", id)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch entry")
		return
	}

	if details := applyUpdate(&entry, update); len(details) > 0 {
		respond.ErrorDetails(w, http.StatusBadRequest, "validation failed", details)
		return
	}

	updated, err := h.entries.UpdateEntry(r.Context(), entry)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "entry not found")
			return
		}
		slog.Error("update entry failed", "error", err, "entry_id", id)
		respond.Error(w, http.StatusInternalServerError, "failed to update entry")
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

func (h *DataHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	if err := h.entries.DeleteEntry(r.Context(), identity.UserID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "entry not found")
			return
		}
		slog.Error("delete entry failed", "error", err, "entry_id", id)
		respond.Error(w, http.StatusInternalServerError, "failed to delete entry")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "entry deleted"})
}

// entryFromPayload normalizes and validates one wire payload. The returned
// detail list is empty exactly when the entry is usable.
func entryFromPayload(ownerID int64, p dto.EntryPayload) (models.Entry, []string) {
	var details []string

	var date time.Time
	if strings.TrimSpace(p.Date) == "" {
		details = append(details, "date is required")
	} else {
		var err error
		date, err = parseDate(p.Date)
		if err != nil {
			details = append(details, fmt.Sprintf("date %q is not valid", p.Date))
		}
	}

	var sales float64
	switch {
	case p.Sales == nil:
		details = append(details, "sales is required")
	case !isFinite(*p.Sales):
		details = append(details, "sales must be a finite number")
	case *p.Sales < 0:
		details = append(details, "sales must not be negative")
	default:
		sales = *p.Sales
	}

	var profit float64
	switch {
	case p.Profit == nil:
		details = append(details, "profit is required")
	case !isFinite(*p.Profit):
		details = append(details, "profit must be a finite number")
	default:
		profit = *p.Profit
		if p.Sales != nil && isFinite(*p.Sales) && profit > *p.Sales {
			details = append(details, "profit must not exceed sales")
		}
	}

	category := strings.ToLower(strings.TrimSpace(p.Category))
	if category == "" {
		details = append(details, "category is required")
	} else if len(category) > maxCategoryLen {
		details = append(details, fmt.Sprintf("category must be at most %d characters", maxCategoryLen))
	}

	description := strings.TrimSpace(p.Description)
	if len(description) > maxDescriptionLen {
		details = append(details, fmt.Sprintf("description must be at most %d characters", maxDescriptionLen))
	}

	source := p.Source
	if source == "" {
		source = models.SourceManual
	}
	if !models.ValidSource(source) {
		details = append(details, fmt.Sprintf("source %q is not valid", p.Source))
	}

	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	if len(details) > 0 {
		return models.Entry{}, details
	}
	return models.Entry{
		OwnerID:     ownerID,
		Date:        date,
		Sales:       sales,
		Profit:      profit,
		Category:    category,
		Description: description,
		Tags:        tags,
		Source:      source,
		IsActive:    true,
	}, nil
}

// applyUpdate merges a partial update onto an existing entry and re-validates
// the cross-field invariant against the merged values.
func applyUpdate(entry *models.Entry, update dto.EntryUpdate) []string {
	var details []string

	if update.Date != nil {
		date, err := parseDate(*update.Date)
		if err != nil {
			details = append(details, fmt.Sprintf("date %q is not valid", *update.Date))
		} else {
			entry.Date = date
		}
	}
	if update.Sales != nil {
		switch {
		case !isFinite(*update.Sales):
			details = append(details, "sales must be a finite number")
		case *update.Sales < 0:
			details = append(details, "sales must not be negative")
		default:
			entry.Sales = *update.Sales
		}
	}
	if update.Profit != nil {
		if !isFinite(*update.Profit) {
			details = append(details, "profit must be a finite number")
		} else {
			entry.Profit = *update.Profit
		}
	}
	if update.Category != nil {
		category := strings.ToLower(strings.TrimSpace(*update.Category))
		switch {
		case category == "":
			details = append(details, "category must not be empty")
		case len(category) > maxCategoryLen:
			details = append(details, fmt.Sprintf("category must be at most %d characters", maxCategoryLen))
		default:
			entry.Category = category
		}
	}
	if update.Description != nil {
		description := strings.TrimSpace(*update.Description)
		if len(description) > maxDescriptionLen {
			details = append(details, fmt.Sprintf("description must be at most %d characters", maxDescriptionLen))
		} else {
			entry.Description = description
		}
	}
	if update.Tags != nil {
		tags := *update.Tags
		if tags == nil {
			tags = []string{}
		}
		entry.Tags = tags
	}

	if entry.Profit > entry.Sales {
		details = append(details, "profit must not exceed sales")
	}
	return details
}

func parseQueryOptions(q url.Values) (storage.QueryOptions, error) {
	opts := storage.QueryOptions{Page: 1, Limit: 20, Sort: "-date"}

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return opts, fmt.Errorf("page %q is not valid", v)
		}
		opts.Page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return opts, fmt.Errorf("limit %q is not valid", v)
		}
		if n > maxPageLimit {
			n = maxPageLimit
		}
		opts.Limit = n
	}
	if v := q.Get("sort"); v != "" {
		opts.Sort = v
	}

	filter, err := parseEntryFilter(q)
	if err != nil {
		return opts, err
	}
	opts.EntryFilter = filter
	return opts, nil
}

func parseEntryFilter(q url.Values) (storage.EntryFilter, error) {
	var f storage.EntryFilter
	f.Category = strings.TrimSpace(q.Get("category"))

	for param, dst := range map[string]**time.Time{
		"startDate": &f.StartDate,
		"endDate":   &f.EndDate,
	} {
		if v := q.Get(param); v != "" {
			t, err := parseDate(v)
			if err != nil {
				return f, fmt.Errorf("%s %q is not valid", param, v)
			}
			*dst = &t
		}
	}
	for param, dst := range map[string]**float64{
		"minSales":  &f.MinSales,
		"maxSales":  &f.MaxSales,
		"minProfit": &f.MinProfit,
		"maxProfit": &f.MaxProfit,
	} {
		if v := q.Get(param); v != "" {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil || !isFinite(n) {
				return f, fmt.Errorf("%s %q is not valid", param, v)
			}
			*dst = &n
		}
	}
	return f, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
