package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/classpulse/rollcall/internal/attendance"
)

// AttendanceHandler serves the attendance cache and reconciliation
// endpoints.
type AttendanceHandler struct {
	store         *attendance.Store
	reconciler    *attendance.Reconciler
	retentionDays int
}

// NewAttendanceHandler creates a new attendance handler.
func NewAttendanceHandler(store *attendance.Store, reconciler *attendance.Reconciler, retentionDays int) *AttendanceHandler {
	return &AttendanceHandler{
		store:         store,
		reconciler:    reconciler,
		retentionDays: retentionDays,
	}
}

// ListToday returns today's entries, most recent first.
func (h *AttendanceHandler) ListToday(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.ListToday()
	if errors.Is(err, attendance.ErrNoSession) {
		respondError(w, http.StatusUnauthorized, "no active session, log in first")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []attendance.Entry{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}

// Delete removes one roll number's attendance, server first.
func (h *AttendanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	rollNumber := chi.URLParam(r, "rollNumber")
	if rollNumber == "" {
		respondError(w, http.StatusBadRequest, "roll number is required")
		return
	}

	removed, err := h.reconciler.DeleteAttendance(r.Context(), rollNumber)
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"removed": removed,
	})
}

// ClearToday removes all of today's attendance, server first.
func (h *AttendanceHandler) ClearToday(w http.ResponseWriter, r *http.Request) {
	removed, err := h.reconciler.ClearToday(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"removed": removed,
	})
}

// purgeRequest optionally overrides the retention window.
type purgeRequest struct {
	Days int `json:"days"`
}

// Purge drops partitions older than the retention window. Purging is a
// purely local operation; the server keeps its own history.
func (h *AttendanceHandler) Purge(w http.ResponseWriter, r *http.Request) {
	days := h.retentionDays
	if r.ContentLength > 0 {
		var req purgeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, errInvalidRequestBody)
			return
		}
		if req.Days > 0 {
			days = req.Days
		}
	}

	removed, err := h.store.PurgeOlderThan(days)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":             "success",
		"partitions_removed": removed,
	})
}

// Export streams a CSV of the requested date range, defaulting to today.
func (h *AttendanceHandler) Export(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	from, to := now, now

	if s := r.URL.Query().Get("start_date"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid start_date, use YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid end_date, use YYYY-MM-DD")
			return
		}
		to = parsed
	}

	// Buffer before writing so a failed export still answers with a clean
	// JSON error instead of a truncated CSV. The day cap keeps ranges small.
	var buf bytes.Buffer
	if _, err := h.store.ExportCSV(&buf, from, to, nil); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filename := fmt.Sprintf("Attendance_%s_%s.csv", from.Format("2006-01-02"), to.Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Write(buf.Bytes())
}
