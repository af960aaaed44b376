package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/amitgupta-mai/work-logger/internal/export"
	"github.com/amitgupta-mai/work-logger/internal/service"

	"go.uber.org/zap"
)

// entryErrorStatus separates rejections the client can correct from
// storage faults.
func entryErrorStatus(err error) int {
	var ve service.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

type EntryHandler struct {
	service *service.EntryService
	logger  *zap.Logger
}

func NewEntryHandler(svc *service.EntryService, logger *zap.Logger) *EntryHandler {
	return &EntryHandler{
		service: svc,
		logger:  logger,
	}
}

func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req service.AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := h.service.AddEntry(req)
	if err != nil {
		h.logger.Error("Failed to add entry", zap.Error(err))
		http.Error(w, err.Error(), entryErrorStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}

func (h *EntryHandler) GetEntries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	date := r.URL.Query().Get("date")
	entries, err := h.service.Entries(date)
	if err != nil {
		h.logger.Error("Failed to get entries", zap.Error(err))
		http.Error(w, "Failed to get entries", http.StatusInternalServerError)
		return
	}

	total, err := h.service.TotalMinutes(date)
	if err != nil {
		h.logger.Error("Failed to total entries", zap.Error(err))
		http.Error(w, "Failed to get entries", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"entries":          entries,
		"totalMinutes":     total,
		"totalTimeDisplay": service.FormatMinutesToHM(total),
	})
}

func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Missing id parameter", http.StatusBadRequest)
		return
	}
	date := r.URL.Query().Get("date")

	if err := h.service.DeleteEntry(id, date); err != nil {
		h.logger.Error("Failed to delete entry", zap.Error(err))
		http.Error(w, err.Error(), entryErrorStatus(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportEntries streams one day's entries as a CSV attachment.
func (h *EntryHandler) ExportEntries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	date := r.URL.Query().Get("date")
	entries, err := h.service.Entries(date)
	if err != nil {
		h.logger.Error("Failed to get entries for export", zap.Error(err))
		http.Error(w, "Failed to export entries", http.StatusInternalServerError)
		return
	}

	if date == "" && len(entries) > 0 {
		date = entries[0].Date
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "work-logger-"+date+".csv"))

	if err := export.ToCSV(w, entries); err != nil {
		h.logger.Error("Failed to write CSV", zap.Error(err))
	}
}

// GetSuggestions returns the remembered project and person options for
// the popup's creatable selects.
func (h *EntryHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	projects, people, err := h.service.Suggestions()
	if err != nil {
		h.logger.Error("Failed to get suggestions", zap.Error(err))
		http.Error(w, "Failed to get suggestions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"projects": projects,
		"people":   people,
	})
}
