package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/amitgupta-mai/work-logger/internal/scheduler"
	"github.com/amitgupta-mai/work-logger/internal/store"

	"go.uber.org/zap"
)

// CommandHandler exposes the scheduler's command channel and the state
// snapshot that UI surfaces poll.
type CommandHandler struct {
	scheduler *scheduler.Scheduler
	store     *store.Store
	logger    *zap.Logger
}

func NewCommandHandler(sched *scheduler.Scheduler, st *store.Store, logger *zap.Logger) *CommandHandler {
	return &CommandHandler{
		scheduler: sched,
		store:     st,
		logger:    logger,
	}
}

// Dispatch accepts a command envelope and returns its acknowledgment.
// Failed commands are reported in the envelope with HTTP 200; transport
// errors alone use HTTP status codes.
func (h *CommandHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var cmd scheduler.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.logger.Error("Failed to decode command", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp := h.scheduler.Dispatch(cmd)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// State returns a snapshot of the persisted state document, optionally
// narrowed by a comma-separated keys parameter. Keys that are absent are
// omitted from the response.
func (h *CommandHandler) State(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var (
		doc store.Document
		err error
	)
	if keysParam := r.URL.Query().Get("keys"); keysParam != "" {
		keys := strings.Split(keysParam, ",")
		for i := range keys {
			keys[i] = strings.TrimSpace(keys[i])
		}
		doc, err = h.store.Get(keys...)
	} else {
		doc, err = h.store.GetAll()
	}
	if err != nil {
		h.logger.Error("Failed to read state", zap.Error(err))
		http.Error(w, "Failed to read state", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}
