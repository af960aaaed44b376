package router

import (
	"net/http"

	"github.com/amitgupta-mai/work-logger/internal/handler"

	"go.uber.org/zap"
)

func New(commandHandler *handler.CommandHandler, entryHandler *handler.EntryHandler, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Scheduler command channel and state polling
	mux.HandleFunc("/api/v1/command", commandHandler.Dispatch)
	mux.HandleFunc("/api/v1/state", commandHandler.State)

	// Work-log entry endpoints
	mux.HandleFunc("/api/v1/entries", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			entryHandler.CreateEntry(w, r)
		case http.MethodGet:
			entryHandler.GetEntries(w, r)
		case http.MethodDelete:
			entryHandler.DeleteEntry(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/v1/entries/export", entryHandler.ExportEntries)
	mux.HandleFunc("/api/v1/suggestions", entryHandler.GetSuggestions)

	// CORS and logging middleware
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		logger.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
		)
		mux.ServeHTTP(w, r)
	})
}

// setCORSHeaders allows the browser extension origin to reach the API.
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Max-Age", "3600")
}
