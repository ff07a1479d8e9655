package app

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/trackboard/trackboard/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Authoritative schedule lists
	r.HandleFunc("/api/schedule", deps.ScheduleHandler.GetSchedule).Methods("GET")
	r.HandleFunc("/api/schedule", deps.ScheduleHandler.ReplaceSchedule).Methods("PUT")
	r.HandleFunc("/api/schedule/entry/{entryId}", deps.ScheduleHandler.DeleteEntry).Methods("DELETE")

	// Derived board state
	r.HandleFunc("/api/board", deps.BoardHandler.GetSnapshot).Methods("GET")

	// Edit session (field focus / draft / blur)
	r.HandleFunc("/api/edit", deps.LiveSyncHandler.BeginEdit).Methods("POST")
	r.HandleFunc("/api/edit", deps.LiveSyncHandler.UpdateDraft).Methods("PUT")
	r.HandleFunc("/api/edit", deps.LiveSyncHandler.EndEdit).Methods("DELETE")

	// Server-sent update stream
	r.Handle("/events", deps.SSEHandler).Methods("GET")

	r.HandleFunc("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"ok":   true,
			"time": time.Now().Format(time.RFC3339),
		})
	}).Methods("GET")
}
