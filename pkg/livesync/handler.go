package livesync

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/trackboard/trackboard/internal/rest"
	"github.com/trackboard/trackboard/pkg/schedule"
)

type Handler struct {
	coordinator *Coordinator
}

func NewHandler(coordinator *Coordinator) *Handler {
	return &Handler{coordinator: coordinator}
}

// BeginEdit marks a field-focus-for-edit on the calling surface.
func (h *Handler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req struct {
		EntryID string `json:"entryId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Invalid request body format",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}

	surface := SurfaceID(r.Context())
	if err := h.coordinator.BeginEdit(surface, req.EntryID); err != nil {
		if errors.Is(err, ErrEditingElsewhere) {
			w.WriteHeader(http.StatusConflict)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error: "Another surface is editing this schedule",
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateDraft receives the full edited lists; persistence is debounced, the
// last draft before the window elapses wins.
func (h *Handler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Receiving edit draft")

	var dto schedule.ScheduleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Invalid request body format",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}

	draft := schedule.Schedule{}
	for _, e := range dto.Recurring {
		draft.Recurring = append(draft.Recurring, schedule.EventFromDTO(e))
	}
	for _, e := range dto.AdHoc {
		draft.AdHoc = append(draft.AdHoc, schedule.EventFromDTO(e))
	}

	surface := SurfaceID(r.Context())
	if err := h.coordinator.Edit(surface, draft); err != nil {
		if errors.Is(err, ErrNotEditing) {
			http.Error(w, "No edit in progress", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// EndEdit marks blur; the Editing → Idle transition follows after the grace
// delay unless the surface focuses another field first.
func (h *Handler) EndEdit(w http.ResponseWriter, r *http.Request) {
	surface := SurfaceID(r.Context())
	if err := h.coordinator.EndEdit(surface); err != nil {
		if errors.Is(err, ErrNotEditing) {
			http.Error(w, "No edit in progress", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
