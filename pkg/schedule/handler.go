package schedule

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/trackboard/trackboard/internal/rest"
	"github.com/trackboard/trackboard/pkg/timetable"
)

type EventDTO struct {
	ID              string `json:"id,omitempty"`
	Line            string `json:"line"`
	Destination     string `json:"destination,omitempty"`
	Plan            string `json:"plan,omitempty"`
	Actual          string `json:"actual,omitempty"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
	Date            string `json:"date,omitempty"`
	Weekday         string `json:"weekday,omitempty"`
	Canceled        bool   `json:"canceled,omitempty"`
	Source          string `json:"source,omitempty"`
	Recurring       bool   `json:"isRecurring,omitempty"`
	// Stops tolerates both the canonical array shape and the legacy
	// newline-joined string on input; output is always an array.
	Stops any `json:"stops,omitempty"`
}

type ScheduleDTO struct {
	Recurring []EventDTO `json:"recurring"`
	AdHoc     []EventDTO `json:"adHoc"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	sched, err := h.service.GetSchedule(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(scheduleToDTO(sched)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) ReplaceSchedule(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Replacing schedule")

	var dto ScheduleDTO
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

	persisted, err := h.service.ReplaceSchedule(r.Context(), scheduleFromDTO(dto))
	if err != nil {
		if errors.Is(err, ErrInvalidEntry) {
			w.WriteHeader(http.StatusBadRequest)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error:   "Invalid schedule entry",
				Details: err.Error(),
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(scheduleToDTO(persisted)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	entryId := mux.Vars(r)["entryId"]

	if err := h.service.DeleteEntry(r.Context(), entryId); err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			http.Error(w, "Entry not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func scheduleToDTO(sched Schedule) ScheduleDTO {
	dto := ScheduleDTO{
		Recurring: make([]EventDTO, 0, len(sched.Recurring)),
		AdHoc:     make([]EventDTO, 0, len(sched.AdHoc)),
	}
	for _, e := range sched.Recurring {
		dto.Recurring = append(dto.Recurring, EventToDTO(e))
	}
	for _, e := range sched.AdHoc {
		dto.AdHoc = append(dto.AdHoc, EventToDTO(e))
	}
	return dto
}

func scheduleFromDTO(dto ScheduleDTO) Schedule {
	sched := Schedule{}
	for _, e := range dto.Recurring {
		sched.Recurring = append(sched.Recurring, EventFromDTO(e))
	}
	for _, e := range dto.AdHoc {
		sched.AdHoc = append(sched.AdHoc, EventFromDTO(e))
	}
	return sched
}

// EventToDTO maps a domain event to its wire shape.
func EventToDTO(e timetable.Event) EventDTO {
	dto := EventDTO{
		ID:              e.ID,
		Line:            e.Line,
		Destination:     e.Destination,
		Plan:            e.PlanTime,
		Actual:          e.ActualTime,
		DurationMinutes: e.DurationMinutes,
		Date:            e.Date,
		Weekday:         e.Weekday,
		Canceled:        e.Canceled,
		Source:          string(e.Source),
		Recurring:       e.Recurring,
	}
	if len(e.Stops) > 0 {
		dto.Stops = e.Stops
	}
	return dto
}

// EventFromDTO maps the wire shape to the domain event, normalizing the
// stops field into its canonical slice form.
func EventFromDTO(dto EventDTO) timetable.Event {
	return timetable.Event{
		ID:              dto.ID,
		Line:            dto.Line,
		Destination:     dto.Destination,
		PlanTime:        dto.Plan,
		ActualTime:      dto.Actual,
		DurationMinutes: dto.DurationMinutes,
		Date:            dto.Date,
		Weekday:         dto.Weekday,
		Canceled:        dto.Canceled,
		Source:          timetable.Source(dto.Source),
		Recurring:       dto.Recurring,
		Stops:           timetable.NormalizeStops(dto.Stops),
	}
}
