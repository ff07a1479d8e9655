package board

import (
	"encoding/json"
	"net/http"

	"github.com/trackboard/trackboard/pkg/schedule"
)

type ConflictPairDTO struct {
	Primary schedule.EventDTO `json:"primary"`
	Other   schedule.EventDTO `json:"other"`
	Kind    string            `json:"kind"`
}

type AnnouncementDTO struct {
	Kind         string             `json:"kind"`
	Event        schedule.EventDTO  `json:"event"`
	ConflictWith *schedule.EventDTO `json:"conflictWith,omitempty"`
	ConflictKind string             `json:"conflictKind,omitempty"`
}

type SnapshotDTO struct {
	Selected      *schedule.EventDTO  `json:"selected"`
	Lanes         map[string]int      `json:"lanes"`
	Conflicts     []ConflictPairDTO   `json:"conflicts"`
	Announcements []AnnouncementDTO   `json:"announcements"`
	TotalPages    int                 `json:"totalPages"`
	CurrentPage   int                 `json:"currentPage"`
	Display       []schedule.EventDTO `json:"display"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	snapshot, err := h.service.Snapshot(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(snapshotToDTO(snapshot)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func snapshotToDTO(s Snapshot) SnapshotDTO {
	dto := SnapshotDTO{
		Lanes:         s.Lanes,
		Conflicts:     make([]ConflictPairDTO, 0, len(s.Conflicts)),
		Announcements: make([]AnnouncementDTO, 0, len(s.Announcements)),
		TotalPages:    s.TotalPages,
		CurrentPage:   s.CurrentPage,
		Display:       make([]schedule.EventDTO, 0, len(s.Display)),
	}
	if s.Selected != nil {
		selected := schedule.EventToDTO(*s.Selected)
		dto.Selected = &selected
	}
	for _, pair := range s.Conflicts {
		dto.Conflicts = append(dto.Conflicts, ConflictPairDTO{
			Primary: schedule.EventToDTO(pair.Primary),
			Other:   schedule.EventToDTO(pair.Other),
			Kind:    string(pair.Kind),
		})
	}
	for _, a := range s.Announcements {
		item := AnnouncementDTO{
			Kind:         string(a.Kind),
			Event:        schedule.EventToDTO(a.Event),
			ConflictKind: string(a.ConflictKind),
		}
		if a.ConflictWith != nil {
			other := schedule.EventToDTO(*a.ConflictWith)
			item.ConflictWith = &other
		}
		dto.Announcements = append(dto.Announcements, item)
	}
	for _, e := range s.Display {
		dto.Display = append(dto.Display, schedule.EventToDTO(e))
	}
	return dto
}
