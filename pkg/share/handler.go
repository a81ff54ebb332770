package share

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/klokku/availshare/internal/event_bus"
	"github.com/klokku/availshare/internal/rest"
	"github.com/klokku/availshare/internal/utils"
	"github.com/klokku/availshare/pkg/calendar"
	"github.com/klokku/availshare/pkg/timeutil"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	origin string
	path   string
	core   calendar.CoreHours
	clock  utils.Clock
	bus    event_bus.Publisher
}

type StateDTO struct {
	Days   []calendar.CalendarDay       `json:"days"`
	Events []calendar.AvailabilityEvent `json:"events"`
	TZ     string                       `json:"tz"`
}

type LinkDTO struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

type DayViewDTO struct {
	ID    string `json:"id"`
	Date  string `json:"date"`
	Label string `json:"label"`
}

type EventViewDTO struct {
	ID           string `json:"id"`
	DayID        string `json:"dayId"`
	StartMinutes int    `json:"startMinutes"`
	EndMinutes   int    `json:"endMinutes"`
	Label        string `json:"label,omitempty"`
	TimeRange    string `json:"timeRange"`
	StartShift   int    `json:"startDayShift"`
	EndShift     int    `json:"endDayShift"`
}

type ViewDTO struct {
	SourceZone  string         `json:"sourceZone"`
	Zone        string         `json:"zone"`
	ZoneDisplay string         `json:"zoneDisplay"`
	Days        []DayViewDTO   `json:"days"`
	Events      []EventViewDTO `json:"events"`
	VisibleFrom int            `json:"visibleFrom"`
	VisibleTo   int            `json:"visibleTo"`
}

func NewHandler(origin, path string, core calendar.CoreHours, clock utils.Clock, bus event_bus.Publisher) *Handler {
	return &Handler{origin: origin, path: path, core: core, clock: clock, bus: bus}
}

// CreateLink encodes the posted state into a share token and URL.
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var state StateDTO
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if _, err := timeutil.LoadZone(state.TZ); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid time zone", err.Error())
		return
	}
	shared := SharedState{Days: state.Days, Events: state.Events, TZ: state.TZ}
	if err := shared.Validate(); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid calendar", err.Error())
		return
	}

	url, err := BuildShareURL(h.origin, h.path, state.Days, state.Events, state.TZ)
	if err != nil {
		log.Errorf("failed to build share url: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	err = h.bus.Publish(r.Context(), event_bus.SharedType, event_bus.AvailabilityShared{
		Zone:   state.TZ,
		Days:   len(state.Days),
		Events: len(state.Events),
		URL:    url,
	})
	if err != nil {
		log.Errorf("failed to publish share event: %v", err)
	}
	rest.WriteJSON(w, http.StatusCreated, LinkDTO{Token: TokenFromURL(url), URL: url})
}

// GetView decodes a token and projects it to the zone given in the "tz" query parameter
// (the source zone when absent). Orphaned events are dropped from the view.
func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	state, ok := Decode(mux.Vars(r)["token"])
	if !ok {
		rest.WriteError(w, http.StatusNotFound, "Invalid share token", "the link is malformed or incomplete")
		return
	}

	zoneName := r.URL.Query().Get("tz")
	if zoneName == "" {
		zoneName = state.TZ
	}
	target, err := timeutil.LoadZone(zoneName)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid time zone", err.Error())
		return
	}

	projections, err := Project(*state, target)
	if err != nil {
		log.Errorf("failed to project shared state: %v", err)
		rest.WriteError(w, http.StatusUnprocessableEntity, "Cannot convert shared times", err.Error())
		return
	}

	view, err := h.buildView(*state, zoneName, projections)
	if err != nil {
		rest.WriteError(w, http.StatusUnprocessableEntity, "Cannot render shared state", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, view)
}

// GetICS returns the shared availability as an iCalendar file.
func (h *Handler) GetICS(w http.ResponseWriter, r *http.Request) {
	state, ok := Decode(mux.Vars(r)["token"])
	if !ok {
		rest.WriteError(w, http.StatusNotFound, "Invalid share token", "the link is malformed or incomplete")
		return
	}
	body, err := ExportICS(*state, h.clock.Now())
	if err != nil {
		rest.WriteError(w, http.StatusUnprocessableEntity, "Cannot export shared state", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="availability.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		log.Errorf("failed to write ics: %v", err)
	}
}

func (h *Handler) buildView(state SharedState, zoneName string, projections []Projection) (ViewDTO, error) {
	display, err := timeutil.FormatZoneDisplay(zoneName, h.clock.Now())
	if err != nil {
		return ViewDTO{}, err
	}

	view := ViewDTO{
		SourceZone:  state.TZ,
		Zone:        zoneName,
		ZoneDisplay: display,
		Days:        make([]DayViewDTO, 0, len(state.Days)),
		Events:      make([]EventViewDTO, 0, len(projections)),
	}

	schedule := calendar.FromState(state.Days, nil)
	for _, d := range schedule.Days() {
		label, err := timeutil.FormatDayLabel(d.Date)
		if err != nil {
			return ViewDTO{}, err
		}
		view.Days = append(view.Days, DayViewDTO{ID: d.ID, Date: d.Date, Label: label})
	}

	visible := make([]calendar.AvailabilityEvent, 0, len(projections))
	for _, p := range projections {
		if _, ok := schedule.Day(p.Event.DayID); !ok {
			continue
		}
		visible = append(visible, p.Event)
		view.Events = append(view.Events, EventViewDTO{
			ID:           p.Event.ID,
			DayID:        p.Event.DayID,
			StartMinutes: p.Event.StartMinutes,
			EndMinutes:   p.Event.EndMinutes,
			Label:        p.Event.Label,
			TimeRange:    timeutil.FormatRange(p.Event.StartMinutes, p.Event.EndMinutes),
			StartShift:   p.StartShift,
			EndShift:     p.EndShift,
		})
	}

	view.VisibleFrom, view.VisibleTo = h.core.VisibleRange(h.core.AutoExpand(visible))
	return view, nil
}
