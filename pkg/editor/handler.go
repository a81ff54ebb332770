package editor

import (
	"net/http"

	"github.com/klokku/availshare/internal/rest"
	"github.com/klokku/availshare/pkg/timeutil"
)

type SettingsDTO struct {
	DragThreshold float64 `json:"dragThreshold"`
	VerticalRatio float64 `json:"verticalRatio"`
	CoreStart     int     `json:"coreStart"`
	CoreEnd       int     `json:"coreEnd"`
	SlotMinutes   int     `json:"slotMinutes"`
}

// Handler serves the grid settings the browser editor runs with.
type Handler struct {
	settings Settings
}

func NewHandler(settings Settings) *Handler {
	return &Handler{settings: settings}
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, SettingsDTO{
		DragThreshold: h.settings.Gesture.DragThreshold,
		VerticalRatio: h.settings.Gesture.VerticalRatio,
		CoreStart:     h.settings.Core.Start,
		CoreEnd:       h.settings.Core.End,
		SlotMinutes:   timeutil.SlotMinutes,
	})
}
