package timeutil

import (
	"encoding/json"
	"net/http"

	"github.com/klokku/availshare/internal/utils"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	clock utils.Clock
}

type ZoneDTO struct {
	IANA    string `json:"iana"`
	Name    string `json:"name"`
	Display string `json:"display"`
}

func NewHandler(clock utils.Clock) *Handler {
	return &Handler{clock: clock}
}

// ListZones returns CommonZones with their current offsets. A "current" zone query
// parameter that is not in the list is prepended, the way a picker shows an unlisted value.
func (h *Handler) ListZones(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()
	zones := make([]Zone, 0, len(CommonZones)+1)
	if current := r.URL.Query().Get("current"); current != "" && !IsCommonZone(current) {
		zones = append(zones, Zone{IANA: current, Name: ZoneName(current)})
	}
	zones = append(zones, CommonZones...)

	dtos := make([]ZoneDTO, 0, len(zones))
	for _, z := range zones {
		display, err := FormatZoneDisplay(z.IANA, now)
		if err != nil {
			log.Warnf("skipping zone %s: %v", z.IANA, err)
			continue
		}
		dtos = append(dtos, ZoneDTO{IANA: z.IANA, Name: z.Name, Display: display})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
