package app

import (
	"github.com/gorilla/mux"
	"github.com/klokku/availshare/internal/config"
	"github.com/klokku/availshare/internal/metrics"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Sharing
	r.HandleFunc("/api/share", deps.ShareHandler.CreateLink).Methods("POST")
	r.HandleFunc("/api/share/{token}", deps.ShareHandler.GetView).Methods("GET")
	r.HandleFunc("/api/share/{token}/ics", deps.ShareHandler.GetICS).Methods("GET")

	// Time zones
	r.HandleFunc("/api/timezones", deps.TimezoneHandler.ListZones).Methods("GET")

	// Editor
	r.HandleFunc("/api/settings", deps.SettingsHandler.GetSettings).Methods("GET")

	r.Handle("/metrics", metrics.Handler()).Methods("GET")
}
