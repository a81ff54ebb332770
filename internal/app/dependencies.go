package app

import (
	"github.com/klokku/availshare/internal/config"
	"github.com/klokku/availshare/internal/event_bus"
	"github.com/klokku/availshare/internal/utils"
	"github.com/klokku/availshare/pkg/calendar"
	"github.com/klokku/availshare/pkg/editor"
	"github.com/klokku/availshare/pkg/gesture"
	"github.com/klokku/availshare/pkg/share"
	"github.com/klokku/availshare/pkg/timeutil"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus
	Settings editor.Settings

	ShareHandler    *share.Handler
	TimezoneHandler *timeutil.Handler
	SettingsHandler *editor.Handler
}

func BuildDependencies(cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus(deps.Clock)
	subscribeAuditLog(deps.EventBus)

	deps.Settings = SettingsFrom(cfg)

	deps.ShareHandler = share.NewHandler(cfg.Host, cfg.SharePath, deps.Settings.Core, deps.Clock, deps.EventBus)
	deps.TimezoneHandler = timeutil.NewHandler(deps.Clock)
	deps.SettingsHandler = editor.NewHandler(deps.Settings)

	return deps
}

func SettingsFrom(cfg config.Application) editor.Settings {
	return editor.Settings{
		Gesture: gesture.Config{
			DragThreshold: cfg.Grid.DragThreshold,
			VerticalRatio: cfg.Grid.VerticalRatio,
		},
		Core: calendar.CoreHours{Start: cfg.Grid.CoreStart, End: cfg.Grid.CoreEnd},
	}
}

func subscribeAuditLog(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped(bus, event_bus.SharedType, func(e event_bus.EventT[event_bus.AvailabilityShared]) error {
		log.Infof("share link created: %d days, %d events, zone %s", e.Data.Days, e.Data.Events, e.Data.Zone)
		return nil
	})
}
