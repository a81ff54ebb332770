package app

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/klokku/availshare/internal/config"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, router and server lifecycle. It keeps no state
// between requests: shared calendars live in the links themselves.
type Application struct {
	cfg    config.Application
	router *mux.Router
	srv    *http.Server
}

func NewApplication(configPath string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return newApplication(cfg, BuildDependencies(cfg)), nil
}

func newApplication(cfg config.Application, deps *Dependencies) *Application {
	r := mux.NewRouter()
	SetupMiddleware(r, deps, cfg)
	RegisterRoutes(r, deps, cfg)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Listen,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, router: r, srv: srv}
}

// Run starts the HTTP server and blocks.
func (a *Application) Run() error {
	log.Infof("Starting server on %s, share links on %s%s", a.srv.Addr, a.cfg.Host, a.cfg.SharePath)
	return a.srv.ListenAndServe()
}
