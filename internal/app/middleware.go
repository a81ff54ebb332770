package app

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/klokku/availshare/internal/config"
	"github.com/klokku/availshare/internal/metrics"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {
	r.Use(metrics.Middleware)

	// Share tokens travel in the path, so only the route template is logged.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, req)

			route := req.URL.Path
			if current := mux.CurrentRoute(req); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			log.Debugf("%s %s took %s", req.Method, route, time.Since(start))
		})
	})
}
