package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	shareTokensTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "availshare_share_tokens_total",
		Help: "Share tokens encoded or decoded, by result.",
	}, []string{"operation", "result"})

	gesturesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "availshare_gestures_total",
		Help: "Finished pointer gestures by outcome.",
	}, []string{"outcome"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "availshare_http_requests_total",
		Help: "Total number of HTTP requests processed.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "availshare_http_request_duration_seconds",
		Help:    "Histogram of latencies for HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

func ObserveToken(operation, result string) {
	shareTokensTotal.WithLabelValues(operation, result).Inc()
}

func ObserveGesture(outcome string) {
	gesturesTotal.WithLabelValues(outcome).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latencies labelled by the matched route template,
// so share tokens embedded in paths do not explode label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := routeTemplate(r)
		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
