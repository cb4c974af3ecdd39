package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "netinventory_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "netinventory_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// knownPaths are the routes recorded under their own label. Everything else
// is folded into "other" to keep label cardinality bounded.
var knownPaths = map[string]bool{
	"/api/data":                true,
	"/api/upload":              true,
	"/api/export":              true,
	"/api/statistics":          true,
	"/api/statistics/capacity": true,
	"/api/sessions":            true,
	"/api/users":               true,
	"/api/auth/login":          true,
	"/api/db-test":             true,
	"/health/live":             true,
	"/health/ready":            true,
	"/metrics":                 true,
}

// Metrics records request counts and latencies in Prometheus.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := newStatusRecorder(w)

		next.ServeHTTP(rec, r)

		path := normalizePath(r.URL.Path)
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	if knownPaths[path] {
		return path
	}
	return "other"
}
