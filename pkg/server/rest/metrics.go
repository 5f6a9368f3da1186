package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	requestCount   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wayfinder",
			Name:      "http_requests_total",
			Help:      "number of http requests served, by path, method and status",
		}, []string{"path", "method", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wayfinder",
			Name:      "http_request_duration_seconds",
			Help:      "http request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "method"}),
	}
	reg.MustRegister(m.requestCount, m.requestLatency)
	return m
}

// PromeHttpMiddleware records count and latency per request.
func PromeHttpMiddleware(m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			m.requestLatency.WithLabelValues(r.URL.Path, r.Method).Observe(time.Since(start).Seconds())
			m.requestCount.WithLabelValues(r.URL.Path, r.Method, strconv.Itoa(ww.Status())).Inc()
		})
	}
}
