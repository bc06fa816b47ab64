package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP holds the transport level Prometheus metrics.
type HTTP struct {
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
}

// New creates and registers the HTTP metrics on reg.
func New(reg prometheus.Registerer) *HTTP {
	factory := promauto.With(reg)
	return &HTTP{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bloodlink_http_request_duration_seconds",
			Help:    "Latency of HTTP requests by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		RequestsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bloodlink_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		}),
	}
}

// ObserveRequest records one finished request. route is the matched pattern,
// never the raw path, to keep label cardinality bounded.
func (m *HTTP) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
