package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotelinv", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hotelinv", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	DomainRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotelinv", Name: "domain_rejections_total", Help: "Requests refused by an inventory rule."},
		[]string{"reason"}, // validation|reference|capacity_exceeded|duplicate_room_type|not_found
	)
	InventoryMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotelinv", Name: "inventory_mutations_total", Help: "Accepted hotel and room writes."},
		[]string{"entity", "op"}, // entity: hotel|room, op: create|update|delete
	)
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, DomainRejections, InventoryMutations)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// NewMetricsServer serves reg on addr under /metrics. The caller owns the lifecycle.
func NewMetricsServer(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveRejection(reason string) {
	DomainRejections.WithLabelValues(reason).Inc()
}

func ObserveMutation(entity, op string) {
	InventoryMutations.WithLabelValues(entity, op).Inc()
}
