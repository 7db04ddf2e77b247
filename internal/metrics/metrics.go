// Package metrics exposes Prometheus counters for the scan pipeline, the
// attendance engine, enrollment notifications and HTTP traffic.
//
// A nil *Registry is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "attendance"

type Registry struct {
	reg *prometheus.Registry

	scans         *prometheus.CounterVec
	transitions   *prometheus.CounterVec
	notifications *prometheus.CounterVec
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	scannerUp     prometheus.Gauge
}

// New builds a registry with its own collectors so tests can create many.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Decoded tokens seen by the scan loop, by outcome.",
		}, []string{"outcome"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Attendance engine results, by operation and result.",
		}, []string{"operation", "result"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrollment_notifications_total",
			Help:      "Enrollment notification deliveries, by result.",
		}, []string{"result"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		scannerUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scanner_running",
			Help:      "1 while the scan loop holds its source.",
		}),
	}

	r.reg.MustRegister(
		r.scans, r.transitions, r.notifications, r.requests, r.latency, r.scannerUp,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

func (r *Registry) Scan(outcome string) {
	if r == nil {
		return
	}
	r.scans.WithLabelValues(outcome).Inc()
}

func (r *Registry) Transition(operation, result string) {
	if r == nil {
		return
	}
	r.transitions.WithLabelValues(operation, result).Inc()
}

func (r *Registry) Notification(result string) {
	if r == nil {
		return
	}
	r.notifications.WithLabelValues(result).Inc()
}

func (r *Registry) ScannerRunning(running bool) {
	if r == nil {
		return
	}
	if running {
		r.scannerUp.Set(1)
		return
	}
	r.scannerUp.Set(0)
}

func (r *Registry) ObserveRequest(method, route, status string, d time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(method, route, status).Inc()
	r.latency.WithLabelValues(method, route).Observe(d.Seconds())
}
