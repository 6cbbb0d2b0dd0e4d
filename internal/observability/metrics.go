// Package observability métricas Prometheus de la API y del worker.
package observability

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// Metrics colectores del servicio. Un *Metrics nil no registra nada.
type Metrics struct {
	movements    *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	audits       *prometheus.CounterVec
	inconsistent prometheus.Gauge
	gatherer     prometheus.Gatherer
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// NewMetrics registra los colectores. Con registry nil usa el registro global de Prometheus.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		defaultOnce.Do(func() {
			defaultMetrics = build(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
		})
		return defaultMetrics
	}
	return build(registry, registry)
}

func build(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	m := &Metrics{
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kardex",
			Name:      "movements_total",
			Help:      "Intentos de movimiento por dirección y resultado.",
		}, []string{"direction", "outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kardex",
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP atendidas.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kardex",
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		audits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kardex",
			Name:      "ledger_audits_total",
			Help:      "Corridas de auditoría del kardex.",
		}, []string{"status"}),
		inconsistent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kardex",
			Name:      "ledger_inconsistent_products",
			Help:      "Productos cuyo saldo no coincide con el kardex en la última auditoría.",
		}),
		gatherer: gatherer,
	}
	reg.MustRegister(m.movements, m.httpRequests, m.httpDuration, m.audits, m.inconsistent)
	return m
}

// ObserveMovement implementa inventory.MovementObserver.
func (m *Metrics) ObserveMovement(direction entity.Direction, outcome string) {
	if m == nil {
		return
	}
	dir := string(direction)
	if dir == "" {
		dir = "unknown"
	}
	m.movements.WithLabelValues(dir, outcome).Inc()
}

// ObserveRequest registra una petición ya respondida. route es la plantilla, no la URL.
func (m *Metrics) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveAudit implementa jobs.AuditObserver.
func (m *Metrics) ObserveAudit(inconsistent int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.audits.WithLabelValues("failure").Inc()
		return
	}
	m.audits.WithLabelValues("success").Inc()
	m.inconsistent.Set(float64(inconsistent))
}

// Handler expone /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
