package adapters

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rosiface/internal/ports"
	"rosiface/internal/types"
)

const metricsNamespace = "rosiface"

// PrometheusMetrics records registry events on a private registry.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	ComponentsRegistered *prometheus.CounterVec
	CacheHits            *prometheus.CounterVec
	CacheMisses          *prometheus.CounterVec
	ResolutionFailures   *prometheus.CounterVec
	LoadFailures         prometheus.Counter
	Reloads              prometheus.Counter
}

func NewPrometheusMetrics() *PrometheusMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		registry: reg,
		ComponentsRegistered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "components_registered_total",
				Help:      "Total number of component registrations",
			},
			[]string{"component"},
		),
		CacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "resolution_cache_hits_total",
				Help:      "Resolutions answered from the cache",
			},
			[]string{"component"},
		),
		CacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "resolution_cache_misses_total",
				Help:      "Resolutions computed on demand",
			},
			[]string{"component"},
		),
		ResolutionFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "resolution_failures_total",
				Help:      "Failed resolutions by error kind",
			},
			[]string{"component", "kind"},
		),
		LoadFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "load_failures_total",
				Help:      "Descriptor documents or components that failed to load",
			},
		),
		Reloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "descriptor_reloads_total",
				Help:      "Descriptor reloads triggered by file changes",
			},
		),
	}
}

func (m *PrometheusMetrics) ComponentRegistered(component string) {
	m.ComponentsRegistered.WithLabelValues(component).Inc()
}

func (m *PrometheusMetrics) CacheHit(component string) {
	m.CacheHits.WithLabelValues(component).Inc()
}

func (m *PrometheusMetrics) CacheMiss(component string) {
	m.CacheMisses.WithLabelValues(component).Inc()
}

func (m *PrometheusMetrics) ResolutionFailed(component string, kind types.ErrorKind) {
	m.ResolutionFailures.WithLabelValues(component, string(kind)).Inc()
}

func (m *PrometheusMetrics) LoadFailed() {
	m.LoadFailures.Inc()
}

func (m *PrometheusMetrics) Reloaded() {
	m.Reloads.Inc()
}

// Handler serves the collected metrics in the Prometheus exposition format.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

var _ ports.MetricsPort = (*PrometheusMetrics)(nil)
