// Package metrics expone las métricas del servicio en formato Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Inventario-hotel/internal/application/inventory"
)

const namespace = "inventario"

var _ inventory.Metrics = (*Prometheus)(nil)

// Prometheus implementa inventory.Metrics y las métricas HTTP sobre un registro propio.
type Prometheus struct {
	gatherer prometheus.Gatherer

	operations   *prometheus.CounterVec
	opLatency    *prometheus.HistogramVec
	stockItems   prometheus.Gauge
	lowStock     prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

// New registra las métricas en reg. Con reg nil usa un registro nuevo.
func New(reg *prometheus.Registry) *Prometheus {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	p := &Prometheus{
		gatherer: reg,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Operaciones del motor de inventario por resultado.",
		}, []string{"op", "outcome"}),
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duración de las operaciones del motor de inventario.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		stockItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "items",
			Help:      "Artículos en el inventario.",
		}),
		lowStock: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "low_stock_items",
			Help:      "Artículos con cantidad menor o igual al mínimo.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por ruta y estado.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(p.operations, p.opLatency, p.stockItems, p.lowStock, p.httpRequests, p.httpLatency)
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return p
}

func (p *Prometheus) ObserveOperation(op, outcome string, elapsed time.Duration) {
	p.operations.WithLabelValues(op, outcome).Inc()
	p.opLatency.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (p *Prometheus) SetStockLevels(items, lowStock int) {
	p.stockItems.Set(float64(items))
	p.lowStock.Set(float64(lowStock))
}

// ObserveHTTP route es el patrón de la ruta, no la URL, para acotar la cardinalidad.
func (p *Prometheus) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler sirve /metrics.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}
