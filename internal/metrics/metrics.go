package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Workshop gauges, refreshed by the stats collector
	SierrasPorEstado = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sierras_por_estado",
			Help: "Number of active sierras per lifecycle state",
		},
		[]string{"estado"},
	)

	AfiladosPendientes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "afilados_pendientes",
			Help: "Sharpening records without fecha_salida",
		},
	)

	SalidasMasivasTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "salidas_masivas_total",
			Help: "Bulk exits committed since startup",
		},
	)

	BajasMasivasTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bajas_masivas_total",
			Help: "Bulk retirements committed since startup",
		},
	)
)
