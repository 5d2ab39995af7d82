package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WorkerMetrics instruments the review generation worker: one "student" is
// one unit of work, producing the full set of AI reviews for that student.
type WorkerMetrics struct {
	registry *prometheus.Registry

	generateTotal    *prometheus.CounterVec
	generateDuration *prometheus.HistogramVec
	generateInFlight prometheus.Gauge
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	generateTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "peerblind",
			Subsystem: "worker",
			Name:      "student_generate_total",
			Help:      "Total students processed by status.",
		},
		[]string{"service", "status"},
	)
	generateDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "peerblind",
			Subsystem: "worker",
			Name:      "student_generate_duration_seconds",
			Help:      "Per-student review generation duration in seconds by status.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"service", "status"},
	)
	generateInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "peerblind",
			Subsystem: "worker",
			Name:      "student_generate_in_flight",
			Help:      "Number of students currently being processed.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	registry.MustRegister(generateTotal, generateDuration, generateInFlight)

	return &WorkerMetrics{
		registry:         registry,
		generateTotal:    generateTotal,
		generateDuration: generateDuration,
		generateInFlight: generateInFlight,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartStudent() {
	m.generateInFlight.Inc()
}

func (m *WorkerMetrics) FinishStudent(service string, duration time.Duration, err error) {
	m.generateInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.generateTotal.WithLabelValues(service, status).Inc()
	m.generateDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}
