package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DispatchMetrics counts outbound message dispatch outcomes.
type DispatchMetrics struct {
	dispatches *prometheus.CounterVec
}

// SweepMetrics tracks the reclassification sweep over open debts.
type SweepMetrics struct {
	processed *prometheus.CounterVec
	backlog   prometheus.Gauge
	duration  prometheus.Histogram
}

var (
	dispatchMetricsOnce sync.Once
	dispatchMetrics     *DispatchMetrics

	sweepMetricsOnce sync.Once
	sweepMetrics     *SweepMetrics
)

func Dispatch() *DispatchMetrics {
	return DispatchWithConfig(Config{})
}

func DispatchWithConfig(cfg Config) *DispatchMetrics {
	dispatchMetricsOnce.Do(func() {
		dispatchMetrics = newDispatchMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return dispatchMetrics
}

func Sweep() *SweepMetrics {
	return SweepWithConfig(Config{})
}

func SweepWithConfig(cfg Config) *SweepMetrics {
	sweepMetricsOnce.Do(func() {
		sweepMetrics = newSweepMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return sweepMetrics
}

func ResetCollectionsMetricsForTest() {
	dispatchMetricsOnce = sync.Once{}
	dispatchMetrics = nil
	sweepMetricsOnce = sync.Once{}
	sweepMetrics = nil
}

func constLabels(cfg Config) prometheus.Labels {
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "kolekta"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	return prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}
}

func newDispatchMetrics(registerer prometheus.Registerer, cfg Config) *DispatchMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	dispatches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "kolekta_dispatches_total",
			Help:        "Total communication dispatch attempts by channel and final status.",
			ConstLabels: constLabels(cfg),
		},
		[]string{"channel", "status"},
	)

	registerer.MustRegister(dispatches)
	return &DispatchMetrics{dispatches: dispatches}
}

func (m *DispatchMetrics) Observe(channel, status string) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(channel, status).Inc()
}

func newSweepMetrics(registerer prometheus.Registerer, cfg Config) *SweepMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	labels := constLabels(cfg)

	processed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "kolekta_sweep_processed_total",
			Help:        "Total debts processed by the reclassification sweep.",
			ConstLabels: labels,
		},
		[]string{"result"}, // reclassified | unchanged | failed
	)

	backlog := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name:        "kolekta_sweep_open_debts_total",
			Help:        "Number of open debts seen by the latest sweep.",
			ConstLabels: labels,
		},
	)

	duration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:        "kolekta_sweep_duration_seconds",
			Help:        "Wall time of one full reclassification sweep.",
			Buckets:     []float64{0.1, 0.5, 1, 5, 15, 60, 300},
			ConstLabels: labels,
		},
	)

	registerer.MustRegister(processed, backlog, duration)
	return &SweepMetrics{
		processed: processed,
		backlog:   backlog,
		duration:  duration,
	}
}

func (m *SweepMetrics) IncProcessed(result string) {
	if m == nil {
		return
	}
	m.processed.WithLabelValues(result).Inc()
}

func (m *SweepMetrics) SetBacklog(value int) {
	if m == nil {
		return
	}
	m.backlog.Set(float64(value))
}

func (m *SweepMetrics) ObserveDuration(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.duration.Observe(elapsed.Seconds())
}
