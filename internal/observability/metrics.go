package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskibarqy/court-spotter/internal/domain/availability"
	"github.com/riskibarqy/court-spotter/internal/domain/club"
	"github.com/riskibarqy/court-spotter/internal/usecase"
)

const metricsNamespace = "courtspotter"

const (
	CycleResultSuccess = "success"
	CycleResultError   = "error"
	CycleResultSkipped = "skipped"
)

// SyncMetrics records sync outcomes in its own Prometheus registry.
type SyncMetrics struct {
	registry      *prometheus.Registry
	cycles        *prometheus.CounterVec
	cycleDuration prometheus.Histogram
	failedDays    *prometheus.CounterVec
	slotsAdded    prometheus.Counter
	slotsRemoved  prometheus.Counter
}

func NewSyncMetrics() *SyncMetrics {
	m := &SyncMetrics{
		registry: prometheus.NewRegistry(),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sync_cycles_total",
			Help:      "Sync cycles by result.",
		}, []string{"result"}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "sync_cycle_duration_seconds",
			Help:      "Wall time of completed sync cycles.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		failedDays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "failed_days_total",
			Help:      "Per-date provider fetch failures.",
		}, []string{"provider", "reason"}),
		slotsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "slots_added_total",
			Help:      "Availability slots inserted by reconciliation.",
		}),
		slotsRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "slots_removed_total",
			Help:      "Availability slots deleted by reconciliation.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.cycles,
		m.cycleDuration,
		m.failedDays,
		m.slotsAdded,
		m.slotsRemoved,
	)
	return m
}

func (m *SyncMetrics) ObserveClub(c club.Club, result availability.ClubResult) {
	for _, failure := range result.Failures {
		m.failedDays.WithLabelValues(string(c.Provider), string(failure.Reason)).Inc()
	}
}

func (m *SyncMetrics) ObserveCycle(report usecase.SyncReport, err error) {
	switch {
	case err != nil:
		m.cycles.WithLabelValues(CycleResultError).Inc()
		return
	case report.Skipped:
		m.cycles.WithLabelValues(CycleResultSkipped).Inc()
		return
	}

	m.cycles.WithLabelValues(CycleResultSuccess).Inc()
	m.cycleDuration.Observe(report.Duration.Seconds())
	m.slotsAdded.Add(float64(report.Added))
	m.slotsRemoved.Add(float64(report.Removed))
}

func (m *SyncMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *SyncMetrics) Registry() *prometheus.Registry {
	return m.registry
}
