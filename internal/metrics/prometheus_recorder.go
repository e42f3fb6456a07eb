package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	runDuration   prom.Histogram
	stageDuration *prom.HistogramVec
	runOutcomes   *prom.CounterVec
	dirOutcomes   *prom.CounterVec
	modCount      prom.Gauge
	errorCount    prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "cabinetsorter",
			Name:      "run_duration_seconds",
			Help:      "Total run duration",
			Buckets:   prom.DefBuckets,
		})
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "cabinetsorter",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual run stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.runOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "cabinetsorter",
			Name:      "run_outcomes_total",
			Help:      "Run outcomes by final status",
		}, []string{"outcome"})
		pr.dirOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "cabinetsorter",
			Name:      "directory_outcomes_total",
			Help:      "Per-directory processing outcomes",
		}, []string{"tree", "outcome"})
		pr.modCount = prom.NewGauge(prom.GaugeOpts{
			Namespace: "cabinetsorter",
			Name:      "mods",
			Help:      "Mod records in the latest projection",
		})
		pr.errorCount = prom.NewGauge(prom.GaugeOpts{
			Namespace: "cabinetsorter",
			Name:      "errors",
			Help:      "Accumulated diagnostics in the latest projection",
		})
		reg.MustRegister(pr.runDuration, pr.stageDuration, pr.runOutcomes, pr.dirOutcomes, pr.modCount, pr.errorCount)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome string) {
	if p == nil || p.runOutcomes == nil {
		return
	}
	p.runOutcomes.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncDirOutcome(tree string, outcome DirOutcome) {
	if p == nil || p.dirOutcomes == nil {
		return
	}
	p.dirOutcomes.WithLabelValues(tree, string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetModCount(n int) {
	if p == nil || p.modCount == nil {
		return
	}
	p.modCount.Set(float64(n))
}

func (p *PrometheusRecorder) SetErrorCount(n int) {
	if p == nil || p.errorCount == nil {
		return
	}
	p.errorCount.Set(float64(n))
}
