// metrics.go is a thin abstraction over Prometheus so the scheduler can run
// with or without metrics.  Passing a *prometheus.Registry via WithMetrics
// creates and registers real collectors; otherwise a no-op sink is used and
// the tick loop pays nothing.
//
// © 2025 calyx authors. MIT License.

package coroutine

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metricsSink is the internal interface the scheduler reports through.
type metricsSink interface {
	incStarted(parallel bool)
	incStopped()
	incResumes(n int)
	incTaskErrors(n int)
	observeTick(seconds float64)
	setLive(blocking, parallel int)
}

type noopMetrics struct{}

func (noopMetrics) incStarted(bool)      {}
func (noopMetrics) incStopped()          {}
func (noopMetrics) incResumes(int)       {}
func (noopMetrics) incTaskErrors(int)    {}
func (noopMetrics) observeTick(float64)  {}
func (noopMetrics) setLive(int, int)     {}

type promMetrics struct {
	started    *prometheus.CounterVec
	stopped    prometheus.Counter
	resumes    prometheus.Counter
	taskErrors prometheus.Counter
	tick       prometheus.Histogram
	live       *prometheus.GaugeVec
}

func newPromMetrics(reg *prometheus.Registry) *promMetrics {
	pm := &promMetrics{
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calyx_coroutine",
			Name:      "tasks_started_total",
			Help:      "Tasks registered with the scheduler.",
		}, []string{"mode"}),
		stopped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "calyx_coroutine",
			Name:      "tasks_stopped_total",
			Help:      "Tasks removed from the scheduler.",
		}),
		resumes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "calyx_coroutine",
			Name:      "resumes_total",
			Help:      "Blocking-task resumes performed by Update.",
		}),
		taskErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "calyx_coroutine",
			Name:      "task_errors_total",
			Help:      "Errors collected into per-tick aggregates.",
		}),
		tick: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "calyx_coroutine",
			Name:      "tick_duration_seconds",
			Help:      "Wall time of a single Update tick.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}),
		live: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "calyx_coroutine",
			Name:      "tasks_live",
			Help:      "Tasks currently registered, by mode.",
		}, []string{"mode"}),
	}
	reg.MustRegister(pm.started, pm.stopped, pm.resumes, pm.taskErrors, pm.tick, pm.live)
	return pm
}

func (m *promMetrics) incStarted(parallel bool) {
	m.started.WithLabelValues(modeLabel(parallel)).Inc()
}
func (m *promMetrics) incStopped()       { m.stopped.Inc() }
func (m *promMetrics) incResumes(n int)  { m.resumes.Add(float64(n)) }
func (m *promMetrics) incTaskErrors(n int) {
	m.taskErrors.Add(float64(n))
}
func (m *promMetrics) observeTick(s float64) { m.tick.Observe(s) }
func (m *promMetrics) setLive(blocking, parallel int) {
	m.live.WithLabelValues("blocking").Set(float64(blocking))
	m.live.WithLabelValues("parallel").Set(float64(parallel))
}

func modeLabel(parallel bool) string {
	if parallel {
		return "parallel"
	}
	return "blocking"
}

func newMetricsSink(reg *prometheus.Registry) metricsSink {
	if reg == nil {
		return noopMetrics{}
	}
	return newPromMetrics(reg)
}
