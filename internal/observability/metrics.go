package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	motionSteps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stalkbot",
			Subsystem: "motion",
			Name:      "steps_total",
			Help:      "Motion steps dispatched to the arm.",
		},
		[]string{"phase", "intent", "success"},
	)
	motionStepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stalkbot",
			Subsystem: "motion",
			Name:      "step_duration_seconds",
			Help:      "Time from dispatch to completion of a motion step.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"phase", "intent"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stalkbot",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests served by the simulator.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stalkbot",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(motionSteps, motionStepDuration, httpRequests, httpDuration)
	})
}

// RecordStep counts one dispatched motion step.
func RecordStep(phase, intent string, duration time.Duration, success bool) {
	RegisterMetrics()
	motionSteps.WithLabelValues(phase, intent, strconv.FormatBool(success)).Inc()
	if success {
		motionStepDuration.WithLabelValues(phase, intent).Observe(duration.Seconds())
	}
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}
