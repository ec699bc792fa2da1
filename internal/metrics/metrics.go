// Package metrics holds the prometheus instruments for the lock
// subsystem. Instruments are created against an explicit Registerer so
// tests and embedders can keep their own registries.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lock instruments the lock manager.
type Lock struct {
	AcquireTotal    *prometheus.CounterVec
	ContentionTotal prometheus.Counter
	BackendErrors   prometheus.Counter
	AcquireWait     prometheus.Histogram
}

// NewLock registers and returns the lock manager instruments.
func NewLock(reg prometheus.Registerer) *Lock {
	factory := promauto.With(reg)
	return &Lock{
		AcquireTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cellock",
			Subsystem: "lock",
			Name:      "acquire_total",
			Help:      "Successful lock acquisitions by category.",
		}, []string{"category"}),
		ContentionTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "cellock",
			Subsystem: "lock",
			Name:      "contention_total",
			Help:      "Acquire attempts that exhausted their retry budget.",
		}),
		BackendErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "cellock",
			Subsystem: "lock",
			Name:      "backend_errors_total",
			Help:      "Backend failures observed while acquiring or releasing.",
		}),
		AcquireWait: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cellock",
			Subsystem: "lock",
			Name:      "acquire_wait_seconds",
			Help:      "Time spent inside Acquire, including retries.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
}
