package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultOK    = "ok"
	resultError = "error"
)

type Manager struct {
	// counters
	CounterRequests              *prometheus.CounterVec
	CounterWorkoutMutations      *prometheus.CounterVec
	CounterMissedNotifications   prometheus.Counter
	CounterMissedWorkoutsFlagged prometheus.Counter

	// gauges
	GaugeRequests prometheus.Gauge

	// histograms
	HistRequestDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("fitness", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fitness", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterWorkoutMutations := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "workout_mutations",
		Help:      "The total number of workout writes by operation and result",
	}, []string{"op", "result"})
	counterMissedNotifications := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "missed_workout_notifications",
		Help:      "The total number of missed-workout notifications shown",
	})
	counterMissedWorkoutsFlagged := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "missed_workouts_flagged",
		Help:      "The total number of missed workouts counted across all checks",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})

	histReqDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets: []float64{
				0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025,
				0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
			},
			Name: "request_duration_seconds",
			Help: "Total duration of requests in seconds",
		},
	)

	return &Manager{
		CounterRequests:              counterRequests,
		CounterWorkoutMutations:      counterWorkoutMutations,
		CounterMissedNotifications:   counterMissedNotifications,
		CounterMissedWorkoutsFlagged: counterMissedWorkoutsFlagged,
		GaugeRequests:                gaugeRequests,
		HistRequestDuration:          histReqDuration,
	}
}

// ObserveRequest records one served request.
func (m *Manager) ObserveRequest(method string, status int, seconds float64) {
	m.CounterRequests.With(prometheus.Labels{
		"method": method,
		"status": strconv.Itoa(status),
	}).Inc()
	m.HistRequestDuration.Observe(seconds)
}

func (m *Manager) ObserveMutation(op string, err error) {
	result := resultOK
	if err != nil {
		result = resultError
	}
	m.CounterWorkoutMutations.With(prometheus.Labels{"op": op, "result": result}).Inc()
}

// ObserveMissed records the outcome of one missed-workout check.
func (m *Manager) ObserveMissed(count int) {
	if count <= 0 {
		return
	}
	m.CounterMissedNotifications.Inc()
	m.CounterMissedWorkoutsFlagged.Add(float64(count))
}
