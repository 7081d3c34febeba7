package metrics

import (
	"alcyxob/fitness-tracker/internal/tracker"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ tracker.Recorder = (*Manager)(nil)

func TestManager_ObserveRequest(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.ObserveRequest("GET", 200, 0.01)
	m.ObserveRequest("GET", 200, 0.02)
	m.ObserveRequest("POST", 400, 0.01)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterRequests.WithLabelValues("GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterRequests.WithLabelValues("POST", "400")))

	count, err := testutil.GatherAndCount(reg, "fitness_test_server_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestManager_ObserveMutation(t *testing.T) {
	m := NewTestManager()

	m.ObserveMutation(tracker.OpCreate, nil)
	m.ObserveMutation(tracker.OpCreate, errors.New("boom"))
	m.ObserveMutation(tracker.OpDelete, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterWorkoutMutations.WithLabelValues("create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterWorkoutMutations.WithLabelValues("create", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterWorkoutMutations.WithLabelValues("delete", "ok")))
}

func TestManager_ObserveMissed(t *testing.T) {
	m := NewTestManager()

	m.ObserveMissed(0)
	m.ObserveMissed(3)
	m.ObserveMissed(1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterMissedNotifications))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.CounterMissedWorkoutsFlagged))
}
