package tracker

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatElapsed(0))
	assert.Equal(t, "00:00:59", FormatElapsed(59*time.Second+900*time.Millisecond))
	assert.Equal(t, "00:01:05", FormatElapsed(65*time.Second))
	assert.Equal(t, "01:01:01", FormatElapsed(time.Hour+time.Minute+time.Second))
	assert.Equal(t, "25:00:00", FormatElapsed(25*time.Hour))
	assert.Equal(t, "00:00:00", FormatElapsed(-time.Second))
}

func TestStopwatch(t *testing.T) {
	var s Stopwatch
	start := testNow

	assert.False(t, s.Running())
	assert.Zero(t, s.Elapsed(start))

	s.Toggle(start)
	assert.True(t, s.Running())
	assert.Equal(t, 90*time.Second, s.Elapsed(start.Add(90*time.Second+400*time.Millisecond)))

	// pause at 2m, time spent paused doesn't count
	s.Toggle(start.Add(2 * time.Minute))
	assert.False(t, s.Running())
	assert.Equal(t, 2*time.Minute, s.Elapsed(start.Add(time.Hour)))

	s.Toggle(start.Add(time.Hour))
	assert.Equal(t, 3*time.Minute, s.Elapsed(start.Add(time.Hour+time.Minute)))

	s.Reset()
	assert.False(t, s.Running())
	assert.Zero(t, s.Elapsed(start.Add(2*time.Hour)))
}

func TestStopwatchRegistry(t *testing.T) {
	now := testNow
	r := NewStopwatchRegistry(func() time.Time { return now })

	assert.Equal(t, TimerView{Display: "00:00:00"}, r.Get("u1", "w1"))

	view := r.Toggle("u1", "w1")
	assert.True(t, view.Running)

	now = now.Add(75 * time.Second)
	assert.Equal(t, TimerView{Running: true, ElapsedSeconds: 75, Display: "00:01:15"}, r.Get("u1", "w1"))

	// stopwatches are per user and workout
	assert.Equal(t, TimerView{Display: "00:00:00"}, r.Get("u2", "w1"))
	assert.Equal(t, TimerView{Display: "00:00:00"}, r.Get("u1", "w2"))

	view = r.Toggle("u1", "w1")
	assert.False(t, view.Running)
	assert.Equal(t, int64(75), view.ElapsedSeconds)

	assert.Equal(t, TimerView{Display: "00:00:00"}, r.Reset("u1", "w1"))
	assert.Equal(t, TimerView{Display: "00:00:00"}, r.Get("u1", "w1"))

	r.Toggle("u1", "w3")
	r.Forget("u1", "w3")
	assert.False(t, r.Get("u1", "w3").Running)
}

func TestStopwatchRegistry_Concurrent(t *testing.T) {
	r := NewStopwatchRegistry(nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Toggle("u", "w")
			r.Get("u", "w")
		}()
	}
	wg.Wait()

	// ten toggles leave it paused
	assert.False(t, r.Get("u", "w").Running)
}

func TestStopwatchRegistry_IDCaseInsensitive(t *testing.T) {
	r := NewStopwatchRegistry(fixedClock)

	r.Toggle("6ad300e374a23463be9daf21", "6ad300e374a23463be9daf22")
	assert.True(t, r.Get("6AD300E374A23463BE9DAF21", "6AD300E374A23463BE9DAF22").Running)

	r.Forget("6ad300e374a23463be9daf21", "6AD300E374A23463BE9DAF22")
	assert.Zero(t, r.Len())
}
