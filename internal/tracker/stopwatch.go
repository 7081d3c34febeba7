package tracker

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Stopwatch measures workout time at one second resolution.
// The zero value is a stopped stopwatch at 00:00:00.
type Stopwatch struct {
	running     bool
	startedAt   time.Time
	accumulated time.Duration
}

// Toggle starts a stopped stopwatch and pauses a running one.
func (s *Stopwatch) Toggle(now time.Time) {
	if s.running {
		s.accumulated += now.Sub(s.startedAt)
		s.running = false
		return
	}
	s.startedAt = now
	s.running = true
}

// Reset stops the stopwatch and clears it.
func (s *Stopwatch) Reset() {
	*s = Stopwatch{}
}

func (s *Stopwatch) Running() bool {
	return s.running
}

func (s *Stopwatch) Elapsed(now time.Time) time.Duration {
	elapsed := s.accumulated
	if s.running && now.After(s.startedAt) {
		elapsed += now.Sub(s.startedAt)
	}
	return elapsed.Truncate(time.Second)
}

// FormatElapsed renders d as HH:MM:SS. Hours don't wrap at 24.
func FormatElapsed(d time.Duration) string {
	total := int64(d / time.Second)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total%3600/60, total%60)
}

// TimerView is the stopwatch state shown on a workout card.
type TimerView struct {
	Running        bool   `json:"running"`
	ElapsedSeconds int64  `json:"elapsedSeconds"`
	Display        string `json:"display"`
}

func timerView(s *Stopwatch, now time.Time) TimerView {
	elapsed := s.Elapsed(now)
	return TimerView{
		Running:        s.Running(),
		ElapsedSeconds: int64(elapsed / time.Second),
		Display:        FormatElapsed(elapsed),
	}
}

type stopwatchKey struct {
	userID    string
	workoutID string
}

// newStopwatchKey folds hex ids to lower case, so "6AD3..." and "6ad3..."
// name the same workout.
func newStopwatchKey(userID, workoutID string) stopwatchKey {
	return stopwatchKey{strings.ToLower(userID), strings.ToLower(workoutID)}
}

// StopwatchRegistry keeps the stopwatch of every workout card across requests.
type StopwatchRegistry struct {
	mu      sync.Mutex
	now     func() time.Time
	watches map[stopwatchKey]*Stopwatch
}

// NewStopwatchRegistry creates an empty registry. A nil now means time.Now.
func NewStopwatchRegistry(now func() time.Time) *StopwatchRegistry {
	if now == nil {
		now = time.Now
	}
	return &StopwatchRegistry{
		now:     now,
		watches: make(map[stopwatchKey]*Stopwatch),
	}
}

// Get reports the stopwatch state. Unknown stopwatches read as zero.
func (r *StopwatchRegistry) Get(userID, workoutID string) TimerView {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.watches[newStopwatchKey(userID, workoutID)]
	if !ok {
		s = &Stopwatch{}
	}
	return timerView(s, r.now())
}

// Toggle starts or pauses a stopwatch, creating it on first use.
func (r *StopwatchRegistry) Toggle(userID, workoutID string) TimerView {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := newStopwatchKey(userID, workoutID)
	s, ok := r.watches[key]
	if !ok {
		s = &Stopwatch{}
		r.watches[key] = s
	}
	now := r.now()
	s.Toggle(now)
	return timerView(s, now)
}

func (r *StopwatchRegistry) Reset(userID, workoutID string) TimerView {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.watches, newStopwatchKey(userID, workoutID))
	return timerView(&Stopwatch{}, r.now())
}

// Len reports how many stopwatches are kept.
func (r *StopwatchRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.watches)
}

// Forget drops the stopwatch of a deleted workout.
func (r *StopwatchRegistry) Forget(userID, workoutID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.watches, newStopwatchKey(userID, workoutID))
}
