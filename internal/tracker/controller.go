// Package tracker holds the workout page: its controller, the adapter that
// keeps the local workout list in step with the store, the session state
// machine, and the view models the page renders.
package tracker

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/platform"
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Recorder observes workout writes and missed-workout checks.
type Recorder interface {
	ObserveMutation(op string, err error)
	ObserveMissed(count int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveMutation(string, error) {}
func (nopRecorder) ObserveMissed(int)             {}

type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithQuotePicker(pick func() string) Option {
	return func(c *Controller) { c.pickQuote = pick }
}

func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithStopwatches attaches the stopwatch of each workout card to the page.
func WithStopwatches(r *StopwatchRegistry) Option {
	return func(c *Controller) { c.stopwatches = r }
}

// Controller owns the page: the session, the workout list and the add dialog.
// Writes to the list go through the adapter only.
type Controller struct {
	client      platform.Client
	toasts      ToastQueue
	now         func() time.Time
	pickQuote   func() string
	recorder    Recorder
	stopwatches *StopwatchRegistry

	session *SessionMachine

	mu      sync.Mutex // guards state, serializes adapter calls
	state   PageState
	adapter *Adapter
}

// NewController creates an unmounted Controller on top of client.
func NewController(client platform.Client, opts ...Option) *Controller {
	c := &Controller{
		client:    client,
		now:       time.Now,
		pickQuote: RandomQuote,
		recorder:  nopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.session = NewSessionMachine(client, c.onAuthenticated)
	c.adapter = NewAdapter(client, &c.state, &c.toasts, c.session.Session)
	c.adapter.now = c.now
	c.adapter.recorder = c.recorder
	c.adapter.afterFetch = c.checkMissed
	return c
}

// Mount subscribes to auth changes and resolves the session. The first
// fetch happens once the session is known to be authenticated.
func (c *Controller) Mount(ctx context.Context) {
	c.session.Mount(ctx)
}

func (c *Controller) Unmount() {
	c.session.Unmount()
}

func (c *Controller) SessionState() SessionState {
	return c.session.State()
}

func (c *Controller) onAuthenticated(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = c.adapter.FetchAll(ctx)
}

func (c *Controller) checkMissed(workouts []domain.Workout) {
	now := c.now()
	c.recorder.ObserveMissed(CountMissed(workouts, now))
	CheckMissedWorkouts(&c.toasts, workouts, now)
}

// Workouts returns a copy of the local workout list.
func (c *Controller) Workouts() []domain.Workout {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Workout(nil), c.state.Workouts...)
}

func (c *Controller) SetAddDialogOpen(open bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.AddDialogOpen = open
}

// SubmitWorkout validates the add form before anything reaches the store.
// Validation failures are returned as *ValidationError.
func (c *Controller) SubmitWorkout(ctx context.Context, input WorkoutInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.adapter.Create(ctx, input)
}

// ToggleComplete sets the completed flag of one workout.
func (c *Controller) ToggleComplete(ctx context.Context, id string, completed bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.adapter.Toggle(ctx, id, completed)
}

// UpdateWorkout validates the edit form, then saves it.
func (c *Controller) UpdateWorkout(ctx context.Context, id string, input WorkoutInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.adapter.Update(ctx, id, input)
}

// DeleteWorkout removes a workout and drops its stopwatch.
func (c *Controller) DeleteWorkout(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.adapter.Delete(ctx, id); err != nil {
		return err
	}
	if session := c.session.Session(); session != nil && c.stopwatches != nil {
		c.stopwatches.Forget(session.UserID.Hex(), id)
	}
	return nil
}

// SignOut ends the session. The local workout list is kept; the page
// switches to the sign-in view through the SIGNED_OUT event.
func (c *Controller) SignOut(ctx context.Context) error {
	if err := c.client.SignOut(ctx); err != nil {
		log.Errorf("sign out: %s", err)
		return err
	}
	return nil
}
