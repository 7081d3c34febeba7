package tracker

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/platform"
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// Workout mutation names, as reported to the Recorder.
const (
	OpCreate = "create"
	OpToggle = "toggle"
	OpUpdate = "update"
	OpDelete = "delete"
)

// PageState is the page's local copy of the workout list plus the
// add-workout dialog. The controller owns it; the adapter writes it.
type PageState struct {
	Workouts      []domain.Workout
	AddDialogOpen bool
}

// Adapter turns page intents into store calls. It never edits the list
// locally: every successful write is followed by a full re-fetch.
// All operations are no-ops without a live session.
type Adapter struct {
	client     platform.Client
	state      *PageState
	notifier   Notifier
	session    func() *domain.Session
	now        func() time.Time
	recorder   Recorder
	afterFetch func(workouts []domain.Workout)
}

// NewAdapter creates an Adapter writing into state. session reports the
// caller's current session, nil when signed out.
func NewAdapter(client platform.Client, state *PageState, notifier Notifier, session func() *domain.Session) *Adapter {
	return &Adapter{
		client:   client,
		state:    state,
		notifier: notifier,
		session:  session,
		now:      time.Now,
		recorder: nopRecorder{},
	}
}

func (a *Adapter) activeSession() *domain.Session {
	session := a.session()
	if session.Expired(a.now()) {
		return nil
	}
	return session
}

// FetchAll replaces the local list with the store's, ordered by day.
// On failure the local list is left as it was.
func (a *Adapter) FetchAll(ctx context.Context) ([]domain.Workout, error) {
	if a.activeSession() == nil {
		return nil, nil
	}

	workouts, err := a.client.SelectWorkouts(ctx)
	if err != nil {
		log.Warnf("fetch workouts: %s", err)
		a.notifier.Notify(errorToast("Error fetching workouts", err))
		return nil, err
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}

	a.state.Workouts = workouts
	if a.afterFetch != nil {
		a.afterFetch(workouts)
	}
	return workouts, nil
}

// Create adds the next day to the schedule. The dialog is closed only
// when the insert succeeds.
func (a *Adapter) Create(ctx context.Context, input WorkoutInput) error {
	session := a.activeSession()
	if session == nil {
		return nil
	}

	workout := domain.Workout{
		UserID:        session.UserID,
		Day:           len(a.state.Workouts) + 1,
		Date:          input.Date,
		ScheduledTime: optional(input.ScheduledTime),
		Completed:     false,
		Notes:         optional(input.Notes),
	}

	err := a.mutate(ctx, OpCreate, "Error adding workout", func() error {
		return a.client.InsertWorkout(ctx, workout)
	})
	if err != nil {
		return err
	}

	a.state.AddDialogOpen = false
	a.notifier.Notify(successToast("Workout added!", fmt.Sprintf("Day %d has been added to your schedule.", workout.Day)))
	return nil
}

// Toggle marks one workout completed or not completed.
func (a *Adapter) Toggle(ctx context.Context, id string, completed bool) error {
	if a.activeSession() == nil {
		return nil
	}

	err := a.mutate(ctx, OpToggle, "Error updating workout", func() error {
		return a.client.UpdateWorkout(ctx, id, domain.WorkoutPatch{Completed: &completed})
	})
	if err != nil {
		return err
	}

	if completed {
		a.notifier.Notify(successToast("Workout completed!", "The workout has been marked as completed."))
	} else {
		a.notifier.Notify(successToast("Workout uncompleted", "The workout has been marked as incomplete."))
	}
	return nil
}

// Update saves the edit form. Empty optional fields are removed from the
// row rather than stored as empty strings.
func (a *Adapter) Update(ctx context.Context, id string, input WorkoutInput) error {
	if a.activeSession() == nil {
		return nil
	}

	date := input.Date
	patch := domain.WorkoutPatch{
		Date:          &date,
		Notes:         optional(input.Notes),
		ScheduledTime: optional(input.ScheduledTime),
	}
	patch.ClearNotes = patch.Notes == nil
	patch.ClearScheduledTime = patch.ScheduledTime == nil

	err := a.mutate(ctx, OpUpdate, "Error updating workout", func() error {
		return a.client.UpdateWorkout(ctx, id, patch)
	})
	if err != nil {
		return err
	}

	a.notifier.Notify(successToast("Workout updated", "Your changes have been saved."))
	return nil
}

// Delete removes a workout from the schedule.
func (a *Adapter) Delete(ctx context.Context, id string) error {
	if a.activeSession() == nil {
		return nil
	}

	err := a.mutate(ctx, OpDelete, "Error deleting workout", func() error {
		return a.client.DeleteWorkout(ctx, id)
	})
	if err != nil {
		return err
	}

	a.notifier.Notify(successToast("Workout deleted", "The workout has been removed from your schedule."))
	return nil
}

// mutate runs write and re-fetches after it succeeds. A failed re-fetch has
// already been reported by FetchAll and doesn't fail the write.
func (a *Adapter) mutate(ctx context.Context, op, failureTitle string, write func() error) error {
	err := write()
	a.recorder.ObserveMutation(op, err)
	if err != nil {
		log.Warnf("workout %s: %s", op, err)
		a.notifier.Notify(errorToast(failureTitle, err))
		return err
	}

	_, _ = a.FetchAll(ctx)
	return nil
}
