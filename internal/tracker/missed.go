package tracker

import (
	"alcyxob/fitness-tracker/internal/domain"
	"fmt"
	"time"
)

const missedToastDuration = 5 * time.Second

// CountMissed counts incomplete workouts dated before the calendar day of now,
// in now's location. Entries with unparsable dates are never missed.
func CountMissed(workouts []domain.Workout, now time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	missed := 0
	for _, w := range workouts {
		if w.Completed {
			continue
		}
		date, err := w.ParseDate(now.Location())
		if err != nil {
			continue
		}
		if date.Before(today) {
			missed++
		}
	}
	return missed
}

// CheckMissedWorkouts emits a single toast summarising the missed workouts,
// or nothing when there are none. It keeps no memory of earlier calls.
func CheckMissedWorkouts(n Notifier, workouts []domain.Workout, now time.Time) {
	missed := CountMissed(workouts, now)
	if missed == 0 {
		return
	}

	noun := "workouts"
	if missed == 1 {
		noun = "workout"
	}
	n.Notify(Toast{
		Title:       "Missed Workouts!",
		Description: fmt.Sprintf("You have %d incomplete %s from previous days. Stay consistent with your fitness goals!", missed, noun),
		Variant:     ToastDestructive,
		DurationMs:  int(missedToastDuration / time.Millisecond),
	})
}
