package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the calendar date format of Workout.Date.
const DateLayout = "2006-01-02"

// TimeLayout is the time-of-day format of Workout.ScheduledTime.
const TimeLayout = "15:04"

// Workout is one schedulable, trackable day owned by a user.
type Workout struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	Day           int                `bson:"day" json:"day"`   // Client-assigned sequence, list length + 1
	Date          string             `bson:"date" json:"date"` // YYYY-MM-DD
	ScheduledTime *string            `bson:"scheduledTime,omitempty" json:"scheduledTime,omitempty"`
	Completed     bool               `bson:"completed" json:"completed"`
	Notes         *string            `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ParseDate returns the workout date as midnight in loc.
func (w Workout) ParseDate(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, w.Date, loc)
}

// WorkoutPatch is a partial update. Nil fields are left untouched,
// the Clear* flags remove the optional field from the record.
type WorkoutPatch struct {
	Date               *string
	Completed          *bool
	Notes              *string
	ScheduledTime      *string
	ClearNotes         bool
	ClearScheduledTime bool
}

// IsEmpty reports whether applying the patch would change nothing.
func (p WorkoutPatch) IsEmpty() bool {
	return p.Date == nil && p.Completed == nil && p.Notes == nil && p.ScheduledTime == nil &&
		!p.ClearNotes && !p.ClearScheduledTime
}
