package tracker

import (
	"alcyxob/fitness-tracker/internal/domain"
	"fmt"
	"math"
)

// Progress is the share of scheduled workouts that are done.
type Progress struct {
	Completed int
	Total     int
	Percent   float64
}

// ComputeProgress counts completed workouts. Percent is 0 for an empty list.
func ComputeProgress(workouts []domain.Workout) Progress {
	p := Progress{Total: len(workouts)}
	for _, w := range workouts {
		if w.Completed {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percent = float64(p.Completed) / float64(p.Total) * 100
	}
	return p
}

// Rounded is the percentage shown to the user.
func (p Progress) Rounded() int {
	return int(math.Round(p.Percent))
}

// Label renders "C of T days completed (R%)".
func (p Progress) Label() string {
	return fmt.Sprintf("%d of %d days completed (%d%%)", p.Completed, p.Total, p.Rounded())
}
