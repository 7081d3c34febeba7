package tracker

import (
	"alcyxob/fitness-tracker/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCharts(t *testing.T) {
	workouts := []domain.Workout{
		{Day: 1, Date: "2024-05-30", Completed: true},
		{Day: 2, Date: "2024-06-08", Completed: true}, // exactly 7 days before, but at midnight
		{Day: 3, Date: "2024-06-09"},
		{Day: 4, Date: "2024-06-14", Completed: true},
		{Day: 5, Date: "2024-05-31"},
		{Day: 6, Date: "2024-06-20"},
		{Day: 7, Date: "not a date"},
	}

	charts := BuildCharts(workouts, testNow)

	assert.Equal(t, []MonthlyPoint{
		{Month: "May 2024", Completed: 1, Total: 2, CompletionRate: 50},
		{Month: "Jun 2024", Completed: 2, Total: 4, CompletionRate: 50},
	}, charts.Monthly)

	assert.Equal(t, []DailyPoint{
		{Date: "Jun 09", Completed: 0},
		{Date: "Jun 14", Completed: 1},
		{Date: "Jun 20", Completed: 0},
	}, charts.LastSevenDays)

	assert.Equal(t, OverallSplit{Completed: 3, Remaining: 4}, charts.Overall)
}

func TestBuildCharts_RoundsCompletionRate(t *testing.T) {
	charts := BuildCharts([]domain.Workout{
		{Date: "2024-01-01", Completed: true},
		{Date: "2024-01-02", Completed: true},
		{Date: "2024-01-03"},
	}, testNow)

	assert.Equal(t, 67, charts.Monthly[0].CompletionRate)
	assert.Empty(t, charts.LastSevenDays)
}

func TestBuildCharts_Empty(t *testing.T) {
	charts := BuildCharts(nil, testNow)
	assert.NotNil(t, charts.Monthly)
	assert.NotNil(t, charts.LastSevenDays)
	assert.Empty(t, charts.Monthly)
	assert.Zero(t, charts.Overall)
}
