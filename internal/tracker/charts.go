package tracker

import (
	"alcyxob/fitness-tracker/internal/domain"
	"math"
	"time"
)

type MonthlyPoint struct {
	Month          string `json:"month"`
	Completed      int    `json:"completed"`
	Total          int    `json:"total"`
	CompletionRate int    `json:"completionRate"`
}

type DailyPoint struct {
	Date      string `json:"date"`
	Completed int    `json:"completed"`
}

type OverallSplit struct {
	Completed int `json:"completed"`
	Remaining int `json:"remaining"`
}

type ChartsView struct {
	Monthly       []MonthlyPoint `json:"monthly"`
	LastSevenDays []DailyPoint   `json:"lastSevenDays"`
	Overall       OverallSplit   `json:"overall"`
}

// BuildCharts aggregates the workout list for the progress charts. Months
// appear in the order they are first seen in the list. Workouts whose date
// can't be parsed are left out of the monthly and daily series.
func BuildCharts(workouts []domain.Workout, now time.Time) ChartsView {
	charts := ChartsView{
		Monthly:       []MonthlyPoint{},
		LastSevenDays: []DailyPoint{},
	}
	weekAgo := now.AddDate(0, 0, -7)
	monthIndex := make(map[string]int)

	for _, w := range workouts {
		if w.Completed {
			charts.Overall.Completed++
		} else {
			charts.Overall.Remaining++
		}

		date, err := w.ParseDate(now.Location())
		if err != nil {
			continue
		}

		month := date.Format("Jan 2006")
		i, ok := monthIndex[month]
		if !ok {
			i = len(charts.Monthly)
			monthIndex[month] = i
			charts.Monthly = append(charts.Monthly, MonthlyPoint{Month: month})
		}
		charts.Monthly[i].Total++
		if w.Completed {
			charts.Monthly[i].Completed++
		}

		if !date.Before(weekAgo) {
			point := DailyPoint{Date: date.Format("Jan 02")}
			if w.Completed {
				point.Completed = 1
			}
			charts.LastSevenDays = append(charts.LastSevenDays, point)
		}
	}

	for i := range charts.Monthly {
		m := &charts.Monthly[i]
		m.CompletionRate = int(math.Round(float64(m.Completed) / float64(m.Total) * 100))
	}
	return charts
}
