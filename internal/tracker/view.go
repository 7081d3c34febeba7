package tracker

import (
	"alcyxob/fitness-tracker/internal/domain"
	"time"
)

const pageTitle = "Fitness Tracker"

// Page views.
const (
	ViewLoading   = "loading"
	ViewSignIn    = "sign_in"
	ViewError     = "error"
	ViewDashboard = "dashboard"
)

// PageView is everything the page shows for one render.
type PageView struct {
	View          string         `json:"view"`
	Session       *SessionView   `json:"session,omitempty"`
	Error         string         `json:"error,omitempty"`
	Dashboard     *DashboardView `json:"dashboard,omitempty"`
	Notifications []Toast        `json:"notifications"`
}

type SessionView struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type HeaderView struct {
	Title         string `json:"title"`
	AddDialogOpen bool   `json:"addDialogOpen"`
}

type StatsView struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Progress  float64 `json:"progress"`
	Rounded   int     `json:"rounded"`
	Label     string  `json:"label"`
}

type WorkoutCardView struct {
	ID            string     `json:"id"`
	Day           int        `json:"day"`
	Date          string     `json:"date"`
	ScheduledTime string     `json:"scheduledTime,omitempty"`
	Completed     bool       `json:"completed"`
	Notes         string     `json:"notes,omitempty"`
	Timer         *TimerView `json:"timer,omitempty"`
}

// DashboardView is only present while signed in.
type DashboardView struct {
	Header   HeaderView        `json:"header"`
	Stats    StatsView         `json:"stats"`
	Quote    string            `json:"quote"`
	Workouts []WorkoutCardView `json:"workouts"`
	Charts   ChartsView        `json:"charts"`
}

// View renders the page and hands over the toasts queued since the last render.
func (c *Controller) View() PageView {
	state, session, err := c.session.snapshot()
	page := PageView{Notifications: c.toasts.Drain()}

	switch state {
	case SessionAuthenticated:
		page.View = ViewDashboard
		page.Session = &SessionView{
			UserID:    session.UserID.Hex(),
			Email:     session.Email,
			ExpiresAt: session.ExpiresAt,
		}
		c.mu.Lock()
		page.Dashboard = c.renderDashboard(session)
		c.mu.Unlock()
	case SessionUnauthenticated:
		page.View = ViewSignIn
	case SessionError:
		page.View = ViewError
		if err != nil {
			page.Error = err.Error()
		}
	default:
		page.View = ViewLoading
	}
	return page
}

func (c *Controller) renderDashboard(session *domain.Session) *DashboardView {
	progress := ComputeProgress(c.state.Workouts)

	cards := make([]WorkoutCardView, 0, len(c.state.Workouts))
	for _, w := range c.state.Workouts {
		card := WorkoutCardView{
			ID:        w.ID.Hex(),
			Day:       w.Day,
			Date:      w.Date,
			Completed: w.Completed,
		}
		if w.ScheduledTime != nil {
			card.ScheduledTime = *w.ScheduledTime
		}
		if w.Notes != nil {
			card.Notes = *w.Notes
		}
		if c.stopwatches != nil {
			timer := c.stopwatches.Get(session.UserID.Hex(), card.ID)
			card.Timer = &timer
		}
		cards = append(cards, card)
	}

	return &DashboardView{
		Header: HeaderView{Title: pageTitle, AddDialogOpen: c.state.AddDialogOpen},
		Stats: StatsView{
			Completed: progress.Completed,
			Total:     progress.Total,
			Progress:  progress.Percent,
			Rounded:   progress.Rounded(),
			Label:     progress.Label(),
		},
		Quote:    c.pickQuote(),
		Workouts: cards,
		Charts:   BuildCharts(c.state.Workouts, c.now()),
	}
}
