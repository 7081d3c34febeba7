package api

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/tracker"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format(domain.DateLayout)
}

func TestGetPage_WithoutSessionRendersSignIn(t *testing.T) {
	e := newTestEnv(t)
	// no workout expectations: a fetch fails the test

	page := decodePage(t, e.do(t, http.MethodGet, "/api/v1/page", "", nil))
	assert.Equal(t, tracker.ViewSignIn, page.View)
	assert.Nil(t, page.Dashboard)
}

func TestGetPage_RevokedSessionRendersSignIn(t *testing.T) {
	e := newTestEnv(t)
	session := e.openSession(t)
	e.sessions.EXPECT().GetUserID(gomock.Any(), session.ID).Return(primitive.NilObjectID, repository.ErrNotFound)

	page := decodePage(t, e.do(t, http.MethodGet, "/api/v1/page", session.AccessToken, nil))
	assert.Equal(t, tracker.ViewSignIn, page.View)
}

func TestGetPage_MalformedHeader(t *testing.T) {
	e := newTestEnv(t)

	rec := e.request(t, http.MethodGet, "/api/v1/page", "Token abc", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authorization header format must be Bearer {token}", decodeError(t, rec).Error)
}

func TestGetPage_SessionStoreDownRendersError(t *testing.T) {
	e := newTestEnv(t)
	session := e.openSession(t)
	e.sessions.EXPECT().GetUserID(gomock.Any(), session.ID).Return(primitive.NilObjectID, errors.New("connection refused"))

	page := decodePage(t, e.do(t, http.MethodGet, "/api/v1/page", session.AccessToken, nil))
	assert.Equal(t, tracker.ViewError, page.View)
	assert.Contains(t, page.Error, "connection refused")
}

func TestGetPage_Dashboard(t *testing.T) {
	e := newTestEnv(t)
	token := e.signIn(t)

	rows := workoutRows(e.userID, "2020-01-01", futureDate(1))
	rows[1].Completed = true
	e.workouts.EXPECT().GetByUserID(gomock.Any(), e.userID).Return(rows, nil)

	page := decodePage(t, e.do(t, http.MethodGet, "/api/v1/page", token, nil))
	require.Equal(t, tracker.ViewDashboard, page.View)
	require.NotNil(t, page.Session)
	assert.Equal(t, e.userID.Hex(), page.Session.UserID)

	d := page.Dashboard
	assert.Equal(t, "Fitness Tracker", d.Header.Title)
	assert.Equal(t, "1 of 2 days completed (50%)", d.Stats.Label)
	require.Len(t, d.Workouts, 2)
	assert.Equal(t, rows[0].ID.Hex(), d.Workouts[0].ID)
	require.NotNil(t, d.Workouts[0].Timer)
	assert.Equal(t, "00:00:00", d.Workouts[0].Timer.Display)
	assert.NotEmpty(t, d.Quote)

	require.Len(t, page.Notifications, 1)
	assert.Equal(t, "Missed Workouts!", page.Notifications[0].Title)
	assert.Equal(t, tracker.ToastDestructive, page.Notifications[0].Variant)
}

func TestCreateWorkout_Validation(t *testing.T) {
	e := newTestEnv(t)
	token := e.signIn(t)

	tests := []struct {
		name   string
		body   any
		fields map[string]string
	}{
		{name: "missing date", body: map[string]string{"notes": "legs"}, fields: map[string]string{"date": tracker.MsgDateRequired}},
		{name: "bad date", body: map[string]string{"date": "06/15/2024"}, fields: map[string]string{"date": tracker.MsgDateFormat}},
		{
			name:   "bad time",
			body:   map[string]string{"date": "2024-06-15", "scheduledTime": "7pm"},
			fields: map[string]string{"scheduledTime": tracker.MsgTimeFormat},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, http.MethodPost, "/api/v1/workouts", token, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, "Validation error", body.Error)
			assert.Equal(t, tt.fields, body.Fields)
		})
	}
}

// The form binding and the page controller must reject the same input with
// the same messages.
func TestCreateWorkout_ValidationMatchesController(t *testing.T) {
	e := newTestEnv(t)
	token := e.signIn(t)

	for _, input := range []tracker.WorkoutInput{
		{Date: "   "},
		{Date: ""},
		{Date: "2024-13-01"},
		{Date: "2024-06-15 "},
		{Date: "2024-06-15", ScheduledTime: "24:00"},
		{Date: "tomorrow", ScheduledTime: " 07:30"},
	} {
		var verr *tracker.ValidationError
		require.ErrorAs(t, input.Validate(), &verr, "%+v", input)

		rec := e.do(t, http.MethodPost, "/api/v1/workouts", token, input)
		require.Equal(t, http.StatusBadRequest, rec.Code, "%+v", input)
		assert.Equal(t, verr.Fields, decodeError(t, rec).Fields, "%+v", input)
	}
}

func TestCreateWorkout_AssignsNextDay(t *testing.T) {
	e := newTestEnv(t)
	token := e.signIn(t)
	date := futureDate(2)

	existing := workoutRows(e.userID, futureDate(0), futureDate(1), futureDate(1))
	gomock.InOrder(
		e.workouts.EXPECT().GetByUserID(gomock.Any(), e.userID).Return(existing, nil),
		e.workouts.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, w *domain.Workout) (primitive.ObjectID, error) {
			assert.Equal(t, 4, w.Day)
			assert.Equal(t, date, w.Date)
			assert.Equal(t, e.userID, w.UserID)
			assert.False(t, w.Completed)
			assert.Nil(t, w.Notes)
			require.NotNil(t, w.ScheduledTime)
			assert.Equal(t, "06:30", *w.ScheduledTime)
			return primitive.NewObjectID(), nil
		}),
		e.workouts.EXPECT().GetByUserID(gomock.Any(), e.userID).
			Return(append(existing, domain.Workout{ID: primitive.NewObjectID(), Day: 4, Date: date}), nil),
	)

	page := decodePage(t, e.do(t, http.MethodPost, "/api/v1/workouts", token,
		map[string]string{"date": date, "scheduledTime": "06:30", "notes": ""}))

	assert.False(t, page.Dashboard.Header.AddDialogOpen)
	assert.Len(t, page.Dashboard.Workouts, 4)
	require.Len(t, page.Notifications, 1)
	assert.Equal(t, "Workout added!", page.Notifications[0].Title)
	assert.Equal(t, "Day 4 has been added to your schedule.", page.Notifications[0].Description)
}

func TestCreateWorkout_StoreFailureKeepsDialogOpen(t *testing.T) {
	e := newTestEnv(t)
	token := e.signIn(t)

	e.workouts.EXPECT().GetByUserID(gomock.Any(), e.userID).Return([]domain.Workout{}, nil)
	e.workouts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(primitive.NilObjectID, errors.New("write concern error"))

	page := decodePage(t, e.do(t, http.MethodPost, "/api/v1/workouts", token, map[string]string{"date": futureDate(0)}))
	assert.True(t, page.Dashboard.Header.AddDialogOpen)
	require.Len(t, page.Notifications, 1)
	assert.Equal(t, tracker.Toast{Title: "Error adding workout", Description: "write concern error", Variant: tracker.ToastDestructive}, page.Notifications[0])
}

func TestCreateWorkout_WithoutSession(t *testing.T) {
	e := newTestEnv(t)

	page := decodePage(t, e.do(t, http.MethodPost, "/api/v1/workouts", "", map[string]string{"date": "2024-06-15"}))
	assert.Equal(t, tracker.ViewSignIn, page.View)
	assert.Empty(t, page.Notifications)
}

func TestToggleComplete(t *testing.T) {
	e := newTestEnv(t)
	token := e.signIn(t)
	rows := workoutRows(e.userID, futureDate(0), futureDate(1))
	completed := append([]domain.Workout(nil), rows...)
	completed[1].Completed = true

	rec := e.do(t, http.MethodPatch, "/api/v1/workouts/"+rows[1].ID.Hex()+"/complete", token, map[string]string{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]string{"completed": "Completed is required"}, decodeError(t, rec).Fields)

	done := true
	gomock.InOrder(
		e.workouts.EXPECT().GetByUserID(gomock.Any(), e.userID).Return(rows, nil),
		e.workouts.EXPECT().Update(gomock.Any(), rows[1].ID, e.userID, domain.WorkoutPatch{Completed: &done}).Return(nil),
		e.workouts.EXPECT().GetByUserID(gomock.Any(), e.userID).Return(completed, nil),
	)

	page := decodePage(t, e.do(t, http.MethodPatch, "/api/v1/workouts/"+rows[1].ID.Hex()+"/complete", token, map[string]bool{"completed": true}))
	assert.Equal(t, "Workout completed!", page.Notifications[0].Title)
	assert.Equal(t, 1, page.Dashboard.Stats.Completed)
}

func TestUpdateWorkout_ClearsEmptyOptionals(t *testing.T) {
	e := newTestEnv(t)
	token := e.signIn(t)
	rows := workoutRows(e.userID, futureDate(0))
	date := futureDate(3)

	e.workouts.EXPECT().GetByUserID(gomock.Any(), e.userID).Return(rows, nil).Times(2)
	e.workouts.EXPECT().Update(gomock.Any(), rows[0].ID, e.userID, domain.WorkoutPatch{
		Date:               &date,
		ClearNotes:         true,
		ClearScheduledTime: true,
	}).Return(nil)

	page := decodePage(t, e.do(t, http.MethodPut, "/api/v1/workouts/"+rows[0].ID.Hex(), token,
		map[string]string{"date": date, "notes": "", "scheduledTime": ""}))
	assert.Equal(t, "Workout updated", page.Notifications[0].Title)
}

func TestUpdateWorkout_UnknownID(t *testing.T) {
	e := newTestEnv(t)
	token := e.signIn(t)

	e.workouts.EXPECT().GetByUserID(gomock.Any(), e.userID).Return([]domain.Workout{}, nil)

	page := decodePage(t, e.do(t, http.MethodPut, "/api/v1/workouts/not-an-id", token, map[string]string{"date": "2024-06-15"}))
	require.Len(t, page.Notifications, 1)
	assert.Equal(t, "Error updating workout", page.Notifications[0].Title)
}

func TestDeleteWorkout(t *testing.T) {
	e := newTestEnv(t)
	token := e.signIn(t)
	rows := workoutRows(e.userID, futureDate(0))

	gomock.InOrder(
		e.workouts.EXPECT().GetByUserID(gomock.Any(), e.userID).Return(rows, nil),
		e.workouts.EXPECT().Delete(gomock.Any(), rows[0].ID, e.userID).Return(nil),
		e.workouts.EXPECT().GetByUserID(gomock.Any(), e.userID).Return([]domain.Workout{}, nil),
	)

	page := decodePage(t, e.do(t, http.MethodDelete, "/api/v1/workouts/"+rows[0].ID.Hex(), token, nil))
	assert.Empty(t, page.Dashboard.Workouts)
	assert.Equal(t, "Workout deleted", page.Notifications[0].Title)
}

func TestDeleteWorkout_DropsStopwatch(t *testing.T) {
	e := newTestEnv(t)
	token := e.signIn(t)
	rows := workoutRows(e.userID, futureDate(0))
	e.stopwatches.Toggle(e.userID.Hex(), rows[0].ID.Hex())

	gomock.InOrder(
		e.workouts.EXPECT().GetByUserID(gomock.Any(), e.userID).Return(rows, nil),
		e.workouts.EXPECT().Delete(gomock.Any(), rows[0].ID, e.userID).Return(nil),
		e.workouts.EXPECT().GetByUserID(gomock.Any(), e.userID).Return([]domain.Workout{}, nil),
	)

	decodePage(t, e.do(t, http.MethodDelete, "/api/v1/workouts/"+strings.ToUpper(rows[0].ID.Hex()), token, nil))
	assert.Zero(t, e.stopwatches.Len())
}

func TestSignOut(t *testing.T) {
	e := newTestEnv(t)
	token := e.signIn(t)
	sid := e.auth.SessionID(token)

	e.workouts.EXPECT().GetByUserID(gomock.Any(), e.userID).Return([]domain.Workout{}, nil)
	e.sessions.EXPECT().Delete(gomock.Any(), sid).Return(nil)

	page := decodePage(t, e.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil))
	assert.Equal(t, tracker.ViewSignIn, page.View)
}
