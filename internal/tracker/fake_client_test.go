package tracker

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func testSession() *domain.Session {
	return &domain.Session{
		ID:          "sid",
		UserID:      primitive.NewObjectID(),
		Email:       "runner@example.com",
		AccessToken: "token",
		ExpiresAt:   testNow.Add(time.Hour),
	}
}

// fakeClient is an in-memory store behind the platform contract.
type fakeClient struct {
	mu         sync.Mutex
	session    *domain.Session
	sessionErr error
	rows       []domain.Workout

	selectErr, insertErr, updateErr, deleteErr error

	selects   int
	inserted  []domain.Workout
	patches   []domain.WorkoutPatch
	listeners map[int]func(domain.AuthEvent, *domain.Session)
	nextID    int
}

func newFakeClient(session *domain.Session, rows ...domain.Workout) *fakeClient {
	c := &fakeClient{session: session, listeners: make(map[int]func(domain.AuthEvent, *domain.Session))}
	for _, r := range rows {
		if r.ID.IsZero() {
			r.ID = primitive.NewObjectID()
		}
		if session != nil {
			r.UserID = session.UserID
		}
		c.rows = append(c.rows, r)
	}
	return c
}

func (c *fakeClient) GetSession(context.Context) (*domain.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sessionErr != nil {
		return nil, c.sessionErr
	}
	return c.session, nil
}

func (c *fakeClient) OnAuthStateChange(fn func(domain.AuthEvent, *domain.Session)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *fakeClient) subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.listeners)
}

func (c *fakeClient) emit(event domain.AuthEvent, session *domain.Session) {
	c.mu.Lock()
	fns := make([]func(domain.AuthEvent, *domain.Session), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn(event, session)
	}
}

func (c *fakeClient) SignOut(context.Context) error {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
	c.emit(domain.AuthEventSignedOut, nil)
	return nil
}

func (c *fakeClient) SelectWorkouts(context.Context) ([]domain.Workout, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selects++
	if c.selectErr != nil {
		return nil, c.selectErr
	}
	rows := append([]domain.Workout(nil), c.rows...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Day < rows[j].Day })
	return rows, nil
}

func (c *fakeClient) fetches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selects
}

func (c *fakeClient) InsertWorkout(_ context.Context, w domain.Workout) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.insertErr != nil {
		return c.insertErr
	}
	w.ID = primitive.NewObjectID()
	c.inserted = append(c.inserted, w)
	c.rows = append(c.rows, w)
	return nil
}

func (c *fakeClient) UpdateWorkout(_ context.Context, id string, patch domain.WorkoutPatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.updateErr != nil {
		return c.updateErr
	}
	c.patches = append(c.patches, patch)
	for i := range c.rows {
		if !strings.EqualFold(c.rows[i].ID.Hex(), id) {
			continue
		}
		r := &c.rows[i]
		if patch.Date != nil {
			r.Date = *patch.Date
		}
		if patch.Completed != nil {
			r.Completed = *patch.Completed
		}
		if patch.Notes != nil {
			r.Notes = patch.Notes
		}
		if patch.ScheduledTime != nil {
			r.ScheduledTime = patch.ScheduledTime
		}
		if patch.ClearNotes {
			r.Notes = nil
		}
		if patch.ClearScheduledTime {
			r.ScheduledTime = nil
		}
		return nil
	}
	return repository.ErrNotFound
}

func (c *fakeClient) DeleteWorkout(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deleteErr != nil {
		return c.deleteErr
	}
	for i := range c.rows {
		if strings.EqualFold(c.rows[i].ID.Hex(), id) {
			c.rows = append(c.rows[:i], c.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type recordedMutation struct {
	op  string
	err error
}

type fakeRecorder struct {
	mutations []recordedMutation
	missed    []int
}

func (r *fakeRecorder) ObserveMutation(op string, err error) {
	r.mutations = append(r.mutations, recordedMutation{op, err})
}

func (r *fakeRecorder) ObserveMissed(count int) {
	r.missed = append(r.missed, count)
}
