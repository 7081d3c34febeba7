// Package platform is the client side of the hosted data and auth backend:
// session retrieval, auth state subscription, and row access to the
// workouts table scoped to the signed-in user.
package platform

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/service"
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

//go:generate mockgen -source=client.go -destination=mocks/client_mock.go -package=mocks

var (
	ErrNoSession        = errors.New("no active session")
	ErrPermissionDenied = errors.New("new row violates row-level security policy for table \"workouts\"")
)

// Client is the CRUD and auth contract the tracker talks to.
type Client interface {
	// GetSession returns nil when no session is active.
	GetSession(ctx context.Context) (*domain.Session, error)
	OnAuthStateChange(fn func(event domain.AuthEvent, session *domain.Session)) (unsubscribe func())
	SignOut(ctx context.Context) error

	// SelectWorkouts returns the session user's rows ordered by day ascending.
	SelectWorkouts(ctx context.Context) ([]domain.Workout, error)
	InsertWorkout(ctx context.Context, workout domain.Workout) error
	UpdateWorkout(ctx context.Context, id string, patch domain.WorkoutPatch) error
	DeleteWorkout(ctx context.Context, id string) error
}

// client serves one access token. The resolved session is cached and kept
// current by the auth events of that session.
type client struct {
	auth     service.AuthService
	workouts repository.WorkoutRepository

	mu       sync.Mutex
	token    string
	session  *domain.Session
	resolved bool
}

func NewClient(token string, auth service.AuthService, workouts repository.WorkoutRepository) Client {
	return &client{
		auth:     auth,
		workouts: workouts,
		token:    token,
	}
}

func (c *client) GetSession(ctx context.Context) (*domain.Session, error) {
	c.mu.Lock()
	if c.resolved {
		session := c.session
		c.mu.Unlock()
		return session, nil
	}
	token := c.token
	c.mu.Unlock()

	session, err := c.auth.ResolveSession(ctx, token)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = session
	c.resolved = true
	return session, nil
}

func (c *client) OnAuthStateChange(fn func(domain.AuthEvent, *domain.Session)) func() {
	c.mu.Lock()
	sessionID := c.auth.SessionID(c.token)
	c.mu.Unlock()
	if sessionID == "" {
		return func() {}
	}

	return c.auth.Subscribe(sessionID, func(event domain.AuthEvent, session *domain.Session) {
		c.mu.Lock()
		switch event {
		case domain.AuthEventSignedOut:
			c.session = nil
			c.resolved = true
		case domain.AuthEventSignedIn, domain.AuthEventTokenRefreshed:
			if session != nil {
				c.session = session
				c.token = session.AccessToken
				c.resolved = true
			}
		}
		c.mu.Unlock()

		fn(event, session)
	})
}

func (c *client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	if err := c.auth.SignOut(ctx, token); err != nil {
		return err
	}

	c.mu.Lock()
	c.session = nil
	c.resolved = true
	c.mu.Unlock()
	return nil
}

func (c *client) SelectWorkouts(ctx context.Context) ([]domain.Workout, error) {
	session, err := c.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	return c.workouts.GetByUserID(ctx, session.UserID)
}

// InsertWorkout only accepts rows owned by the session user.
func (c *client) InsertWorkout(ctx context.Context, workout domain.Workout) error {
	session, err := c.requireSession(ctx)
	if err != nil {
		return err
	}
	if workout.UserID != session.UserID {
		return ErrPermissionDenied
	}

	_, err = c.workouts.Create(ctx, &workout)
	return err
}

func (c *client) UpdateWorkout(ctx context.Context, id string, patch domain.WorkoutPatch) error {
	session, err := c.requireSession(ctx)
	if err != nil {
		return err
	}
	objID, err := parseRowID(id)
	if err != nil {
		return err
	}
	return c.workouts.Update(ctx, objID, session.UserID, patch)
}

func (c *client) DeleteWorkout(ctx context.Context, id string) error {
	session, err := c.requireSession(ctx)
	if err != nil {
		return err
	}
	objID, err := parseRowID(id)
	if err != nil {
		return err
	}
	return c.workouts.Delete(ctx, objID, session.UserID)
}

func (c *client) requireSession(ctx context.Context) (*domain.Session, error) {
	session, err := c.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoSession
	}
	return session, nil
}

// An id that can't name a row matches nothing.
func parseRowID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("workout %q: %w", id, repository.ErrNotFound)
	}
	return objID, nil
}
