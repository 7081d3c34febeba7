package repository

import (
	"alcyxob/fitness-tracker/internal/domain"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

//go:generate mockgen -source=repository.go -destination=mocks/repository_mock.go -package=mocks

// Error constants for repository layer
var (
	ErrNotFound      = RepositoryError("not found")
	ErrAlreadyExists = RepositoryError("already exists")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// WorkoutRepository defines the interface for interacting with workout rows.
// Every method is scoped to the owning user.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	// GetByUserID returns the user's workouts ordered by day ascending.
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Workout, error)
	Update(ctx context.Context, id, userID primitive.ObjectID, patch domain.WorkoutPatch) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// SessionRepository keeps the set of live sessions. A session missing here
// is signed out, whatever its token says.
type SessionRepository interface {
	Save(ctx context.Context, sessionID string, userID primitive.ObjectID, ttl time.Duration) error
	GetUserID(ctx context.Context, sessionID string) (primitive.ObjectID, error)
	Touch(ctx context.Context, sessionID string, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}
