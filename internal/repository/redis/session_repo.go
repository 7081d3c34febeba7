package redis

import (
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const sessionKeyPrefix = "fitness-tracker-session||"

// redisSessionRepository implements repository.SessionRepository.
// Each live session is one key holding the owner's user ID, expiring with the session.
type redisSessionRepository struct {
	client *redis.Client
}

func NewRedisSessionRepository(client *redis.Client) repository.SessionRepository {
	return &redisSessionRepository{client: client}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (r *redisSessionRepository) Save(ctx context.Context, sessionID string, userID primitive.ObjectID, ttl time.Duration) error {
	if sessionID == "" {
		return errors.New("session ID is required")
	}
	if err := r.client.Set(ctx, sessionKey(sessionID), userID.Hex(), ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *redisSessionRepository) GetUserID(ctx context.Context, sessionID string) (primitive.ObjectID, error) {
	val, err := r.client.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return primitive.NilObjectID, repository.ErrNotFound
		}
		return primitive.NilObjectID, fmt.Errorf("get session: %w", err)
	}

	userID, err := primitive.ObjectIDFromHex(val)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("corrupt session %s: %w", sessionID, err)
	}
	return userID, nil
}

// Touch extends the session lifetime, used on token refresh.
func (r *redisSessionRepository) Touch(ctx context.Context, sessionID string, ttl time.Duration) error {
	ok, err := r.client.Expire(ctx, sessionKey(sessionID), ttl).Result()
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	if !ok {
		return repository.ErrNotFound
	}
	return nil
}

func (r *redisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
