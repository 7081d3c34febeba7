package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthEvent is the kind of a session change.
type AuthEvent string

const (
	AuthEventSignedIn       AuthEvent = "SIGNED_IN"
	AuthEventSignedOut      AuthEvent = "SIGNED_OUT"
	AuthEventTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
)

// Session is the active authenticated-user context.
// A nil *Session means unauthenticated.
type Session struct {
	ID          string             `json:"id"`
	UserID      primitive.ObjectID `json:"userId"`
	Email       string             `json:"email"`
	AccessToken string             `json:"accessToken"`
	ExpiresAt   time.Time          `json:"expiresAt"`
}

// Expired reports whether the access token is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return s == nil || !now.Before(s.ExpiresAt)
}
