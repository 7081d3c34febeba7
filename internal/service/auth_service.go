package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "fitness-tracker"

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrSessionNotFound      = errors.New("session not found or expired")
	ErrInvalidCredentials   = errors.New("email and password cannot be empty")
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	// ResolveSession returns nil, nil when the token carries no live session.
	// Errors are reserved for failures of the session store itself.
	ResolveSession(ctx context.Context, token string) (*domain.Session, error)
	RefreshSession(ctx context.Context, token string) (*domain.Session, error)
	SignOut(ctx context.Context, token string) error
	// SessionID extracts the session ID from a correctly signed token, expired or not.
	SessionID(token string) string
	Subscribe(sessionID string, fn AuthListener) (unsubscribe func())
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	sessionRepo   repository.SessionRepository
	events        *authEvents
	jwtSecret     string
	jwtExpiration time.Duration
	now           func() time.Time
	newSessionID  func() string
}

// NewAuthService creates a new instance of authService.
func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	jwtSecret string,
	jwtExpiration time.Duration,
) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &authService{
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		events:        newAuthEvents(),
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		now:           time.Now,
		newSessionID:  uuid.NewString,
	}
}

// Register handles new user registration.
func (s *authService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// unique index caught a concurrent registration
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	user.ID = userID
	user.PasswordHash = ""
	return user, nil
}

// SignIn authenticates the user and opens a new session.
func (s *authService) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrAuthenticationFailed
	}

	sessionID := s.newSessionID()
	if err := s.sessionRepo.Save(ctx, sessionID, user.ID, s.jwtExpiration); err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	session, err := s.issue(sessionID, user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	log.Debugf("user %s signed in, session %s", user.ID.Hex(), sessionID)
	s.events.publish(sessionID, domain.AuthEventSignedIn, session)
	return session, nil
}

func (s *authService) ResolveSession(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, nil
	}

	claims, err := s.parse(token, true)
	if err != nil {
		log.Debugf("rejecting access token: %s", err)
		return nil, nil
	}

	userID, err := s.sessionRepo.GetUserID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if userID.Hex() != claims.UserID {
		log.Warnf("session %s belongs to %s, token claims %s", claims.ID, userID.Hex(), claims.UserID)
		return nil, nil
	}

	return &domain.Session{
		ID:          claims.ID,
		UserID:      userID,
		Email:       claims.Email,
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// RefreshSession issues a new access token for a live session and extends it.
func (s *authService) RefreshSession(ctx context.Context, token string) (*domain.Session, error) {
	current, err := s.ResolveSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrSessionNotFound
	}

	if err := s.sessionRepo.Touch(ctx, current.ID, s.jwtExpiration); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("refresh session: %w", err)
	}

	session, err := s.issue(current.ID, current.UserID, current.Email)
	if err != nil {
		return nil, err
	}
	s.events.publish(current.ID, domain.AuthEventTokenRefreshed, session)
	return session, nil
}

// SignOut terminates the session the token belongs to. Unknown tokens are a no-op.
func (s *authService) SignOut(ctx context.Context, token string) error {
	sessionID := s.SessionID(token)
	if sessionID == "" {
		return nil
	}
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}

	log.Debugf("session %s signed out", sessionID)
	s.events.publish(sessionID, domain.AuthEventSignedOut, nil)
	return nil
}

func (s *authService) SessionID(token string) string {
	if token == "" {
		return ""
	}
	claims, err := s.parse(token, false)
	if err != nil {
		return ""
	}
	return claims.ID
}

func (s *authService) Subscribe(sessionID string, fn AuthListener) func() {
	return s.events.subscribe(sessionID, fn)
}

// --- JWT Helpers ---

// jwtClaims defines the structure of the JWT payload.
// RegisteredClaims.ID carries the session ID.
type jwtClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func (s *authService) issue(sessionID string, userID primitive.ObjectID, email string) (*domain.Session, error) {
	now := s.now()
	expiresAt := now.Add(s.jwtExpiration)
	claims := &jwtClaims{
		UserID: userID.Hex(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   userID.Hex(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		log.Errorf("sign token for session %s: %s", sessionID, err)
		return nil, ErrTokenGeneration
	}

	return &domain.Session{
		ID:          sessionID,
		UserID:      userID,
		Email:       email,
		AccessToken: signed,
		ExpiresAt:   time.Unix(expiresAt.Unix(), 0),
	}, nil
}

// parse verifies the signature. With checkExpiry false an expired token still
// yields its claims, sign-out must work for those too.
func (s *authService) parse(tokenString string, checkExpiry bool) (*jwtClaims, error) {
	claims := &jwtClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		expiredOnly := errors.As(err, &validationErr) && validationErr.Errors == jwt.ValidationErrorExpired
		if checkExpiry || !expiredOnly {
			return nil, err
		}
	}

	if claims.ID == "" || claims.UserID == "" {
		return nil, errors.New("token is missing session claims")
	}
	if checkExpiry && (claims.ExpiresAt == nil || !s.now().Before(claims.ExpiresAt.Time)) {
		return nil, jwt.ErrTokenExpired
	}
	return claims, nil
}
