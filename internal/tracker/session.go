package tracker

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/platform"
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// SessionState is where the page stands with respect to the session.
type SessionState string

const (
	SessionUnknown         SessionState = "unknown"
	SessionAuthenticated   SessionState = "authenticated"
	SessionUnauthenticated SessionState = "unauthenticated"
	SessionError           SessionState = "error"
)

// SessionMachine tracks the page's session through the client's auth events.
// Events may arrive on other goroutines.
type SessionMachine struct {
	client          platform.Client
	onAuthenticated func(ctx context.Context)

	mu          sync.Mutex
	state       SessionState
	session     *domain.Session
	err         error
	unsubscribe func()
}

// NewSessionMachine starts in SessionUnknown. onAuthenticated runs every time
// the machine enters SessionAuthenticated, never while already in it.
func NewSessionMachine(client platform.Client, onAuthenticated func(ctx context.Context)) *SessionMachine {
	return &SessionMachine{
		client:          client,
		onAuthenticated: onAuthenticated,
		state:           SessionUnknown,
	}
}

// Mount subscribes to auth events and then resolves the current session.
// Mounting twice is a no-op.
func (m *SessionMachine) Mount(ctx context.Context) {
	m.mu.Lock()
	if m.unsubscribe != nil {
		m.mu.Unlock()
		return
	}
	m.unsubscribe = func() {}
	m.mu.Unlock()

	unsubscribe := m.client.OnAuthStateChange(func(event domain.AuthEvent, session *domain.Session) {
		m.handle(ctx, event, session)
	})
	m.mu.Lock()
	m.unsubscribe = unsubscribe
	m.mu.Unlock()

	session, err := m.client.GetSession(ctx)
	if err != nil {
		log.Errorf("get session: %s", err)
		m.mu.Lock()
		m.state = SessionError
		m.session = nil
		m.err = err
		m.mu.Unlock()
		return
	}
	m.enter(ctx, session)
}

func (m *SessionMachine) Unmount() {
	m.mu.Lock()
	unsubscribe := m.unsubscribe
	m.unsubscribe = nil
	m.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (m *SessionMachine) handle(ctx context.Context, event domain.AuthEvent, session *domain.Session) {
	log.Debugf("auth event %s", event)

	switch event {
	case domain.AuthEventSignedOut:
		m.enter(ctx, nil)
	case domain.AuthEventSignedIn, domain.AuthEventTokenRefreshed:
		m.enter(ctx, session)
	}
}

// enter moves to authenticated or unauthenticated. A new session while
// already authenticated, as after a token refresh, only replaces the session.
func (m *SessionMachine) enter(ctx context.Context, session *domain.Session) {
	m.mu.Lock()
	prev := m.state
	m.session = session
	m.err = nil
	if session != nil {
		m.state = SessionAuthenticated
	} else {
		m.state = SessionUnauthenticated
	}
	entered := prev != SessionAuthenticated && m.state == SessionAuthenticated
	m.mu.Unlock()

	if entered && m.onAuthenticated != nil {
		m.onAuthenticated(ctx)
	}
}

func (m *SessionMachine) State() SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *SessionMachine) Session() *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Err is the session retrieval failure behind SessionError.
func (m *SessionMachine) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *SessionMachine) snapshot() (SessionState, *domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.session, m.err
}
