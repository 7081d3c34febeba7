package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"sync"
)

// AuthListener receives session changes. The session is nil after sign-out.
type AuthListener func(event domain.AuthEvent, session *domain.Session)

// authEvents fans session changes out to the listeners of one session ID.
type authEvents struct {
	mu        sync.Mutex
	nextID    int
	listeners map[string]map[int]AuthListener
}

func newAuthEvents() *authEvents {
	return &authEvents{listeners: make(map[string]map[int]AuthListener)}
}

func (e *authEvents) subscribe(sessionID string, fn AuthListener) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	if e.listeners[sessionID] == nil {
		e.listeners[sessionID] = make(map[int]AuthListener)
	}
	e.listeners[sessionID][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			delete(e.listeners[sessionID], id)
			if len(e.listeners[sessionID]) == 0 {
				delete(e.listeners, sessionID)
			}
		})
	}
}

// publish calls listeners outside the lock, so a listener may unsubscribe.
func (e *authEvents) publish(sessionID string, event domain.AuthEvent, session *domain.Session) {
	e.mu.Lock()
	fns := make([]AuthListener, 0, len(e.listeners[sessionID]))
	for _, fn := range e.listeners[sessionID] {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(event, session)
	}
}

func (e *authEvents) count(sessionID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[sessionID])
}
