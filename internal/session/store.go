// Package session holds the client-side authentication state: the bearer
// token, the active workspace, and the signed-in user's profile. Token and
// workspace survive process restarts through a pluggable Persistence backend;
// the user profile is in-memory only and is repopulated after login or a
// profile fetch.
package session

import (
	"sync"
	"time"
)

// Persisted keys. The names match the cookies the web console sets so a
// server-side gating layer can read either.
const (
	tokenKey     = "token"
	workspaceKey = "workspaceId"
)

// DefaultTTL is how long persisted credentials remain valid locally.
const DefaultTTL = 7 * 24 * time.Hour

// User is the signed-in account's profile.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Store is the process-wide session holder. Mutations are last-write-wins;
// the mutex only guards against concurrent goroutine access, there is no
// cross-process coordination.
type Store struct {
	mu          sync.RWMutex
	persist     Persistence
	token       string
	workspaceID string
	user        *User
}

// NewStore creates a Store bound to the given persistence backend. Persisted
// token and workspace are read synchronously so the first request after a
// restart is already authenticated. The user profile always starts absent.
func NewStore(p Persistence) *Store {
	return &Store{
		persist:     p,
		token:       p.Get(tokenKey),
		workspaceID: p.Get(workspaceKey),
	}
}

// SetAuth records a successful authentication. The token is always persisted.
// A non-empty workspaceID is persisted and set; an empty one leaves the
// persisted workspace untouched but clears it in memory (the caller signed in
// without a workspace scope).
func (s *Store) SetAuth(token string, user User, workspaceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.persist.Set(tokenKey, token, DefaultTTL)
	s.token = token
	s.user = &user

	if workspaceID != "" {
		s.persist.Set(workspaceKey, workspaceID, DefaultTTL)
		s.workspaceID = workspaceID
	} else {
		s.workspaceID = ""
	}
}

// SetWorkspaceID switches the active workspace without re-authenticating.
func (s *Store) SetWorkspaceID(workspaceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.persist.Set(workspaceKey, workspaceID, DefaultTTL)
	s.workspaceID = workspaceID
}

// SetUser populates the transient user profile (e.g. after a profile fetch).
func (s *Store) SetUser(user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
}

// Logout clears all session state, persisted and in-memory. Idempotent.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.persist.Remove(tokenKey)
	s.persist.Remove(workspaceKey)
	s.token = ""
	s.workspaceID = ""
	s.user = nil
}

// Token returns the current bearer token, or "" when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// WorkspaceID returns the active workspace identifier. A workspace without a
// token grants no access, so this returns "" whenever the token is absent.
func (s *Store) WorkspaceID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return ""
	}
	return s.workspaceID
}

// User returns the in-memory user profile, or nil if none was set since the
// process started.
func (s *Store) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Authorized reports whether a bearer token is present.
func (s *Store) Authorized() bool {
	return s.Token() != ""
}

// Credentials returns the token and workspace to attach to an outgoing
// request, applying the no-token-no-workspace invariant. Values are read at
// call time, never cached by the HTTP layer.
func (s *Store) Credentials() (token, workspaceID string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", ""
	}
	return s.token, s.workspaceID
}
