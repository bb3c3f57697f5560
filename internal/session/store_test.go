package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAuthPersistsTokenAndWorkspace(t *testing.T) {
	persist := NewMemoryStore()
	store := NewStore(persist)

	store.SetAuth("tok_abc", User{ID: 1, Name: "Jane", Email: "jane@example.com"}, "42")

	assert.Equal(t, "tok_abc", store.Token())
	assert.Equal(t, "42", store.WorkspaceID())
	assert.Equal(t, "tok_abc", persist.Get("token"))
	assert.Equal(t, "42", persist.Get("workspaceId"))

	user := store.User()
	require.NotNil(t, user)
	assert.Equal(t, "jane@example.com", user.Email)
}

func TestSetAuthWithoutWorkspaceKeepsPersistedValue(t *testing.T) {
	persist := NewMemoryStore()
	persist.Set("workspaceId", "7", 0)
	store := NewStore(persist)

	store.SetAuth("tok_abc", User{ID: 1}, "")

	// In-memory scope is cleared but the durable value survives for the
	// next process that signs in with a workspace.
	assert.Empty(t, store.WorkspaceID())
	assert.Equal(t, "7", persist.Get("workspaceId"))
}

func TestNewStoreLoadsPersistedSession(t *testing.T) {
	persist := NewMemoryStore()
	persist.Set("token", "tok_restored", 0)
	persist.Set("workspaceId", "9", 0)

	store := NewStore(persist)

	assert.Equal(t, "tok_restored", store.Token())
	assert.Equal(t, "9", store.WorkspaceID())
	// The user profile is never persisted
	assert.Nil(t, store.User())
}

func TestLogoutClearsEverything(t *testing.T) {
	persist := NewMemoryStore()
	store := NewStore(persist)
	store.SetAuth("tok_abc", User{ID: 1}, "42")

	store.Logout()

	assert.Empty(t, store.Token())
	assert.Empty(t, store.WorkspaceID())
	assert.Nil(t, store.User())
	assert.Empty(t, persist.Get("token"))
	assert.Empty(t, persist.Get("workspaceId"))
	assert.False(t, store.Authorized())
}

func TestLogoutIsIdempotent(t *testing.T) {
	store := NewStore(NewMemoryStore())
	store.SetAuth("tok_abc", User{ID: 1}, "42")

	store.Logout()
	store.Logout()

	assert.False(t, store.Authorized())
}

func TestWorkspaceWithoutTokenIsAbsent(t *testing.T) {
	persist := NewMemoryStore()
	persist.Set("workspaceId", "42", 0)

	store := NewStore(persist)

	// A workspace alone grants nothing
	assert.Empty(t, store.WorkspaceID())
	token, ws := store.Credentials()
	assert.Empty(t, token)
	assert.Empty(t, ws)
}

func TestSetWorkspaceIDSwitchesScope(t *testing.T) {
	persist := NewMemoryStore()
	store := NewStore(persist)
	store.SetAuth("tok_abc", User{ID: 1}, "1")

	store.SetWorkspaceID("2")

	assert.Equal(t, "2", store.WorkspaceID())
	assert.Equal(t, "2", persist.Get("workspaceId"))
}

func TestCredentialsReadAtCallTime(t *testing.T) {
	store := NewStore(NewMemoryStore())
	store.SetAuth("tok_first", User{ID: 1}, "1")

	token, _ := store.Credentials()
	assert.Equal(t, "tok_first", token)

	store.SetAuth("tok_second", User{ID: 1}, "1")
	token, _ = store.Credentials()
	assert.Equal(t, "tok_second", token)
}

func TestExpiredEntryIsAbsent(t *testing.T) {
	persist := NewMemoryStore()
	persist.Set("token", "tok_old", time.Nanosecond)
	time.Sleep(time.Millisecond)

	store := NewStore(persist)

	assert.False(t, store.Authorized())
}
