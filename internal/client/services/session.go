// Package services contains the application services of the feed client:
// the session manager (who is operating this client), the interaction cache
// (likes/comments/shares) and the feed service (posts and profile).
package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/merimaa/feedclient/internal/client/api"
	"github.com/merimaa/feedclient/internal/client/models"
	"github.com/merimaa/feedclient/internal/client/storage"
	"github.com/merimaa/feedclient/internal/common"
	"github.com/merimaa/feedclient/internal/logging"
)

// Session is the client's local belief about the current identity.
// Authenticated is true iff both the durable token marker and a parseable
// user record were present when the session was established.
type Session struct {
	Authenticated bool
	User          models.User
}

// SessionManager is the single source of truth for the operator's identity,
// backed by durable storage and reconciled with the remote API. Other
// components read the current user through it and never mutate it directly.
type SessionManager struct {
	api   api.Client
	store *storage.Store
	log   logging.Logger

	mu      sync.Mutex
	session Session
}

func NewSessionManager(apiClient api.Client, store *storage.Store, log logging.Logger) *SessionManager {
	return &SessionManager{api: apiClient, store: store, log: log}
}

// Restore reads the durable token marker and user record and rebuilds the
// in-memory session. Fail-closed: a missing or unparseable entry yields an
// unauthenticated session, and corrupted entries are cleared so the next
// restore starts clean. Never returns an error and performs no network call.
func (m *SessionManager) Restore(ctx context.Context) Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, err := m.store.Get(ctx, storage.KeyAuthToken)
	if err != nil {
		m.log.Warn(ctx, "cannot read token marker, treating session as absent", "error", err)
		m.session = Session{}
		return m.session
	}
	userRaw, err := m.store.Get(ctx, storage.KeyUser)
	if err != nil {
		m.log.Warn(ctx, "cannot read user record, treating session as absent", "error", err)
		m.session = Session{}
		return m.session
	}

	if len(token) == 0 || len(userRaw) == 0 {
		m.session = Session{}
		return m.session
	}

	var user models.User
	if err := json.Unmarshal(userRaw, &user); err != nil {
		m.log.Warn(ctx, "corrupt user record, clearing session entries", "error", err)
		_ = m.store.Delete(ctx, storage.KeyAuthToken)
		_ = m.store.Delete(ctx, storage.KeyUser)
		m.session = Session{}
		return m.session
	}

	m.session = Session{Authenticated: true, User: user}
	return m.session
}

// Login authenticates against the remote API. On server-reported success the
// token marker and user record are persisted and the in-memory session is
// replaced; the returned message is suitable for display. On any failure the
// session is unchanged and the error is either *api.ServerError (show its
// message verbatim) or a transport failure wrapping api.ErrUnavailable.
// Login never retries.
func (m *SessionManager) Login(ctx context.Context, identifier, password string) (Session, string, error) {
	res, err := m.api.Login(ctx, identifier, password)
	if err != nil {
		return m.snapshot(), "", err
	}

	if err := m.persistIdentity(ctx, res.Token, res.User); err != nil {
		// Persisted state is now unreliable; keep the in-memory session
		// unauthenticated rather than half-open.
		m.log.Error(ctx, "login succeeded but local persistence failed", "error", err)
		return m.snapshot(), "", err
	}

	m.mu.Lock()
	m.session = Session{Authenticated: true, User: res.User}
	m.mu.Unlock()

	m.log.Info(ctx, "logged in", "user_id", res.User.ID, "username", res.User.Username)
	return m.snapshot(), res.Message, nil
}

// Register submits the full profile. No field validation happens here: the
// remote API owns rejection of malformed input, and its message is returned
// unmodified. On success only a minimal identity projection (id, name,
// username, email) is persisted, deliberately not the full profile.
//
// Duplicate-submission accommodation: a server failure whose message reads
// as an "already exists" conflict AND that carries a server-assigned user id
// is treated as success, so retrying a registration that actually went
// through does not strand the user.
func (m *SessionManager) Register(ctx context.Context, input models.RegistrationInput, enc api.RegistrationEncoding) (Session, string, error) {
	res, err := m.api.Register(ctx, input, enc)
	if err != nil {
		se, ok := api.AsServerError(err)
		if !ok || se.UserID == 0 || !isConflictMessage(se.Message) {
			return m.snapshot(), "", err
		}
		m.log.Info(ctx, "duplicate registration treated as success", "user_id", se.UserID)
		res = &api.RegisterResult{UserID: se.UserID, Message: se.Message}
	}

	user := models.User{
		ID:       res.UserID,
		Name:     input.Name,
		Username: input.Username,
		Email:    input.Email,
	}

	if err := m.persistIdentity(ctx, res.Token, user); err != nil {
		m.log.Error(ctx, "registration succeeded but local persistence failed", "error", err)
		return m.snapshot(), "", err
	}

	m.mu.Lock()
	m.session = Session{Authenticated: true, User: user}
	m.mu.Unlock()

	message := res.Message
	if message == "" {
		message = "Registration successful"
	}
	return m.snapshot(), message, nil
}

// Logout clears the in-memory session and all durable entries (the like-set
// is keyed to the session and goes with it). Navigation back to the login
// surface is the caller's concern.
func (m *SessionManager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.session = Session{}
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		m.log.Warn(ctx, "could not clear local state on logout", "error", err)
	}
	m.log.Info(ctx, "logged out")
}

// IsAuthenticated is a pure read of in-memory state.
func (m *SessionManager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Authenticated
}

// Current returns the current user and whether a session exists.
func (m *SessionManager) Current() (models.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.User, m.session.Authenticated
}

// RefreshUser replaces the persisted and in-memory user record with a newer
// server-side view (e.g. after a profile fetch or edit). A no-op when no
// session exists.
func (m *SessionManager) RefreshUser(ctx context.Context, user models.User) error {
	m.mu.Lock()
	if !m.session.Authenticated {
		m.mu.Unlock()
		return nil
	}
	m.session.User = user
	m.mu.Unlock()

	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return m.store.Set(ctx, storage.KeyUser, raw)
}

func (m *SessionManager) snapshot() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

func (m *SessionManager) persistIdentity(ctx context.Context, token string, user models.User) error {
	if token == "" {
		token = common.AuthTokenSentinel
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := m.store.Set(ctx, storage.KeyAuthToken, []byte(token)); err != nil {
		return err
	}
	return m.store.Set(ctx, storage.KeyUser, raw)
}

// isConflictMessage reports whether a failure message reads as a soft
// "account already exists" signal.
func isConflictMessage(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "already")
}
