// Package auth manages the login session: it validates a supplied token
// against the API and persists the resulting credential in the store's
// singleton auth slot.
package auth

import (
	"strings"
	"time"

	"github.com/altin/gh-browse/internal/store"
)

// Manager validates and persists credentials. The probe is the API
// client's ValidateToken; it is injected so tests can stub the network.
type Manager struct {
	store *store.Store
	probe func(token string) error
}

func NewManager(st *store.Store, probe func(token string) error) *Manager {
	return &Manager{store: st, probe: probe}
}

// LoginResult reports the outcome of a login attempt. Message is
// user-facing and set only on failure.
type LoginResult struct {
	OK      bool
	Message string
}

// Login trims and validates token, persisting a credential on success.
// A failed probe cannot distinguish a rejected token from an unreachable
// network; both report the same failure.
func (m *Manager) Login(token string) LoginResult {
	token = strings.TrimSpace(token)
	if token == "" {
		return LoginResult{Message: "Please enter a token"}
	}
	if err := m.probe(token); err != nil {
		return LoginResult{Message: "Token validation failed. Check the token and your connection."}
	}
	err := m.store.PutAuth(store.Credential{
		AccessToken: token,
		TokenType:   "bearer",
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return LoginResult{Message: "Token accepted but could not be saved: " + err.Error()}
	}
	return LoginResult{OK: true}
}

// Logout deletes the credential. Logging out while logged out is fine.
func (m *Manager) Logout() error {
	return m.store.DeleteAuth()
}

// IsLoggedIn reports whether a credential is retrievable. Storage faults
// count as not logged in.
func (m *Manager) IsLoggedIn() bool {
	cred, err := m.store.GetAuth()
	return err == nil && cred != nil
}
