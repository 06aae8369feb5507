// Package credstore persists the bearer credential across portal restarts.
//
// At most one credential is live per portal instance. The store is an opaque
// pass-through: it never inspects or validates token contents.
package credstore

import "sync"

// credentialKey is the fixed key the bearer token is stored under. It is the
// only durable client state the portal keeps.
const credentialKey = "accessToken"

// Store persists and retrieves the bearer credential.
//
// Load reports absence rather than returning an error: a portal running
// without durable storage behaves as a fresh anonymous client, it does not
// fail.
type Store interface {
	Save(token string) error
	Load() (string, bool)
	Clear() error
}

// Memory is an in-memory Store for tests and ephemeral runs with no
// durable backing configured.
type Memory struct {
	mu    sync.RWMutex
	token string
	set   bool
}

// NewMemory creates an empty in-memory credential store.
func NewMemory() *Memory {
	return &Memory{}
}

// Save stores the token.
func (m *Memory) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.set = true
	return nil
}

// Load returns the stored token, if any.
func (m *Memory) Load() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.set || m.token == "" {
		return "", false
	}
	return m.token, true
}

// Clear removes the stored token.
func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.set = false
	return nil
}
