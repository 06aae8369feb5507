// Package session owns the authentication lifecycle of the portal: one
// explicit controller instance, initialized once at startup, with login and
// logout as the only other mutators.
package session

import (
	"context"
	"sync"

	"github.com/papertrade/portal/internal/common"
	"github.com/papertrade/portal/internal/credstore"
	"github.com/papertrade/portal/internal/models"
)

// StateKind identifies where the session is in its lifecycle.
type StateKind string

const (
	// StateUnknown is the only valid initial state. It resolves to exactly
	// one of Anonymous or Authenticated before any protected view is served.
	StateUnknown StateKind = "unknown"
	// StateVerifying is the transient phase while a credential is being
	// validated against /users/me.
	StateVerifying StateKind = "verifying"
	// StateAnonymous means no valid credential is held.
	StateAnonymous StateKind = "anonymous"
	// StateAuthenticated means a credential was validated and a profile
	// fetched.
	StateAuthenticated StateKind = "authenticated"
)

// State is a snapshot of the session. Profile is non-nil exactly when Kind is
// StateAuthenticated.
type State struct {
	Kind    StateKind
	Profile *models.UserProfile
}

// Resolved reports whether the initial credential check has completed.
func (s State) Resolved() bool {
	return s.Kind == StateAnonymous || s.Kind == StateAuthenticated
}

// ProfileFetcher validates a stored credential by fetching the profile it
// belongs to.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context) (*models.UserProfile, error)
}

// Controller is the session state machine.
//
// Transitions are last-writer-wins: every mutation bumps an epoch, and a
// profile fetch that completes after a newer transition has started is
// discarded rather than applied.
type Controller struct {
	creds  credstore.Store
	api    ProfileFetcher
	logger *common.Logger

	mu       sync.RWMutex
	state    State
	epoch    uint64
	onChange func(State)

	initOnce sync.Once
}

// NewController creates a session controller in the Unknown state.
func NewController(creds credstore.Store, api ProfileFetcher, logger *common.Logger) *Controller {
	return &Controller{
		creds:  creds,
		api:    api,
		logger: logger,
		state:  State{Kind: StateUnknown},
	}
}

// SetOnChange registers a callback invoked after every state transition.
// Must be called before Initialize.
func (c *Controller) SetOnChange(fn func(State)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// State returns the current session snapshot.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Initialize resolves the initial state from the credential store. It runs
// its body exactly once per controller lifetime; later calls are no-ops.
//
// No stored credential resolves to Anonymous without any network call. A
// stored credential is validated by a profile fetch; any failure clears the
// store and resolves to Anonymous.
func (c *Controller) Initialize(ctx context.Context) {
	c.initOnce.Do(func() {
		_, ok := c.creds.Load()
		if !ok {
			c.transition(c.bump(), State{Kind: StateAnonymous})
			c.logger.Info().Msg("session initialized: no stored credential")
			return
		}

		epoch := c.bump()
		c.transition(epoch, State{Kind: StateVerifying})

		profile, err := c.api.FetchProfile(ctx)
		if err != nil {
			c.logger.Warn().Str("error", err.Error()).Msg("stored credential rejected, clearing")
			c.clearIfCurrent(epoch)
			c.transition(epoch, State{Kind: StateAnonymous})
			return
		}

		c.transition(epoch, State{Kind: StateAuthenticated, Profile: profile})
		c.logger.Info().Str("username", profile.Username).Msg("session restored from stored credential")
	})
}

// Login persists the token and validates it by fetching the profile. On
// success the session becomes Authenticated; on any failure the store is
// cleared, the session becomes Anonymous and the error is returned so the
// caller can surface it.
func (c *Controller) Login(ctx context.Context, token string) error {
	if err := c.creds.Save(token); err != nil {
		return err
	}

	epoch := c.bump()
	c.transition(epoch, State{Kind: StateVerifying})

	profile, err := c.api.FetchProfile(ctx)
	if err != nil {
		c.clearIfCurrent(epoch)
		c.transition(epoch, State{Kind: StateAnonymous})
		return err
	}

	c.transition(epoch, State{Kind: StateAuthenticated, Profile: profile})
	c.logger.Info().Str("username", profile.Username).Msg("login succeeded")
	return nil
}

// Logout clears the credential and transitions to Anonymous synchronously.
// No server round trip is made.
func (c *Controller) Logout() {
	if err := c.creds.Clear(); err != nil {
		c.logger.Error().Str("error", err.Error()).Msg("failed to clear credential store")
	}
	c.transition(c.bump(), State{Kind: StateAnonymous})
	c.logger.Info().Msg("logged out")
}

// clearIfCurrent clears the credential only while epoch is still the newest
// transition, so a superseded login cannot wipe the token a newer login has
// saved. The store is cleared under the controller lock to serialize against
// bump.
func (c *Controller) clearIfCurrent(epoch uint64) {
	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		return
	}
	err := c.creds.Clear()
	c.mu.Unlock()

	if err != nil {
		c.logger.Error().Str("error", err.Error()).Msg("failed to clear credential store")
	}
}

// bump starts a new transition epoch and returns it.
func (c *Controller) bump() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	return c.epoch
}

// transition applies a state change if epoch is still current. A stale
// epoch means a newer login/logout has superseded this transition; the
// result is discarded so the last transition wins.
func (c *Controller) transition(epoch uint64, next State) {
	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		return
	}
	c.state = next
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(next)
	}
}
