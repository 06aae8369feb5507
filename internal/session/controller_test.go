package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/papertrade/portal/internal/common"
	"github.com/papertrade/portal/internal/credstore"
	"github.com/papertrade/portal/internal/models"
)

// fakeFetcher counts profile fetches and returns a fixed result.
type fakeFetcher struct {
	mu      sync.Mutex
	calls   int
	profile *models.UserProfile
	err     error
}

func (f *fakeFetcher) FetchProfile(ctx context.Context) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.profile, f.err
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestController(fetcher *fakeFetcher) (*Controller, *credstore.Memory) {
	creds := credstore.NewMemory()
	return NewController(creds, fetcher, common.NewSilentLogger()), creds
}

func TestInitialStateIsUnknown(t *testing.T) {
	c, _ := newTestController(&fakeFetcher{})

	state := c.State()
	if state.Kind != StateUnknown {
		t.Errorf("initial state = %q, want unknown", state.Kind)
	}
	if state.Resolved() {
		t.Error("unknown state must not report resolved")
	}
}

func TestInitializeWithoutCredential(t *testing.T) {
	fetcher := &fakeFetcher{}
	c, _ := newTestController(fetcher)

	c.Initialize(context.Background())

	state := c.State()
	if state.Kind != StateAnonymous {
		t.Errorf("state = %q, want anonymous", state.Kind)
	}
	if state.Profile != nil {
		t.Error("anonymous state must carry no profile")
	}
	if fetcher.callCount() != 0 {
		t.Errorf("no network call expected without a credential, got %d", fetcher.callCount())
	}
}

func TestInitializeWithValidCredential(t *testing.T) {
	fetcher := &fakeFetcher{profile: &models.UserProfile{ID: 1, Username: "alice"}}
	c, creds := newTestController(fetcher)
	creds.Save("stored-token")

	c.Initialize(context.Background())

	state := c.State()
	if state.Kind != StateAuthenticated {
		t.Errorf("state = %q, want authenticated", state.Kind)
	}
	if state.Profile == nil || state.Profile.Username != "alice" {
		t.Errorf("profile = %+v", state.Profile)
	}
	if _, ok := creds.Load(); !ok {
		t.Error("credential should survive a successful validation")
	}
}

func TestInitializeWithRejectedCredential(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("401 unauthorized")}
	c, creds := newTestController(fetcher)
	creds.Save("expired-token")

	c.Initialize(context.Background())

	state := c.State()
	if state.Kind != StateAnonymous {
		t.Errorf("state = %q, want anonymous after rejection", state.Kind)
	}
	if _, ok := creds.Load(); ok {
		t.Error("rejected credential must be cleared")
	}
}

func TestInitializeRunsOnce(t *testing.T) {
	fetcher := &fakeFetcher{profile: &models.UserProfile{ID: 1, Username: "alice"}}
	c, creds := newTestController(fetcher)
	creds.Save("stored-token")

	c.Initialize(context.Background())
	c.Initialize(context.Background())
	c.Initialize(context.Background())

	if fetcher.callCount() != 1 {
		t.Errorf("profile fetched %d times, want 1", fetcher.callCount())
	}
}

func TestLoginSuccess(t *testing.T) {
	fetcher := &fakeFetcher{profile: &models.UserProfile{ID: 2, Username: "bob"}}
	c, creds := newTestController(fetcher)

	if err := c.Login(context.Background(), "fresh-token"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	state := c.State()
	if state.Kind != StateAuthenticated {
		t.Errorf("state = %q, want authenticated", state.Kind)
	}
	if state.Profile.Username != "bob" {
		t.Errorf("profile = %+v", state.Profile)
	}

	token, ok := creds.Load()
	if !ok || token != "fresh-token" {
		t.Errorf("stored token = %q/%v", token, ok)
	}
}

func TestLoginFailureClearsCredential(t *testing.T) {
	fetchErr := errors.New("validation failed")
	fetcher := &fakeFetcher{err: fetchErr}
	c, creds := newTestController(fetcher)

	err := c.Login(context.Background(), "bad-token")
	if err == nil {
		t.Fatal("expected login error")
	}

	if c.State().Kind != StateAnonymous {
		t.Errorf("state = %q, want anonymous after failed login", c.State().Kind)
	}
	if _, ok := creds.Load(); ok {
		t.Error("credential must be cleared after failed login")
	}
}

func TestLogout(t *testing.T) {
	fetcher := &fakeFetcher{profile: &models.UserProfile{ID: 1, Username: "alice"}}
	c, creds := newTestController(fetcher)

	if err := c.Login(context.Background(), "token"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	callsBefore := fetcher.callCount()

	c.Logout()

	state := c.State()
	if state.Kind != StateAnonymous {
		t.Errorf("state = %q, want anonymous", state.Kind)
	}
	if state.Profile != nil {
		t.Error("profile must be gone after logout")
	}
	if _, ok := creds.Load(); ok {
		t.Error("credential must be cleared on logout")
	}
	if fetcher.callCount() != callsBefore {
		t.Error("logout must not make a network call")
	}
}

func TestLogoutWhileAnonymous(t *testing.T) {
	c, _ := newTestController(&fakeFetcher{})
	c.Initialize(context.Background())

	// Must not panic or change the outcome.
	c.Logout()

	if c.State().Kind != StateAnonymous {
		t.Errorf("state = %q, want anonymous", c.State().Kind)
	}
}

// blockingFetcher holds the fetch until released, so a competing transition
// can land first.
type blockingFetcher struct {
	release chan struct{}
	profile *models.UserProfile
}

func (f *blockingFetcher) FetchProfile(ctx context.Context) (*models.UserProfile, error) {
	<-f.release
	return f.profile, nil
}

func TestStaleTransitionDiscarded(t *testing.T) {
	fetcher := &blockingFetcher{
		release: make(chan struct{}),
		profile: &models.UserProfile{ID: 1, Username: "alice"},
	}
	creds := credstore.NewMemory()
	c := NewController(creds, fetcher, common.NewSilentLogger())

	done := make(chan error, 1)
	go func() {
		done <- c.Login(context.Background(), "slow-token")
	}()

	// Wait until the login has entered the verifying phase.
	for c.State().Kind != StateVerifying {
	}

	// A logout supersedes the in-flight login.
	c.Logout()

	close(fetcher.release)
	<-done

	if c.State().Kind != StateAnonymous {
		t.Errorf("state = %q, want anonymous (logout was the last transition)", c.State().Kind)
	}
}

// sequenceFetcher blocks its first fetch until released and fails it; the
// second fetch succeeds immediately.
type sequenceFetcher struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
	profile *models.UserProfile
}

func (f *sequenceFetcher) FetchProfile(ctx context.Context) (*models.UserProfile, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()

	if call == 1 {
		<-f.release
		return nil, errors.New("validation failed")
	}
	return f.profile, nil
}

func TestSupersededFailedLoginKeepsNewerCredential(t *testing.T) {
	fetcher := &sequenceFetcher{
		release: make(chan struct{}),
		profile: &models.UserProfile{ID: 2, Username: "bob"},
	}
	creds := credstore.NewMemory()
	c := NewController(creds, fetcher, common.NewSilentLogger())

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- c.Login(context.Background(), "stale-token")
	}()

	// Wait until the first login has entered the verifying phase.
	for c.State().Kind != StateVerifying {
	}

	// A second login supersedes the first and succeeds.
	if err := c.Login(context.Background(), "new-token"); err != nil {
		t.Fatalf("second login failed: %v", err)
	}

	// The stale login now fails; it must neither demote the state nor wipe
	// the newer token.
	close(fetcher.release)
	if err := <-firstDone; err == nil {
		t.Fatal("first login should have failed")
	}

	if c.State().Kind != StateAuthenticated {
		t.Errorf("state = %q, want authenticated (second login won)", c.State().Kind)
	}
	token, ok := creds.Load()
	if !ok || token != "new-token" {
		t.Errorf("stored token = %q/%v, want the second login's token", token, ok)
	}
}

func TestOnChangeFires(t *testing.T) {
	fetcher := &fakeFetcher{profile: &models.UserProfile{ID: 1, Username: "alice"}}
	c, _ := newTestController(fetcher)

	var mu sync.Mutex
	var seen []StateKind
	c.SetOnChange(func(s State) {
		mu.Lock()
		seen = append(seen, s.Kind)
		mu.Unlock()
	})

	if err := c.Login(context.Background(), "token"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[0] != StateVerifying || seen[1] != StateAuthenticated {
		t.Errorf("transitions = %v, want [verifying authenticated]", seen)
	}
}
