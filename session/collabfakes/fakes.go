// Package collabfakes provides in-memory implementations of the session
// collaborators for tests.
package collabfakes

import (
	"context"
	"errors"
	"sync"

	"github.com/finbackoffice/sessionkit/users"
)

// FakeAuthenticator returns a canned token for one known credential pair.
type FakeAuthenticator struct {
	mu       sync.Mutex
	Email    string
	Password string
	Token    string
	Err      error
	Calls    int
}

func (a *FakeAuthenticator) Authenticate(_ context.Context, email, password string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Calls++
	if a.Err != nil {
		return "", a.Err
	}
	if email != a.Email || password != a.Password {
		return "", errors.New("credentials rejected")
	}
	return a.Token, nil
}

// FakeTokenFetcher maps user ids to re-issued tokens. A missing id yields an
// empty token, the "cannot restore" signal.
type FakeTokenFetcher struct {
	mu     sync.Mutex
	Tokens map[string]string
	Err    error
	Calls  int

	// Block, when set, is received from before returning; lets tests hold a
	// restore in flight.
	Block chan struct{}
}

func (f *FakeTokenFetcher) FetchTokenByUserID(ctx context.Context, userID string) (string, error) {
	f.mu.Lock()
	f.Calls++
	block := f.Block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	return f.Tokens[userID], nil
}

// FakeUserFetcher maps user ids to profiles. A missing id yields a nil
// profile, the "no such user" signal.
type FakeUserFetcher struct {
	mu       sync.Mutex
	Profiles map[string]*users.Profile
	Err      error
	Calls    int
}

func (f *FakeUserFetcher) FetchUserByID(_ context.Context, userID, _ string) (*users.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	profile, ok := f.Profiles[userID]
	if !ok {
		return nil, nil
	}
	// Copy so callers cannot mutate the fixture.
	p := *profile
	return &p, nil
}
