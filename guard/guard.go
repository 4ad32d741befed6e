// Package guard gates HTTP routes on the session state: unauthenticated
// requests are redirected to the login route, authenticated requests whose
// role is outside a handler's allow-list to the access-denied route.
package guard

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/finbackoffice/sessionkit/identity"
	"github.com/finbackoffice/sessionkit/session"
)

const (
	defaultLoginRoute  = "/login"
	defaultDeniedRoute = "/denied"
	defaultHold        = time.Second
)

// Guard makes no network calls and cannot fail on its own; it only observes
// the manager's resolved state. There is no retry: a failed restoration
// resolves to a login redirect.
type Guard struct {
	sessions   *session.Manager
	loginURL   string
	deniedURL  string
	holdFor    time.Duration
	readyAt    time.Time
	mountValid bool
	loading    http.Handler
	now        func() time.Time
}

// Option defines a function type to modify the Guard instance.
type Option func(*Guard)

// WithRoutes overrides the login and access-denied redirect targets.
func WithRoutes(loginURL, deniedURL string) Option {
	return func(g *Guard) {
		g.loginURL = loginURL
		g.deniedURL = deniedURL
	}
}

// WithHold sets the minimum window after construction during which requests
// are held (or answered by the loading handler) instead of being judged.
// Smooths over the in-flight startup restoration.
func WithHold(d time.Duration) Option {
	return func(g *Guard) {
		g.holdFor = d
	}
}

// WithLoadingHandler serves requests that arrive before the guard is ready
// instead of blocking them.
func WithLoadingHandler(h http.Handler) Option {
	return func(g *Guard) {
		g.loading = h
	}
}

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) Option {
	return func(g *Guard) {
		g.now = now
	}
}

// New creates a Guard. The persisted user id is checked once, here: when it
// is absent at construction the guard treats the client as invalid until the
// process restarts, regardless of later session state.
func New(sessions *session.Manager, identities identity.Repo, options ...Option) *Guard {
	g := &Guard{
		sessions:  sessions,
		loginURL:  defaultLoginRoute,
		deniedURL: defaultDeniedRoute,
		holdFor:   defaultHold,
		now:       time.Now,
	}

	for _, opt := range options {
		opt(g)
	}

	g.readyAt = g.now().Add(g.holdFor)

	userID, err := identities.UserID(context.Background())
	g.mountValid = err == nil && userID != ""

	return g
}

// Require wraps next so it only serves requests that carry an authenticated
// session whose role is in the allow-list. An empty allow-list admits any
// authenticated role.
func (g *Guard) Require(next http.Handler, roles ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.ready() {
			if g.loading != nil {
				g.loading.ServeHTTP(w, r)
				return
			}
			if err := g.wait(r.Context()); err != nil {
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				return
			}
		}

		sess, _ := g.sessions.Snapshot()

		hasSession := sess.Authenticated() && g.mountValid
		if !hasSession {
			http.Redirect(w, r, g.loginURL, http.StatusSeeOther)
			return
		}

		if len(roles) > 0 && !slices.Contains(roles, sess.Role) {
			http.Redirect(w, r, g.deniedURL, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireFunc is Require for bare handler functions.
func (g *Guard) RequireFunc(next http.HandlerFunc, roles ...string) http.Handler {
	return g.Require(next, roles...)
}

// ready reports whether the hold window elapsed and no restoration is in
// flight.
func (g *Guard) ready() bool {
	return !g.now().Before(g.readyAt) && !g.sessions.Restoring()
}

// wait blocks until the guard is ready or the request context ends.
func (g *Guard) wait(ctx context.Context) error {
	if remaining := g.readyAt.Sub(g.now()); remaining > 0 {
		timer := time.NewTimer(remaining)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return g.sessions.WaitIdle(ctx)
}
