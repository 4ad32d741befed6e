package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/finbackoffice/sessionkit/claims"
	"github.com/finbackoffice/sessionkit/identity"
	"github.com/finbackoffice/sessionkit/users"
)

// Manager is the sole writer of the Session. Operations may suspend at
// network boundaries; every state mutation commits under the lock, guarded by
// a generation number so a late-resolving restore cannot clobber a newer
// login.
type Manager struct {
	mu          sync.Mutex
	session     Session
	status      Status
	generation  uint64
	restoreDone chan struct{} // non-nil while a restore is in flight

	collab      Collaborators
	identities  identity.Repo
	autoRestore bool
	logger      zerolog.Logger
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithAutoRestore enables or disables the standing restoration rule.
// Disabled mainly in tests that drive Restore explicitly.
func WithAutoRestore(enabled bool) ManagerOption {
	return func(m *Manager) {
		m.autoRestore = enabled
	}
}

func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager initializes a Manager with required dependencies.
func NewManager(collab Collaborators, identities identity.Repo, options ...ManagerOption) (*Manager, error) {
	if collab.Auth == nil {
		return nil, errors.New("[NewManager] Authenticator is required")
	}
	if collab.Tokens == nil {
		return nil, errors.New("[NewManager] TokenFetcher is required")
	}
	if collab.Users == nil {
		return nil, errors.New("[NewManager] UserFetcher is required")
	}
	if identities == nil {
		return nil, errors.New("[NewManager] identity repo is required")
	}

	m := &Manager{
		collab:      collab,
		identities:  identities,
		autoRestore: true,
		logger:      log.Logger,
	}

	for _, opt := range options {
		opt(m)
	}

	return m, nil
}

// Snapshot returns the current session and status.
func (m *Manager) Snapshot() (Session, Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, m.status
}

// Restoring reports whether an automatic restoration attempt is in flight.
func (m *Manager) Restoring() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status == StatusRestoring
}

// Start arms the auto-restoration rule: an empty, idle session immediately
// attempts to restore itself from the persisted identifiers. Fires once per
// call; Logout re-arms it, so the rule holds for the process lifetime.
func (m *Manager) Start(ctx context.Context) {
	if !m.autoRestore {
		return
	}
	m.mu.Lock()
	idle := m.status == StatusEmpty && !m.session.Authenticated() && m.session.User == nil
	m.mu.Unlock()
	if idle {
		go m.Restore(ctx)
	}
}

// Login exchanges credentials for a bearer token, persists the user id,
// resolves the profile and tenant, and commits the authenticated session.
// Any failure resets the session and removes the persisted tenant; the error
// is returned so the UI can surface it.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	gen := m.begin(StatusLoggingIn)
	defer m.settle(gen)

	token, err := m.collab.Auth.Authenticate(ctx, email, password)
	if err != nil {
		m.reset(ctx, gen)
		return errors.Wrap(err, InvalidCredentialsErr.Error())
	}

	decoded, err := claims.Decode(token)
	if err != nil {
		m.reset(ctx, gen)
		return errors.Wrap(err, MalformedTokenErr.Error())
	}

	if err := m.identities.SetUserID(ctx, decoded.UserID); err != nil {
		m.reset(ctx, gen)
		return errors.Wrap(err, "[Login] persisting user id")
	}

	profile, err := m.collab.Users.FetchUserByID(ctx, decoded.UserID, token)
	if err != nil {
		m.reset(ctx, gen)
		return errors.Wrap(err, "[Login] profile lookup")
	}
	if profile == nil {
		m.reset(ctx, gen)
		return ProfileNotFoundErr
	}

	// Tenant from the profile, falling back to the token's app claim.
	tenant := profile.App
	if tenant == "" {
		tenant = decoded.Tenant
	}

	m.commit(ctx, gen, token, decoded, profile, tenant)
	return nil
}

// Restore re-derives the session from the persisted identifiers. Failures are
// silent: the only observable effect is that the session stays (or returns
// to) unauthenticated.
func (m *Manager) Restore(ctx context.Context) {
	m.mu.Lock()
	if m.status == StatusRestoring {
		m.mu.Unlock()
		return
	}
	m.generation++
	gen := m.generation
	m.status = StatusRestoring
	done := make(chan struct{})
	m.restoreDone = done
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		if m.restoreDone == done {
			m.restoreDone = nil
		}
		if m.generation == gen {
			if m.session.Authenticated() {
				m.status = StatusAuthenticated
			} else {
				m.status = StatusEmpty
			}
		}
		m.mu.Unlock()
		close(done)
	}()

	userID, err := m.identities.UserID(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("session restore: reading persisted user id")
		return
	}
	if userID == "" {
		// Nothing persisted; the session stays empty. The identifier is not
		// touched so a later login still finds a clean slate.
		return
	}

	token, err := m.collab.Tokens.FetchTokenByUserID(ctx, userID)
	if err != nil {
		m.logger.Warn().Err(err).Str("user_id", userID).Msg("session restore failed: token fetch")
		m.reset(ctx, gen)
		return
	}
	if token == "" {
		// Backend declined to restore; leave the session empty.
		return
	}

	decoded, err := claims.Decode(token)
	if err != nil {
		m.logger.Warn().Err(err).Msg("session restore failed: token decode")
		m.reset(ctx, gen)
		return
	}

	profile, err := m.collab.Users.FetchUserByID(ctx, decoded.UserID, token)
	if err != nil || profile == nil {
		m.logger.Warn().Err(err).Str("user_id", decoded.UserID).Msg("session restore failed: profile lookup")
		m.reset(ctx, gen)
		return
	}

	// Tenant from the profile, then the token claim, then the previously
	// persisted value.
	tenant := profile.App
	if tenant == "" {
		tenant = decoded.Tenant
	}
	if tenant == "" {
		persisted, err := m.identities.Tenant(ctx)
		if err == nil {
			tenant = persisted
		}
	}

	m.commit(ctx, gen, token, decoded, profile, tenant)
}

// Logout clears the session and both persisted identifiers. No network call.
// Returning to the empty state re-arms the auto-restoration rule, which then
// no-ops because the user id was just cleared.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.generation++
	m.session = Session{}
	m.status = StatusEmpty
	m.mu.Unlock()

	if err := m.identities.ClearUserID(ctx); err != nil {
		m.logger.Warn().Err(err).Msg("logout: clearing persisted user id")
	}
	if err := m.identities.ClearTenant(ctx); err != nil {
		m.logger.Warn().Err(err).Msg("logout: clearing persisted tenant")
	}

	m.Start(context.WithoutCancel(ctx))
}

// WaitIdle blocks until no restoration is in flight, or the context ends.
func (m *Manager) WaitIdle(ctx context.Context) error {
	for {
		m.mu.Lock()
		done := m.restoreDone
		m.mu.Unlock()
		if done == nil {
			return nil
		}
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// begin stamps a new operation generation and status.
func (m *Manager) begin(status Status) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
	m.status = status
	return m.generation
}

// settle derives the final status from the committed session, unless a newer
// operation owns the state.
func (m *Manager) settle(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generation != gen {
		return
	}
	if m.session.Authenticated() {
		m.status = StatusAuthenticated
	} else {
		m.status = StatusEmpty
	}
}

// reset empties the session and removes the persisted tenant. The persisted
// user id survives failed restorations intentionally.
func (m *Manager) reset(ctx context.Context, gen uint64) {
	m.mu.Lock()
	if m.generation != gen {
		m.mu.Unlock()
		return
	}
	m.session = Session{}
	m.mu.Unlock()

	if err := m.identities.ClearTenant(ctx); err != nil {
		m.logger.Warn().Err(err).Msg("session reset: clearing persisted tenant")
	}
}

// commit installs the authenticated session, then persists or clears the
// resolved tenant.
func (m *Manager) commit(ctx context.Context, gen uint64, token string, decoded *claims.Claims, profile *users.Profile, tenant string) {
	m.mu.Lock()
	if m.generation != gen {
		// A newer operation won the race; drop this result.
		m.mu.Unlock()
		return
	}
	profile.ID = decoded.UserID
	m.session = Session{
		User:   profile,
		Role:   decoded.Role,
		Tenant: tenant,
		Token:  token,
	}
	m.mu.Unlock()

	if tenant != "" {
		if err := m.identities.SetTenant(ctx, tenant); err != nil {
			m.logger.Warn().Err(err).Msg("persisting tenant")
		}
		return
	}
	m.logger.Warn().Str("user_id", decoded.UserID).Msg("no tenant resolved for session")
	if err := m.identities.ClearTenant(ctx); err != nil {
		m.logger.Warn().Err(err).Msg("clearing persisted tenant")
	}
}
