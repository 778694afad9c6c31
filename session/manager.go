package session

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/go-condo-console/credentials"
	"github.com/jrsteele09/go-condo-console/identity"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const defaultRenewTimeout = 10 * time.Second

// API is the slice of the Identity API the Manager consumes.
type API interface {
	Login(ctx context.Context, usernameOrEmail, password string) (credentials.Credential, identity.Identity, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
	Profile(ctx context.Context, accessToken string) (identity.Identity, error)
}

// renewal is the shared handle for the single in-flight refresh call.
// Attached callers block on done and then read cred/err; both are
// written before done is closed.
type renewal struct {
	done chan struct{}
	cred credentials.Credential
	err  error
}

// Manager owns the session state machine: login, logout, reload-time
// restore, and the de-duplicated credential renewal that collapses a
// herd of concurrent 401s into one refresh call. All shared state is
// guarded by mu; the check-and-set that decides whether a caller starts
// a renewal or joins the existing one happens under a single lock
// acquisition, with network calls outside the lock.
type Manager struct {
	api          API
	store        credentials.Store
	log          zerolog.Logger
	renewTimeout time.Duration
	onState      func(State)

	mu       sync.Mutex
	state    State
	cred     credentials.Credential
	hasCred  bool
	ident    identity.Identity
	hasIdent bool
	inflight *renewal
}

// ManagerOption modifies a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = log
	}
}

// WithRenewTimeout bounds the single refresh call. Hitting the timeout
// counts as renewal failure: forcing a re-login beats retrying forever.
func WithRenewTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.renewTimeout = d
	}
}

// WithStateListener registers a hook invoked on every state transition,
// so the shell can re-render navigation when the session dies.
// Notifications are dispatched on their own goroutine and may coalesce;
// the listener should re-read CurrentState rather than trust ordering.
func WithStateListener(fn func(State)) ManagerOption {
	return func(m *Manager) {
		m.onState = fn
	}
}

// NewManager creates a session manager over the given Identity API and
// credential store.
func NewManager(api API, store credentials.Store, options ...ManagerOption) (*Manager, error) {
	if api == nil {
		return nil, errors.New("[NewManager] api is required")
	}
	if store == nil {
		return nil, errors.New("[NewManager] store is required")
	}

	m := &Manager{
		api:          api,
		store:        store,
		log:          zerolog.Nop(),
		renewTimeout: defaultRenewTimeout,
		state:        StateUnauthenticated,
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// Login authenticates against the Identity API. On success the returned
// credential pair is persisted and the session becomes authenticated.
// On failure no partial state is retained.
func (m *Manager) Login(ctx context.Context, usernameOrEmail, password string) (identity.Identity, error) {
	m.mu.Lock()
	if m.state == StateAuthenticating || m.state == StateRenewing {
		m.mu.Unlock()
		return identity.Identity{}, ErrAuthInProgress
	}
	m.transition(StateAuthenticating)
	m.mu.Unlock()

	cred, ident, err := m.api.Login(ctx, usernameOrEmail, password)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.clearLocked()
		m.transition(StateUnauthenticated)
		return identity.Identity{}, errors.Wrap(err, "[Manager.Login] login")
	}

	if serr := m.store.Save(cred); serr != nil {
		m.log.Warn().Err(serr).Msg("credential save failed; session will not survive a restart")
	}
	m.cred, m.hasCred = cred, true
	m.ident, m.hasIdent = ident, true
	m.transition(StateAuthenticated)
	return ident, nil
}

// Logout notifies the Identity API (best effort, failures ignored), then
// unconditionally clears storage and returns to unauthenticated. A
// renewal in flight at that moment resolves its attached callers with
// ErrSessionDead rather than resurrecting the old credential.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	refreshToken := ""
	if m.hasCred {
		refreshToken = m.cred.RefreshToken
	}
	m.mu.Unlock()

	if refreshToken != "" {
		if err := m.api.Logout(ctx, refreshToken); err != nil {
			m.log.Debug().Err(err).Msg("logout notification failed")
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
	m.transition(StateUnauthenticated)
}

// RestoreFromStorage re-establishes a session from a stored credential
// pair, once, at process start. A stored pair whose access token is
// stale gets one refresh attempt and one profile retry; any failure on
// that path clears storage and settles at unauthenticated so the user
// simply logs in again.
func (m *Manager) RestoreFromStorage(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateUnauthenticated {
		m.mu.Unlock()
		return errors.New("[Manager.RestoreFromStorage] session already established")
	}
	cred, ok := m.store.Load()
	if !ok {
		m.mu.Unlock()
		return nil
	}
	m.cred, m.hasCred = cred, true
	m.transition(StateAuthenticating)
	m.mu.Unlock()

	if ident, err := m.api.Profile(ctx, cred.AccessToken); err == nil {
		m.settleAuthenticated(cred, ident, false)
		return nil
	}

	// Stored access token rejected (or unreachable): one refresh, then
	// one profile retry.
	renewCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.renewTimeout)
	defer cancel()

	access, err := m.api.Refresh(renewCtx, cred.RefreshToken)
	if err != nil {
		m.log.Debug().Err(err).Msg("restore refresh failed")
		m.settleUnauthenticated()
		return nil
	}
	cred.AccessToken = access

	ident, err := m.api.Profile(ctx, cred.AccessToken)
	if err != nil {
		m.log.Debug().Err(err).Msg("restore profile retry failed")
		m.settleUnauthenticated()
		return nil
	}

	m.settleAuthenticated(cred, ident, true)
	return nil
}

// Renew produces a fresh credential. The first caller that finds the
// session authenticated starts the single refresh call; every caller
// that arrives while it is in flight attaches to the same handle and
// receives the same outcome. Renewal failure is terminal: storage is
// cleared, the state moves to dead, and all attached callers get
// ErrSessionDead together.
func (m *Manager) Renew(ctx context.Context) (credentials.Credential, error) {
	m.mu.Lock()
	switch m.state {
	case StateRenewing:
		r := m.inflight
		m.mu.Unlock()
		select {
		case <-r.done:
			return r.cred, r.err
		case <-ctx.Done():
			return credentials.Credential{}, errors.Wrap(ctx.Err(), "[Manager.Renew] abandoned while attached")
		}

	case StateAuthenticated:
		r := &renewal{done: make(chan struct{})}
		m.inflight = r
		refreshToken := m.cred.RefreshToken
		m.transition(StateRenewing)
		m.mu.Unlock()

		m.runRenewal(ctx, r, refreshToken)
		return r.cred, r.err

	case StateDead:
		m.mu.Unlock()
		return credentials.Credential{}, ErrSessionDead

	default:
		m.mu.Unlock()
		return credentials.Credential{}, ErrNotAuthenticated
	}
}

// runRenewal performs the single refresh call and resolves the shared
// handle. The originating caller's cancellation is detached so one
// impatient caller cannot kill the renewal every other caller is
// attached to; the manager's own timeout bounds the call instead.
func (m *Manager) runRenewal(ctx context.Context, r *renewal, refreshToken string) {
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.renewTimeout)
	defer cancel()

	access, err := m.api.Refresh(callCtx, refreshToken)

	m.mu.Lock()
	if m.state != StateRenewing || m.inflight != r {
		// Logged out while the refresh was in flight. Storage is already
		// cleared; never resurrect the credential.
		if m.inflight == r {
			m.inflight = nil
		}
		m.mu.Unlock()
		r.err = ErrSessionDead
		close(r.done)
		return
	}

	if err != nil {
		m.clearLocked()
		m.inflight = nil
		m.transition(StateDead)
		m.mu.Unlock()
		m.log.Info().Err(err).Msg("credential renewal failed; session dead")
		r.err = errors.Wrap(ErrSessionDead, err.Error())
		close(r.done)
		return
	}

	m.cred.AccessToken = access
	if serr := m.store.Save(m.cred); serr != nil {
		m.log.Warn().Err(serr).Msg("renewed credential save failed")
	}
	m.inflight = nil
	m.transition(StateAuthenticated)
	newCred := m.cred
	m.mu.Unlock()

	r.cred = newCred
	close(r.done)
}

// CurrentIdentity returns the authenticated identity, if any.
func (m *Manager) CurrentIdentity() (identity.Identity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasIdent {
		return identity.Identity{}, false
	}
	return m.ident, true
}

// CurrentCredential returns the credential pair. It exists exactly when
// the session is authenticated or renewing.
func (m *Manager) CurrentCredential() (credentials.Credential, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticated && m.state != StateRenewing {
		return credentials.Credential{}, false
	}
	return m.cred, m.hasCred
}

// CurrentState returns the session state.
func (m *Manager) CurrentState() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) settleAuthenticated(cred credentials.Credential, ident identity.Identity, save bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticating {
		// Logged out while the restore was in flight; stay logged out.
		return
	}
	if save {
		if serr := m.store.Save(cred); serr != nil {
			m.log.Warn().Err(serr).Msg("restored credential save failed")
		}
	}
	m.cred, m.hasCred = cred, true
	m.ident, m.hasIdent = ident, true
	m.transition(StateAuthenticated)
}

func (m *Manager) settleUnauthenticated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
	m.transition(StateUnauthenticated)
}

// clearLocked wipes the credential, identity and storage together.
// Caller holds mu.
func (m *Manager) clearLocked() {
	if err := m.store.Clear(); err != nil {
		m.log.Warn().Err(err).Msg("credential clear failed")
	}
	m.cred, m.hasCred = credentials.Credential{}, false
	m.ident, m.hasIdent = identity.Identity{}, false
}

// transition moves the state machine and notifies the listener. Caller
// holds mu; the listener runs on its own goroutine so it may call back
// into the manager freely.
func (m *Manager) transition(to State) {
	from := m.state
	if from == to {
		return
	}
	m.state = to
	m.log.Debug().Stringer("from", from).Stringer("to", to).Msg("session state change")
	if m.onState != nil {
		go m.onState(to)
	}
}
