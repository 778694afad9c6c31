package apifake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-condo-console/credentials"
	"github.com/jrsteele09/go-condo-console/identity"
	"github.com/pkg/errors"
)

// FakeIdentityAPI is an in-memory session.API for tests. Behaviour is
// injected per call via the Func fields; every call is counted so tests
// can assert, for example, that a herd of 401s produced exactly one
// refresh call.
type FakeIdentityAPI struct {
	mu sync.Mutex

	LoginFunc   func(ctx context.Context, usernameOrEmail, password string) (credentials.Credential, identity.Identity, error)
	RefreshFunc func(ctx context.Context, refreshToken string) (string, error)
	LogoutFunc  func(ctx context.Context, refreshToken string) error
	ProfileFunc func(ctx context.Context, accessToken string) (identity.Identity, error)

	loginCalls   int
	refreshCalls int
	logoutCalls  int
	profileCalls int
}

// NewFakeIdentityAPI creates a fake whose every endpoint errors until a
// Func field is set.
func NewFakeIdentityAPI() *FakeIdentityAPI {
	return &FakeIdentityAPI{}
}

func (f *FakeIdentityAPI) Login(ctx context.Context, usernameOrEmail, password string) (credentials.Credential, identity.Identity, error) {
	f.mu.Lock()
	f.loginCalls++
	fn := f.LoginFunc
	f.mu.Unlock()
	if fn == nil {
		return credentials.Credential{}, identity.Identity{}, errors.New("fake: LoginFunc not set")
	}
	return fn(ctx, usernameOrEmail, password)
}

func (f *FakeIdentityAPI) Refresh(ctx context.Context, refreshToken string) (string, error) {
	f.mu.Lock()
	f.refreshCalls++
	fn := f.RefreshFunc
	f.mu.Unlock()
	if fn == nil {
		return "", errors.New("fake: RefreshFunc not set")
	}
	return fn(ctx, refreshToken)
}

func (f *FakeIdentityAPI) Logout(ctx context.Context, refreshToken string) error {
	f.mu.Lock()
	f.logoutCalls++
	fn := f.LogoutFunc
	f.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(ctx, refreshToken)
}

func (f *FakeIdentityAPI) Profile(ctx context.Context, accessToken string) (identity.Identity, error) {
	f.mu.Lock()
	f.profileCalls++
	fn := f.ProfileFunc
	f.mu.Unlock()
	if fn == nil {
		return identity.Identity{}, errors.New("fake: ProfileFunc not set")
	}
	return fn(ctx, accessToken)
}

// LoginCalls returns the number of Login invocations.
func (f *FakeIdentityAPI) LoginCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginCalls
}

// RefreshCalls returns the number of Refresh invocations.
func (f *FakeIdentityAPI) RefreshCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshCalls
}

// LogoutCalls returns the number of Logout invocations.
func (f *FakeIdentityAPI) LogoutCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logoutCalls
}

// ProfileCalls returns the number of Profile invocations.
func (f *FakeIdentityAPI) ProfileCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profileCalls
}
