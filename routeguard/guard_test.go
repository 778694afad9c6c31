package routeguard_test

import (
	"testing"

	"github.com/jrsteele09/go-condo-console/identity"
	"github.com/jrsteele09/go-condo-console/routeguard"
	"github.com/jrsteele09/go-condo-console/session"
	"github.com/stretchr/testify/require"
)

// fakeSession is a canned session view for guard tests.
type fakeSession struct {
	state session.State
	ident *identity.Identity
}

func (f *fakeSession) CurrentState() session.State {
	return f.state
}

func (f *fakeSession) CurrentIdentity() (identity.Identity, bool) {
	if f.ident == nil {
		return identity.Identity{}, false
	}
	return *f.ident, true
}

func TestCheck_LoadingWhileAuthenticating(t *testing.T) {
	guard := routeguard.New(&fakeSession{state: session.StateAuthenticating})

	got := guard.Check("/users", routeguard.Requirement{})

	require.Equal(t, routeguard.ShowLoading, got.Decision)
}

// TestCheck_RedirectsToLogin remembers the requested location for the
// post-login return, for both no-session states.
func TestCheck_RedirectsToLogin(t *testing.T) {
	for _, state := range []session.State{session.StateUnauthenticated, session.StateDead} {
		t.Run(state.String(), func(t *testing.T) {
			guard := routeguard.New(&fakeSession{state: state})

			got := guard.Check("/fines/42", routeguard.Requirement{RequiredRole: "Administrador"})

			require.Equal(t, routeguard.RedirectLogin, got.Decision)
			require.Equal(t, "/fines/42", got.ReturnTo)
		})
	}
}

// TestCheck_RoleGate covers the role-gate property: the screen renders
// iff the role matches the requirement or the staff override applies.
func TestCheck_RoleGate(t *testing.T) {
	tests := []struct {
		name       string
		roleName   string
		privileged bool
		required   string
		want       routeguard.Decision
	}{
		{"no requirement renders", "Residente", false, "", routeguard.Render},
		{"matching role renders", "Administrador", false, "Administrador", routeguard.Render},
		{"mismatched role redirects home", "Residente", false, "Administrador", routeguard.RedirectHome},
		{"staff override renders admin screen", "Soporte", true, "Administrador", routeguard.Render},
		{"staff override limited to admin", "Soporte", true, "Guardia", routeguard.RedirectHome},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			guard := routeguard.New(&fakeSession{
				state: session.StateAuthenticated,
				ident: &identity.Identity{RoleName: tc.roleName, IsPrivileged: tc.privileged},
			})

			got := guard.Check("/screen", routeguard.Requirement{RequiredRole: tc.required})

			require.Equal(t, tc.want, got.Decision)
		})
	}
}

// TestCheck_RendersWhileRenewing treats an in-flight renewal as an
// authenticated session; the request layer sorts the credential out.
func TestCheck_RendersWhileRenewing(t *testing.T) {
	guard := routeguard.New(&fakeSession{
		state: session.StateRenewing,
		ident: &identity.Identity{RoleName: "Administrador"},
	})

	got := guard.Check("/users", routeguard.Requirement{RequiredRole: "Administrador"})

	require.Equal(t, routeguard.Render, got.Decision)
}
