package routeguard

import (
	"github.com/jrsteele09/go-condo-console/identity"
	"github.com/jrsteele09/go-condo-console/session"
)

// Decision is what the shell should do with a protected screen.
type Decision int

const (
	// ShowLoading: the session manager is still establishing a session
	// (login or reload-time restore); render a placeholder.
	ShowLoading Decision = iota

	// RedirectLogin: no session. Result.ReturnTo carries the originally
	// requested location so the shell can come back after login.
	RedirectLogin

	// RedirectHome: a session exists but its role does not satisfy the
	// screen's requirement; send the user to the default landing screen.
	RedirectHome

	// Render: requirement satisfied (or no requirement); show the screen.
	Render
)

func (d Decision) String() string {
	switch d {
	case ShowLoading:
		return "show-loading"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	case Render:
		return "render"
	}
	return "unknown"
}

// Requirement is the role a protected screen demands. Empty means any
// authenticated user may render it.
type Requirement struct {
	RequiredRole string
}

// Result is a guard decision plus the location to return to after login.
type Result struct {
	Decision Decision
	ReturnTo string
}

// Session is the read-only session view the guard consults.
type Session interface {
	CurrentState() session.State
	CurrentIdentity() (identity.Identity, bool)
}

// Guard decides whether a protected screen renders. It holds no state of
// its own; every check reads the session manager fresh.
type Guard struct {
	sess Session
}

// New creates a guard over the given session view.
func New(sess Session) *Guard {
	return &Guard{sess: sess}
}

// Check evaluates a navigation to location against the screen's role
// requirement.
func (g *Guard) Check(location string, req Requirement) Result {
	switch g.sess.CurrentState() {
	case session.StateAuthenticating:
		return Result{Decision: ShowLoading}

	case session.StateAuthenticated, session.StateRenewing:
		ident, ok := g.sess.CurrentIdentity()
		if !ok {
			return Result{Decision: RedirectLogin, ReturnTo: location}
		}
		if ident.SatisfiesRole(req.RequiredRole) {
			return Result{Decision: Render}
		}
		return Result{Decision: RedirectHome}

	default: // unauthenticated or dead
		return Result{Decision: RedirectLogin, ReturnTo: location}
	}
}
