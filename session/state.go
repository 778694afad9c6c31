package session

// State is the session lifecycle state. There is exactly one per
// Manager, and only the Manager mutates it.
type State int

const (
	// StateUnauthenticated means no credential and no identity.
	StateUnauthenticated State = iota

	// StateAuthenticating means a login or a reload-time restore is in
	// flight; route guards show a loading placeholder.
	StateAuthenticating

	// StateAuthenticated means a credential and identity are held.
	StateAuthenticated

	// StateRenewing means exactly one refresh call is in flight and
	// callers needing a fresh credential are attached to its outcome.
	StateRenewing

	// StateDead means renewal failed. Terminal for this session
	// instance: storage is cleared and nothing is retried afterwards.
	StateDead
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateRenewing:
		return "renewing"
	case StateDead:
		return "dead"
	}
	return "unknown"
}
