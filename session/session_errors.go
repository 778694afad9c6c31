package session

import "errors"

var (
	// ErrSessionDead is the single terminal error every consumer sees
	// when renewal fails or the session is logged out under an in-flight
	// renewal. The shell handles it once, by returning to the login
	// screen.
	ErrSessionDead = errors.New("session dead")

	// ErrNotAuthenticated is returned when an operation needs an
	// established session and there is none.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrAuthInProgress is returned when a login is attempted while a
	// login or restore is already running.
	ErrAuthInProgress = errors.New("authentication already in progress")
)
