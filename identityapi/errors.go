package identityapi

import "errors"

// Error taxonomy for Identity API calls. The session manager and request
// gateway branch on these with errors.Is; everything else is wrapped
// transport trouble.
var (
	// ErrInvalidCredentials covers a rejected login (bad username or
	// password). The server's human-readable detail, when present, is
	// wrapped around it.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized is a 401 on an authenticated call: the access
	// token was rejected.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is a 403: authenticated, but not permitted. Never
	// triggers a renewal.
	ErrForbidden = errors.New("forbidden")

	// ErrRefreshRejected is a 401 from the refresh endpoint: the refresh
	// token itself is expired or invalid.
	ErrRefreshRejected = errors.New("refresh token rejected")
)
