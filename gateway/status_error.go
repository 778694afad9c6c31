package gateway

import (
	"fmt"
	"net/http"
)

// StatusError is a non-2xx backend response that the gateway does not
// handle itself. The raw body is preserved so form screens can display
// field-level validation messages without the gateway interpreting them.
type StatusError struct {
	StatusCode int
	Body       []byte
	RequestID  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d (request %s)", e.StatusCode, e.RequestID)
}

// IsValidation reports a 400: field-level errors for the calling screen.
func (e *StatusError) IsValidation() bool {
	return e.StatusCode == http.StatusBadRequest
}

// IsForbidden reports a 403: authenticated but not permitted. Handled
// locally by the screen; the session stays valid.
func (e *StatusError) IsForbidden() bool {
	return e.StatusCode == http.StatusForbidden
}

// IsUnauthorized reports a 401 that survived the renew-and-retry
// protocol (the retried request was rejected again).
func (e *StatusError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}
