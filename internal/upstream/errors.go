package upstream

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrConflict is reported when the API refuses a change because other
	// records still reference the target (HTTP 409).
	ErrConflict = errors.New("upstream: conflict")
	// ErrUnauthorized covers a missing or expired API session.
	ErrUnauthorized = errors.New("upstream: session missing or expired")
	// ErrNotFound is reported for HTTP 404.
	ErrNotFound = errors.New("upstream: not found")
	// ErrInvalidCredentials is returned by Login when the API rejects the user.
	ErrInvalidCredentials = errors.New("upstream: invalid credentials")
	// ErrNoSession is returned by Login when the API accepted the form but issued no session cookie.
	ErrNoSession = errors.New("upstream: no session cookie issued")
)

// StatusError describes a non-2xx response from the inventory API.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream: %s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("upstream: %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Is maps status codes onto the package sentinels. The API answers an
// unauthenticated request with a redirect to its login page.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrConflict:
		return e.Status == http.StatusConflict
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden ||
			(e.Status >= 300 && e.Status < 400)
	}
	return false
}

// ResponseText returns the trimmed plain-text body the API attached to a failed call.
func ResponseText(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return strings.TrimSpace(statusErr.Body)
	}
	return ""
}

// StatusCode returns the HTTP status of a failed call, 0 for transport errors.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status
	}
	return 0
}
