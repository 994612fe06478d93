package papers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNetwork marks transport failures where no response arrived.
	ErrNetwork = errors.New("network error")
	// ErrNotFound marks a paper id the backend does not recognise.
	ErrNotFound = errors.New("paper not found")
	// ErrExplanationUnavailable marks an explanation request where one of the
	// two papers could not be resolved server-side.
	ErrExplanationUnavailable = errors.New("explanation unavailable")
)

// ServerError is a non-2xx response, or a 2xx response whose payload could not be used.
type ServerError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ServerError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("paper API error: %s", e.Status)
	}
	return fmt.Sprintf("paper API error: %s (%s)", e.Status, body)
}

// IsServerError reports whether err carries a *ServerError.
func IsServerError(err error) bool {
	var serverErr *ServerError
	return errors.As(err, &serverErr)
}

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func malformed(format string, args ...any) error {
	return &ServerError{
		StatusCode: http.StatusOK,
		Status:     "malformed response",
		Body:       fmt.Sprintf(format, args...),
	}
}

// unavailableMarkers are the in-band texts the backend returns with a 200 when it
// could not resolve a paper for an explanation.
var unavailableMarkers = []string{
	"one of the papers was not found",
	"one of the papers could not be found",
}

func explanationLooksUnavailable(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return true
	}
	for _, marker := range unavailableMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
