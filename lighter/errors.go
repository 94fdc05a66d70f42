package lighter

import (
	"errors"
	"fmt"
)

// ErrClientClosed is returned by requests issued after Close.
var ErrClientClosed = errors.New("lighter: client closed")

// APIError is a remote-side failure: a non-2xx status or a body whose code is
// not 200.
type APIError struct {
	Endpoint   string
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("lighter %s: status %d code %d: %s", e.Endpoint, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("lighter %s: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

// IsAPIError reports whether err carries an *APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
