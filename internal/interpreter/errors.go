package interpreter

import (
	"errors"
)

// ErrNotConfigured means no API key is set, so the remote path can never
// succeed. Callers surface this distinctly from transport failures.
var ErrNotConfigured = errors.New("interpretation service not configured")

// CriticalError marks failures the caller must see: missing credentials,
// transport failure, or an unavailable service. Everything else is
// recoverable and silently replaced by the fallback engine's output.
type CriticalError struct {
	err error
}

func (e *CriticalError) Error() string {
	return e.err.Error()
}

func (e *CriticalError) Unwrap() error {
	return e.err
}

// NewCriticalError wraps an error as critical (must surface to the caller).
func NewCriticalError(err error) error {
	return &CriticalError{err: err}
}

// IsCritical reports whether err carries a CriticalError anywhere in its
// chain.
func IsCritical(err error) bool {
	var critical *CriticalError
	return errors.As(err, &critical)
}
