package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrUpstream     = errors.New("upstream failure")

	// ErrNoFinancialData marks a company without financial snapshots.
	ErrNoFinancialData = fmt.Errorf("%w: no financial data", ErrNotFound)
)

// UpstreamError is returned when the ML service answers with a non-2xx status,
// cannot be reached, or its circuit is open. StatusCode is 0 for transport errors.
type UpstreamError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: upstream status=%d", e.Op, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op + ": upstream failure"
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// ClientStatus reports the remote 4xx status that should be passed through to
// our own caller, if any.
func (e *UpstreamError) ClientStatus() (int, bool) {
	if e.StatusCode >= 400 && e.StatusCode < 500 {
		return e.StatusCode, true
	}
	return 0, false
}

func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
