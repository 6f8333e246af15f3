package diffusion

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Error is a failure reported by the generation server. Transient failures
// (resource exhaustion, timeouts) may be retried; validation failures must
// not be.
type Error struct {
	Status    int
	Message   string
	Transient bool
}

func (e *Error) Error() string {
	kind := "non-transient"
	if e.Transient {
		kind = "transient"
	}
	if e.Status != 0 {
		return fmt.Sprintf("generation server: %s failure (status %d): %s", kind, e.Status, e.Message)
	}
	return fmt.Sprintf("generation server: %s failure: %s", kind, e.Message)
}

// IsTransient reports whether err is worth retrying: a transient server
// Error, a network failure, or a deadline expiry.
func IsTransient(err error) bool {
	var genErr *Error
	if errors.As(err, &genErr) {
		return genErr.Transient
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
