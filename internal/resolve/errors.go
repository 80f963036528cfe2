package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Failure taxonomy for one adapter attempt. Every Fetch error maps onto
// exactly one reason; all reasons advance the fallback chain.
var (
	// ErrNotFound indicates the provider has no record for the key.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited indicates the provider rejected the request for quota
	// reasons. Reported distinctly from not-found so the user can tell a
	// missing record from a throttled run.
	ErrRateLimited = errors.New("rate limited")

	// ErrAuthRequired indicates a missing or rejected credential.
	ErrAuthRequired = errors.New("authentication required")

	// ErrTransport indicates a network failure or timeout.
	ErrTransport = errors.New("transport error")

	// ErrMalformed indicates the provider responded with something that
	// could not be parsed into an entry.
	ErrMalformed = errors.New("malformed response")
)

// Reason is the reported classification of a failed adapter attempt.
type Reason string

const (
	ReasonNotFound     Reason = "not-found"
	ReasonRateLimited  Reason = "rate-limited"
	ReasonAuthRequired Reason = "auth-required"
	ReasonTransport    Reason = "transport"
	ReasonMalformed    Reason = "malformed"
)

// ReasonOf classifies an adapter error. Timeouts and unrecognized errors
// count as transport failures.
func ReasonOf(err error) Reason {
	switch {
	case errors.Is(err, ErrNotFound):
		return ReasonNotFound
	case errors.Is(err, ErrRateLimited):
		return ReasonRateLimited
	case errors.Is(err, ErrAuthRequired):
		return ReasonAuthRequired
	case errors.Is(err, ErrMalformed):
		return ReasonMalformed
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ReasonTransport
	default:
		return ReasonTransport
	}
}

// KeyTypeError is the fatal precondition failure raised when key-type
// enforcement finds keys whose format disagrees with the enforced type.
// It aborts the entire run before any fetch.
type KeyTypeError struct {
	Enforced string
	Keys     []string
}

func (e *KeyTypeError) Error() string {
	return fmt.Sprintf("%d key(s) do not match enforced key type %q: %s",
		len(e.Keys), e.Enforced, strings.Join(e.Keys, ", "))
}
