package entity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAddress is returned for an empty or blank wallet address before
// any network call is made.
var ErrInvalidAddress = errors.New("invalid wallet address")

// EndpointAttempt records why a single ledger endpoint failed.
type EndpointAttempt struct {
	Endpoint string
	Reason   string
}

// LedgerUnavailableError means every configured ledger endpoint failed or
// returned a protocol-level error. It is the only upstream failure that is
// fatal to a holdings request.
type LedgerUnavailableError struct {
	Method   string
	Attempts []EndpointAttempt
}

func (e *LedgerUnavailableError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %s", a.Endpoint, a.Reason))
	}
	return fmt.Sprintf("ledger unavailable for %s: [%s]", e.Method, strings.Join(parts, "; "))
}

// UpstreamError is a non-2xx answer from any upstream HTTP provider.
type UpstreamError struct {
	Status      int
	BodySnippet string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.Status, e.BodySnippet)
}

// IsLedgerUnavailable reports whether err is (or wraps) a LedgerUnavailableError.
func IsLedgerUnavailable(err error) bool {
	var le *LedgerUnavailableError
	return errors.As(err, &le)
}
