package domain

import (
	"errors"
	"strings"
)

// ErrSandboxUnavailable indicates the container runtime cannot be reached.
// When sandboxing is mandatory the orchestrator escalates this to a block
// rather than silently falling back to direct execution.
var ErrSandboxUnavailable = errors.New("sandbox runtime unavailable")

// ErrUnknownPending indicates a Confirm call referenced a pending id that
// does not exist or has already been resolved.
var ErrUnknownPending = errors.New("unknown or expired pending confirmation")

// ErrSessionNotFound indicates a session id is not present in the store.
var ErrSessionNotFound = errors.New("session not found")

// BlockedError carries the policy reasons a command was denied. It is
// never retried and is surfaced verbatim to the caller.
type BlockedError struct {
	Command string
	Reasons []string
}

func (e *BlockedError) Error() string {
	return "command blocked by policy: " + strings.Join(e.Reasons, "; ")
}
