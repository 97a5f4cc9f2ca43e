package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and duration constants
const (
	// DefaultCommandTimeout bounds direct command execution
	DefaultCommandTimeout = 30 * time.Second
	// DefaultSandboxTimeout bounds sandboxed command execution
	DefaultSandboxTimeout = 60 * time.Second
	// DefaultConfirmTimeout bounds how long a request may wait for confirmation
	DefaultConfirmTimeout = 2 * time.Minute
	// RunnerGracePeriod is how long past its own deadline a runner may take
	// to tear down before the orchestrator stops waiting for it
	RunnerGracePeriod = 5 * time.Second
)

// Limit constants
const (
	// DefaultMaxOutputBytes caps captured stdout/stderr per stream
	DefaultMaxOutputBytes = 1 << 20
	// DefaultHistoryLimit is the default number of entries to display
	DefaultHistoryLimit = 20
	// DefaultProcessLimit caps processes inside a sandbox container
	DefaultProcessLimit = 64
)

// Sandbox defaults
const (
	// DefaultSandboxImage is used when no image is configured
	DefaultSandboxImage = "alpine:3.20"
	// DefaultMemoryLimit is the container memory cap
	DefaultMemoryLimit = "256m"
	// DefaultCPULimit is the container CPU cap
	DefaultCPULimit = "1.0"
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)

// SecondsOrDefault converts a config seconds value to a duration,
// substituting fallback when the value is unset.
func SecondsOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
