package domain

import "time"

// ExecutionMode selects which runner carries out a request.
type ExecutionMode string

const (
	ModeDirect  ExecutionMode = "direct"
	ModeSandbox ExecutionMode = "sandbox"
)

// ExecutionStatus is the terminal status of one execution.
type ExecutionStatus string

const (
	StatusSuccess   ExecutionStatus = "success"
	StatusFailed    ExecutionStatus = "failed"
	StatusTimeout   ExecutionStatus = "timeout"
	StatusCancelled ExecutionStatus = "cancelled"
)

// ExecutionRequest is created by the orchestrator only after the blocking
// and confirmation gates have passed. A request never carries a critical
// assessment; critical commands are blocked before this point.
type ExecutionRequest struct {
	Command    string
	Assessment RiskAssessment
	Mode       ExecutionMode
	Timeout    time.Duration
	WorkingDir string
	Sandbox    SandboxSpec
}

// ExecutionResult is the single, immutable outcome of one request.
// Interrupted runs still yield a terminal result (timeout or cancelled).
type ExecutionResult struct {
	Success   bool
	Stdout    string
	Stderr    string
	ExitCode  int
	Duration  time.Duration
	Status    ExecutionStatus
	Truncated bool
	Sandboxed bool
}

// Summary renders a short single-line description for audit entries.
func (r ExecutionResult) Summary() string {
	if r.Status == StatusSuccess {
		return "success"
	}
	return string(r.Status)
}
