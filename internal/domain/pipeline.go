package domain

// PipelineState is one state of the per-command safety pipeline.
type PipelineState string

const (
	StateReceived             PipelineState = "received"
	StateClassified           PipelineState = "classified"
	StateBlocked              PipelineState = "blocked"
	StateAwaitingConfirmation PipelineState = "awaiting_confirmation"
	StateReady                PipelineState = "ready"
	StateExecuting            PipelineState = "executing"
	StateCompleted            PipelineState = "completed"
	StateFailed               PipelineState = "failed"
	StateTimedOut             PipelineState = "timed_out"
	StateCancelled            PipelineState = "cancelled"
)

// Terminal reports whether the pipeline has reached a final state.
func (s PipelineState) Terminal() bool {
	switch s {
	case StateBlocked, StateCompleted, StateFailed, StateTimedOut, StateCancelled:
		return true
	}
	return false
}

// PipelineOutcome is what the orchestrator returns to the caller for one
// command. When State is StateAwaitingConfirmation, PendingID identifies
// the suspended request for a later Confirm call; otherwise the state is
// terminal and Result is set for executed commands.
type PipelineOutcome struct {
	CorrelationID string
	State         PipelineState
	Assessment    RiskAssessment
	Result        *ExecutionResult
	PendingID     string
}

// Candidate is the translator's proposal for a natural-language request.
// Confidence is informational only and never gates execution.
type Candidate struct {
	Command     string
	Confidence  float64
	Explanation string
}
