// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the safety pipeline and
// external adapters (infrastructure). The orchestrator depends only on these
// abstractions; concrete runners, stores, and the translator are selected at
// construction time.
package ports

import (
	"context"

	"github.com/doeshing/guardsh/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.guardsh/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// Translator converts natural-language intent into a candidate command.
// The returned confidence is informational only; gating execution is the
// risk classifier's responsibility.
type Translator interface {
	Translate(ctx context.Context, text string, session domain.Session) (domain.Candidate, error)
}

// RiskClassifier evaluates a command against the active rule set.
// Classification is a pure function of the rule set and the input; the same
// command classified twice against an unchanged rule set yields identical
// assessments.
type RiskClassifier interface {
	Classify(command string) domain.RiskAssessment
}

// PermissionEvaluator detects commands that need elevated privileges on the
// given platform. It never blocks by itself; it only informs the
// confirmation gate.
type PermissionEvaluator interface {
	RequiresElevation(command, platform string) bool
}

// Runner executes one command and yields exactly one terminal result.
// Implementations must honor ctx cancellation and deadlines with
// best-effort prompt termination of the underlying process or container.
type Runner interface {
	Run(ctx context.Context, req domain.ExecutionRequest) (domain.ExecutionResult, error)
}

// SessionStore owns sessions and their append-only command logs.
type SessionStore interface {
	Start(ctx context.Context, userID, workingDir string, env map[string]string) (domain.Session, error)
	Get(ctx context.Context, id string) (domain.Session, error)
	List(ctx context.Context, limit int) ([]domain.Session, error)
	Append(ctx context.Context, sessionID string, entry domain.CommandEntry) error
	Entries(ctx context.Context, sessionID string, limit int) ([]domain.CommandEntry, error)
	Terminate(ctx context.Context, id string) error
	Clear(ctx context.Context, sessionID string) error
}

// AuditLogger receives one structured event per pipeline state transition,
// keyed by the correlation id generated once per request.
type AuditLogger interface {
	Transition(correlationID string, state domain.PipelineState, fields map[string]interface{})
}

// ConfirmationPrompter handles interactive user confirmations for risky
// operations. Enabled reports whether a prompt can actually be shown; when
// false the orchestrator suspends the request instead of prompting.
type ConfirmationPrompter interface {
	Confirm(assessment domain.RiskAssessment, command string) (bool, error)
	Enabled() bool
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
