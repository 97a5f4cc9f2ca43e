// Package services contains the safety orchestrator that drives a command
// through classification, permission evaluation, confirmation, and
// execution.
package services

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/guardsh/internal/domain"
	"github.com/doeshing/guardsh/internal/ports"
)

// Orchestrator owns the per-command request lifecycle. One request flows
// through it at a time per call; concurrent calls for distinct sessions
// share no mutable state beyond the pending-confirmation registry, which
// is guarded by a mutex.
type Orchestrator struct {
	Classifier  ports.RiskClassifier
	Permissions ports.PermissionEvaluator
	Direct      ports.Runner
	Sandbox     ports.Runner
	Sessions    ports.SessionStore
	Audit       ports.AuditLogger
	Prompter    ports.ConfirmationPrompter
	Logger      ports.Logger
	Config      domain.Config

	// Platform overrides runtime.GOOS for permission evaluation; tests
	// use it to exercise foreign-platform rules.
	Platform string

	mu      sync.Mutex
	pending map[string]*pendingRequest
}

// request tracks one command through the state machine.
type request struct {
	id         string
	input      string
	command    string
	sessionID  string
	workingDir string
	assessment domain.RiskAssessment
	state      domain.PipelineState
	result     *domain.ExecutionResult
	received   time.Time
}

type pendingRequest struct {
	req   *request
	timer *time.Timer
}

// EvaluateAndExecute runs the full pipeline for one candidate command.
// Blocked and cancelled outcomes are regular terminal states, not errors;
// the returned error is reserved for runner unavailability and internal
// faults, and even those leave an audit entry behind.
func (o *Orchestrator) EvaluateAndExecute(ctx context.Context, input, command, sessionID string, autoConfirm bool) (domain.PipelineOutcome, error) {
	if o.Classifier == nil || o.Direct == nil {
		return domain.PipelineOutcome{}, errors.New("orchestrator dependencies not satisfied")
	}

	req := &request{
		id:        uuid.NewString(),
		input:     input,
		command:   command,
		sessionID: sessionID,
		received:  time.Now(),
	}
	req.workingDir = o.lookupWorkingDir(ctx, sessionID)
	o.transition(req, domain.StateReceived, map[string]interface{}{"command": command})

	assessment := o.Classifier.Classify(command)
	if o.Permissions != nil && !assessment.Blocked() &&
		o.Permissions.RequiresElevation(command, o.platform()) {
		// Assessments are immutable; derive a new one.
		elevated := assessment
		elevated.RequiresElevation = true
		assessment = elevated
	}
	req.assessment = assessment
	o.transition(req, domain.StateClassified, map[string]interface{}{
		"risk":      assessment.Level.String(),
		"elevation": assessment.RequiresElevation,
	})

	// Critical classifications and explicit rule blocks are terminal no
	// matter what the caller pre-authorized. A custom rule cannot allow a
	// critical-level command past this gate; no execution request ever
	// carries a critical assessment.
	if assessment.Level == domain.RiskCritical && !assessment.Blocked() {
		critical := assessment
		critical.BlockedReasons = []string{"critical risk level is never executed"}
		assessment = critical
		req.assessment = assessment
	}
	if assessment.Blocked() {
		return o.finish(ctx, req, domain.StateBlocked, nil), nil
	}

	if o.Config.Preferences.AutoConfirmLow && assessment.Level <= domain.RiskLow &&
		!assessment.RequiresElevation {
		autoConfirm = true
	}

	if (assessment.RequiresConfirmation || assessment.RequiresElevation) && !autoConfirm {
		if o.Prompter != nil && o.Prompter.Enabled() {
			granted, err := o.Prompter.Confirm(assessment, command)
			if err != nil || !granted {
				return o.finish(ctx, req, domain.StateCancelled, nil), nil
			}
		} else {
			return o.suspend(req), nil
		}
	}

	o.transition(req, domain.StateReady, nil)
	return o.execute(ctx, req)
}

// Confirm resolves a request suspended in AWAITING_CONFIRMATION. A denial
// or an unknown id never invokes a runner.
func (o *Orchestrator) Confirm(ctx context.Context, pendingID string, granted bool) (domain.PipelineOutcome, error) {
	p := o.takePending(pendingID)
	if p == nil {
		return domain.PipelineOutcome{}, domain.ErrUnknownPending
	}
	p.timer.Stop()
	if !granted {
		return o.finish(ctx, p.req, domain.StateCancelled, nil), nil
	}
	o.transition(p.req, domain.StateReady, nil)
	return o.execute(ctx, p.req)
}

// suspend parks a request awaiting external confirmation. The request
// cannot hold runner resources while parked, and it expires to CANCELLED
// so a stalled session never leaks a pending entry.
func (o *Orchestrator) suspend(req *request) domain.PipelineOutcome {
	pendingID := uuid.NewString()
	timeout := domain.SecondsOrDefault(o.Config.Security.ConfirmTimeoutSeconds, domain.DefaultConfirmTimeout)
	p := &pendingRequest{req: req}
	p.timer = time.AfterFunc(timeout, func() { o.expirePending(pendingID) })

	o.mu.Lock()
	if o.pending == nil {
		o.pending = make(map[string]*pendingRequest)
	}
	o.pending[pendingID] = p
	o.mu.Unlock()

	o.transition(req, domain.StateAwaitingConfirmation, map[string]interface{}{"pending_id": pendingID})
	return domain.PipelineOutcome{
		CorrelationID: req.id,
		State:         domain.StateAwaitingConfirmation,
		Assessment:    req.assessment,
		PendingID:     pendingID,
	}
}

func (o *Orchestrator) takePending(pendingID string) *pendingRequest {
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.pending[pendingID]
	if !ok {
		return nil
	}
	delete(o.pending, pendingID)
	return p
}

func (o *Orchestrator) expirePending(pendingID string) {
	p := o.takePending(pendingID)
	if p == nil {
		return
	}
	o.finish(context.Background(), p.req, domain.StateCancelled, nil)
}

// execute picks a runner and drives the EXECUTING phase to a terminal
// state. The orchestrator enforces its own deadline on top of whatever
// the runner claims, so a misbehaving runner cannot hang the pipeline.
func (o *Orchestrator) execute(ctx context.Context, req *request) (domain.PipelineOutcome, error) {
	execReq := o.buildExecutionRequest(req)
	o.transition(req, domain.StateExecuting, map[string]interface{}{"mode": string(execReq.Mode)})

	runCtx, cancel := context.WithTimeout(ctx, execReq.Timeout+domain.RunnerGracePeriod)
	defer cancel()

	runner := o.Direct
	if execReq.Mode == domain.ModeSandbox {
		runner = o.Sandbox
	}
	result, err := runner.Run(runCtx, execReq)

	if errors.Is(err, domain.ErrSandboxUnavailable) {
		if o.Config.Security.SandboxRequired {
			// Never silently fall back when sandboxing is mandatory.
			blocked := req.assessment
			blocked.BlockedReasons = append([]string{"sandbox required but container runtime unavailable"}, blocked.BlockedReasons...)
			req.assessment = blocked
			return o.finish(ctx, req, domain.StateBlocked, nil), nil
		}
		if o.Logger != nil {
			o.Logger.Warn("sandbox unavailable, falling back to direct execution", map[string]interface{}{
				"correlation_id": req.id,
			})
		}
		execReq.Mode = domain.ModeDirect
		result, err = o.Direct.Run(runCtx, execReq)
	}

	if err != nil {
		// Internal faults still produce a terminal state and an audit
		// entry; callers cannot skip bookkeeping via error returns.
		if result.Status == "" {
			result.Status = domain.StatusFailed
		}
		outcome := o.finish(ctx, req, stateForStatus(result.Status), &result)
		return outcome, fmt.Errorf("runner: %w", err)
	}
	return o.finish(ctx, req, stateForStatus(result.Status), &result), nil
}

func (o *Orchestrator) buildExecutionRequest(req *request) domain.ExecutionRequest {
	mode := domain.ModeDirect
	timeout := domain.SecondsOrDefault(o.Config.Execution.TimeoutSeconds, domain.DefaultCommandTimeout)
	spec := domain.SandboxSpecFromConfig(o.Config.Sandbox)
	if o.Sandbox != nil && o.Config.Sandbox.Enabled &&
		req.assessment.Level >= domain.ParseRiskLevel(o.Config.Sandbox.RiskThreshold) {
		mode = domain.ModeSandbox
		timeout = spec.Timeout
	}
	return domain.ExecutionRequest{
		Command:    req.command,
		Assessment: req.assessment,
		Mode:       mode,
		Timeout:    timeout,
		WorkingDir: req.workingDir,
		Sandbox:    spec,
	}
}

// finish records the terminal transition, appends the audit entry, and
// assembles the caller-facing outcome. Every terminal path funnels
// through here so the session log is always complete.
func (o *Orchestrator) finish(ctx context.Context, req *request, state domain.PipelineState, result *domain.ExecutionResult) domain.PipelineOutcome {
	req.result = result
	fields := map[string]interface{}{}
	if result != nil {
		fields["status"] = string(result.Status)
		fields["exit_code"] = result.ExitCode
	}
	o.transition(req, state, fields)
	o.appendEntry(ctx, req)
	return domain.PipelineOutcome{
		CorrelationID: req.id,
		State:         state,
		Assessment:    req.assessment,
		Result:        result,
	}
}

func (o *Orchestrator) appendEntry(ctx context.Context, req *request) {
	if o.Sessions == nil || req.sessionID == "" {
		return
	}
	entry := domain.CommandEntry{
		InputText:         req.input,
		Command:           req.command,
		RiskLevel:         req.assessment.Level,
		State:             req.state,
		AssessmentSummary: req.assessment.Summary(),
		Timestamp:         time.Now().UTC(),
	}
	if req.result != nil {
		entry.ResultSummary = req.result.Summary()
		entry.ExitCode = req.result.ExitCode
		entry.DurationMS = req.result.Duration.Milliseconds()
	} else {
		entry.ResultSummary = string(req.state)
	}
	if err := o.Sessions.Append(ctx, req.sessionID, entry); err != nil && o.Logger != nil {
		o.Logger.Error("append command entry", err, map[string]interface{}{
			"correlation_id": req.id,
			"session_id":     req.sessionID,
		})
	}
}

func (o *Orchestrator) transition(req *request, state domain.PipelineState, fields map[string]interface{}) {
	req.state = state
	if o.Audit != nil {
		o.Audit.Transition(req.id, state, fields)
	}
}

func (o *Orchestrator) lookupWorkingDir(ctx context.Context, sessionID string) string {
	if o.Sessions == nil || sessionID == "" {
		return ""
	}
	sess, err := o.Sessions.Get(ctx, sessionID)
	if err != nil {
		return ""
	}
	return sess.WorkingDir
}

func (o *Orchestrator) platform() string {
	if o.Platform != "" {
		return o.Platform
	}
	return runtime.GOOS
}

func stateForStatus(status domain.ExecutionStatus) domain.PipelineState {
	switch status {
	case domain.StatusSuccess:
		return domain.StateCompleted
	case domain.StatusTimeout:
		return domain.StateTimedOut
	case domain.StatusCancelled:
		return domain.StateCancelled
	default:
		return domain.StateFailed
	}
}
