package infrastructure

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/doeshing/guardsh/internal/domain"
	"github.com/doeshing/guardsh/internal/ports"
)

// DirectRunner executes commands on the host shell with timeout and
// size-bounded output capture. On timeout it terminates the whole process
// tree, not just the immediate child.
type DirectRunner struct {
	shell     string
	maxOutput int
}

// NewDirectRunner builds a runner. The shell defaults to $SHELL and then
// to the platform default.
func NewDirectRunner(shell string, maxOutput int) *DirectRunner {
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = defaultShell
	}
	if maxOutput <= 0 {
		maxOutput = domain.DefaultMaxOutputBytes
	}
	return &DirectRunner{shell: shell, maxOutput: maxOutput}
}

// Run implements ports.Runner. A non-zero exit is a normal outcome with
// Success=false; only spawn failures are returned as errors.
func (r *DirectRunner) Run(ctx context.Context, req domain.ExecutionRequest) (domain.ExecutionResult, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.shell, shellFlag, req.Command)
	if req.WorkingDir != "" {
		cmd.Dir = req.WorkingDir
	}
	stdout := newLimitWriter(r.maxOutput)
	stderr := newLimitWriter(r.maxOutput)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	// Run the child in its own process group so cancellation reaches the
	// whole tree, then give teardown a bounded grace period.
	setProcessGroup(cmd)
	cmd.Cancel = func() error { return terminateTree(cmd) }
	cmd.WaitDelay = domain.RunnerGracePeriod

	start := time.Now()
	err := cmd.Run()
	result := domain.ExecutionResult{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Duration:  time.Since(start),
		Truncated: stdout.truncated || stderr.truncated,
	}

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		result.Status = domain.StatusTimeout
		result.ExitCode = -1
		return result, nil
	case errors.Is(ctx.Err(), context.Canceled):
		result.Status = domain.StatusCancelled
		result.ExitCode = -1
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.Status = domain.StatusFailed
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	if err != nil {
		result.Status = domain.StatusFailed
		result.ExitCode = -1
		return result, err
	}
	result.Status = domain.StatusSuccess
	result.Success = true
	return result, nil
}

var _ ports.Runner = (*DirectRunner)(nil)
