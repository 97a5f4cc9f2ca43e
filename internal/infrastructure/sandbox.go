package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/guardsh/internal/domain"
	"github.com/doeshing/guardsh/internal/ports"
)

// containerWorkdir is where the request's working directory is mounted
// inside the sandbox container.
const containerWorkdir = "/workspace"

// SandboxRunner executes commands in single-use, resource-constrained
// containers via the docker CLI. Network is disabled and the working
// directory mounted read-only unless the spec says otherwise. Teardown
// runs on every exit path.
type SandboxRunner struct {
	cli       DockerCLI
	logger    ports.Logger
	maxOutput int
}

// NewSandboxRunner builds a runner on top of the given docker CLI.
func NewSandboxRunner(cli DockerCLI, logger ports.Logger, maxOutput int) *SandboxRunner {
	if cli == nil {
		cli = SystemDockerCLI{}
	}
	if maxOutput <= 0 {
		maxOutput = domain.DefaultMaxOutputBytes
	}
	return &SandboxRunner{cli: cli, logger: logger, maxOutput: maxOutput}
}

// Run implements ports.Runner. It fails with domain.ErrSandboxUnavailable
// when the container runtime is unreachable; the orchestrator decides
// whether that means fallback or block.
func (r *SandboxRunner) Run(ctx context.Context, req domain.ExecutionRequest) (domain.ExecutionResult, error) {
	if err := r.cli.CheckDaemon(); err != nil {
		return domain.ExecutionResult{}, fmt.Errorf("%w: %v", domain.ErrSandboxUnavailable, err)
	}

	spec := req.Sandbox
	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultSandboxTimeout
	}
	name := "guardsh-" + uuid.NewString()[:8]

	// Guaranteed teardown: the container is force-removed no matter how
	// this function exits.
	defer func() {
		if _, err := r.cli.Run("rm", "-f", name); err != nil && r.logger != nil {
			r.logger.Debug("container teardown", map[string]interface{}{
				"container": name,
				"error":     err.Error(),
			})
		}
	}()

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	stdout := newLimitWriter(r.maxOutput)
	stderr := newLimitWriter(r.maxOutput)
	args := buildRunArgs(name, req.Command, spec, req.WorkingDir)

	start := time.Now()
	err := r.cli.RunStreaming(runCtx, stdout, stderr, args...)
	result := domain.ExecutionResult{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Duration:  time.Since(start),
		Truncated: stdout.truncated || stderr.truncated,
		Sandboxed: true,
	}

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		// The wall-clock limit hit; make sure the container dies now
		// rather than at engine shutdown.
		if _, killErr := r.cli.Run("kill", name); killErr != nil && r.logger != nil {
			r.logger.Debug("container kill", map[string]interface{}{
				"container": name,
				"error":     killErr.Error(),
			})
		}
		result.Status = domain.StatusTimeout
		result.ExitCode = -1
		return result, nil
	case errors.Is(runCtx.Err(), context.Canceled):
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

// buildRunArgs assembles the docker run invocation for one request.
func buildRunArgs(name, command string, spec domain.SandboxSpec, workingDir string) []string {
	args := []string{"run", "--rm", "--name", name}
	if !spec.NetworkEnabled {
		args = append(args, "--network", "none")
	}
	if spec.MemoryLimit != "" {
		args = append(args, "--memory", spec.MemoryLimit)
	}
	if spec.CPULimit != "" {
		args = append(args, "--cpus", spec.CPULimit)
	}
	if spec.ProcessLimit > 0 {
		args = append(args, "--pids-limit", strconv.Itoa(spec.ProcessLimit))
	}
	if workingDir != "" {
		mount := workingDir + ":" + containerWorkdir
		if spec.Filesystem != domain.FilesystemReadWrite {
			mount += ":ro"
		}
		args = append(args, "-v", mount, "-w", containerWorkdir)
	}
	image := spec.Image
	if image == "" {
		image = domain.DefaultSandboxImage
	}
	args = append(args, image, "/bin/sh", "-c", command)
	return args
}

var _ ports.Runner = (*SandboxRunner)(nil)
