package infrastructure

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"
)

// DockerCLI abstracts the docker binary for testing. It is runtime-agnostic
// and works with any docker-compatible CLI (Docker Desktop, Podman with the
// docker shim, Colima, etc.); runtime selection happens through the normal
// DOCKER_HOST / context mechanisms.
type DockerCLI interface {
	// CheckDaemon verifies the container daemon is running and accessible.
	CheckDaemon() error

	// Run executes a docker CLI command and returns stdout.
	Run(args ...string) (string, error)

	// RunStreaming executes a docker CLI command under ctx, streaming
	// stdout and stderr into the given writers.
	RunStreaming(ctx context.Context, stdout, stderr io.Writer, args ...string) error
}

// DockerCommandError represents a failed docker command with stderr output.
type DockerCommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *DockerCommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("docker %v failed: %v\nstderr: %s", e.Args, e.Err, e.Stderr)
	}
	return fmt.Sprintf("docker %v failed: %v", e.Args, e.Err)
}

func (e *DockerCommandError) Unwrap() error {
	return e.Err
}

// SystemDockerCLI implements DockerCLI using the real docker binary in PATH.
type SystemDockerCLI struct{}

// CheckDaemon implements DockerCLI.
func (SystemDockerCLI) CheckDaemon() error {
	if _, err := (SystemDockerCLI{}).Run("version", "--format", "{{.Server.Version}}"); err != nil {
		return fmt.Errorf("docker daemon not reachable: %w", err)
	}
	return nil
}

// Run implements DockerCLI.
func (SystemDockerCLI) Run(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", &DockerCommandError{Args: args, Stderr: stderr.String(), Err: err}
	}
	return stdout.String(), nil
}

// RunStreaming implements DockerCLI.
func (SystemDockerCLI) RunStreaming(ctx context.Context, stdout, stderr io.Writer, args ...string) error {
	cmd := exec.CommandContext(ctx, "docker", args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = 5 * time.Second
	return cmd.Run()
}

var _ DockerCLI = SystemDockerCLI{}
