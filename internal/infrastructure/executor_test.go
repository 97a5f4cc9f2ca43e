//go:build !windows

package infrastructure

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/doeshing/guardsh/internal/domain"
)

func TestDirectRunnerSuccess(t *testing.T) {
	runner := NewDirectRunner("/bin/sh", 0)

	result, err := runner.Run(context.Background(), domain.ExecutionRequest{
		Command: "echo hello",
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !result.Success || result.Status != domain.StatusSuccess {
		t.Fatalf("expected success, got %+v", result)
	}
	if strings.TrimSpace(result.Stdout) != "hello" {
		t.Fatalf("unexpected stdout %q", result.Stdout)
	}
	if result.ExitCode != 0 {
		t.Fatalf("unexpected exit code %d", result.ExitCode)
	}
}

func TestDirectRunnerNonZeroExit(t *testing.T) {
	runner := NewDirectRunner("/bin/sh", 0)

	result, err := runner.Run(context.Background(), domain.ExecutionRequest{
		Command: "echo oops >&2; exit 3",
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("non-zero exit must not be an error: %v", err)
	}
	if result.Success || result.Status != domain.StatusFailed {
		t.Fatalf("expected failed status, got %+v", result)
	}
	if result.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", result.ExitCode)
	}
	if !strings.Contains(result.Stderr, "oops") {
		t.Fatalf("expected stderr capture, got %q", result.Stderr)
	}
}

func TestDirectRunnerTimeout(t *testing.T) {
	runner := NewDirectRunner("/bin/sh", 0)

	start := time.Now()
	result, err := runner.Run(context.Background(), domain.ExecutionRequest{
		Command: "sleep 30",
		Timeout: 200 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if result.Status != domain.StatusTimeout {
		t.Fatalf("expected timeout status, got %+v", result)
	}
	if result.Success {
		t.Fatal("timed out command must not report success")
	}
	// The process group kill must not wait for the child's own sleep.
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("timeout took too long: %v", elapsed)
	}
}

func TestDirectRunnerWorkingDir(t *testing.T) {
	runner := NewDirectRunner("/bin/sh", 0)
	dir := t.TempDir()

	result, err := runner.Run(context.Background(), domain.ExecutionRequest{
		Command:    "pwd",
		Timeout:    5 * time.Second,
		WorkingDir: dir,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !strings.Contains(result.Stdout, dir) {
		t.Fatalf("expected pwd output to contain %q, got %q", dir, result.Stdout)
	}
}

func TestDirectRunnerTruncatesOutput(t *testing.T) {
	runner := NewDirectRunner("/bin/sh", 64)

	result, err := runner.Run(context.Background(), domain.ExecutionRequest{
		Command: "yes x | head -c 4096",
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !result.Truncated {
		t.Fatalf("expected truncated output, got %+v", result)
	}
	if len(result.Stdout) > 64 {
		t.Fatalf("stdout exceeds cap: %d bytes", len(result.Stdout))
	}
}
