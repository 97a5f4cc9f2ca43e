package domain

import (
	"testing"
	"time"
)

func TestTerminalStates(t *testing.T) {
	terminal := []PipelineState{StateBlocked, StateCompleted, StateFailed, StateTimedOut, StateCancelled}
	for _, state := range terminal {
		if !state.Terminal() {
			t.Errorf("%s should be terminal", state)
		}
	}
	transient := []PipelineState{StateReceived, StateClassified, StateAwaitingConfirmation, StateReady, StateExecuting}
	for _, state := range transient {
		if state.Terminal() {
			t.Errorf("%s should not be terminal", state)
		}
	}
}

func TestSecondsOrDefault(t *testing.T) {
	if got := SecondsOrDefault(0, DefaultCommandTimeout); got != DefaultCommandTimeout {
		t.Fatalf("unset value should fall back, got %v", got)
	}
	if got := SecondsOrDefault(-5, DefaultCommandTimeout); got != DefaultCommandTimeout {
		t.Fatalf("negative value should fall back, got %v", got)
	}
	if got := SecondsOrDefault(90, DefaultCommandTimeout); got != 90*time.Second {
		t.Fatalf("explicit value should win, got %v", got)
	}
}

func TestSandboxSpecFromConfigDefaults(t *testing.T) {
	spec := SandboxSpecFromConfig(SandboxSettings{})
	if spec.Image != DefaultSandboxImage {
		t.Fatalf("expected default image, got %q", spec.Image)
	}
	if spec.Filesystem != FilesystemReadOnly {
		t.Fatalf("filesystem must default read-only, got %q", spec.Filesystem)
	}
	if spec.NetworkEnabled {
		t.Fatal("network must default disabled")
	}
	if spec.Timeout != DefaultSandboxTimeout {
		t.Fatalf("expected default timeout, got %v", spec.Timeout)
	}

	custom := SandboxSpecFromConfig(SandboxSettings{
		Image:          "debian:12",
		Filesystem:     string(FilesystemReadWrite),
		TimeoutSeconds: 10,
	})
	if custom.Image != "debian:12" || custom.Filesystem != FilesystemReadWrite || custom.Timeout != 10*time.Second {
		t.Fatalf("explicit settings should win, got %+v", custom)
	}
}
