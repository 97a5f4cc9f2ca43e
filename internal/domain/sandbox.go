package domain

import "time"

// FilesystemMode controls how the working directory is mounted into a
// sandbox container.
type FilesystemMode string

const (
	FilesystemReadOnly  FilesystemMode = "readonly"
	FilesystemReadWrite FilesystemMode = "readwrite"
)

// SandboxSpec describes the container a sandboxed command runs in.
// The spec is read-only at request time; per-request overrides produce a
// new value.
type SandboxSpec struct {
	Image          string
	MemoryLimit    string
	CPULimit       string
	ProcessLimit   int
	NetworkEnabled bool
	Filesystem     FilesystemMode
	Timeout        time.Duration
}
