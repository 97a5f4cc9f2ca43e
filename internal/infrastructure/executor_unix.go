//go:build !windows

package infrastructure

import (
	"os/exec"
	"syscall"
)

const (
	defaultShell = "/bin/sh"
	shellFlag    = "-c"
)

// setProcessGroup places the child in its own process group so signals can
// reach every descendant.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminateTree kills the whole process group of the child.
func terminateTree(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	pgid, err := syscall.Getpgid(cmd.Process.Pid)
	if err != nil {
		return cmd.Process.Kill()
	}
	return syscall.Kill(-pgid, syscall.SIGKILL)
}
