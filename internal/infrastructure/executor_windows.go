//go:build windows

package infrastructure

import (
	"os/exec"
	"strconv"
)

const (
	defaultShell = "powershell"
	shellFlag    = "-Command"
)

func setProcessGroup(_ *exec.Cmd) {}

// terminateTree uses taskkill to bring down the child and its descendants.
func terminateTree(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	kill := exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(cmd.Process.Pid))
	if err := kill.Run(); err != nil {
		return cmd.Process.Kill()
	}
	return nil
}
