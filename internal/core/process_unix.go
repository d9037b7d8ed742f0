//go:build !windows

package core

import (
	"errors"
	"os/exec"
	"syscall"
)

// startInProcessGroup puts the job in its own process group so cancellation
// kills everything it spawned, not just the direct child.
func startInProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return killProcessGroup(cmd)
	}
}

// killProcessGroup kills the job's process group. It is a no-op once the
// whole group has exited.
func killProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	if errors.Is(err, syscall.ESRCH) {
		return nil
	}
	return err
}
