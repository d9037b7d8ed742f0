//go:build windows

package core

import "os/exec"

// Windows has no process groups reachable through os/exec; the default
// Cancel kills the direct child only.
func startInProcessGroup(cmd *exec.Cmd) {}

func killProcessGroup(cmd *exec.Cmd) error {
	return nil
}
