//go:build unix

package graders

import (
	"os/exec"
	"syscall"
)

// killProcessGroup runs cmd in its own process group so that cancelling it
// also kills any children still holding its stdout.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
