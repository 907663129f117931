//go:build !unix

package graders

import "os/exec"

func killProcessGroup(cmd *exec.Cmd) {}
