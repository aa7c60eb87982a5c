// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Process handling for scaffold commands on Windows

//go:build windows

package exec

import (
	"os"
	"os/exec"
)

// setPlatformProcessGroup is a no-op: Windows has no Unix-style process groups.
func setPlatformProcessGroup(cmd *exec.Cmd) {}

// interruptProcessGroup has no console Ctrl+C equivalent, so it terminates.
func interruptProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}

// killProcessGroup terminates the process via TerminateProcess.
func killProcessGroup(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return nil
	}
	if err := p.Kill(); err != nil && err != os.ErrProcessDone {
		return err
	}
	return nil
}
