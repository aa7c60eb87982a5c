// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Process group handling for scaffold commands on Unix

//go:build !windows

package exec

import (
	"errors"
	"os/exec"
	"syscall"
)

// setPlatformProcessGroup starts the child as leader of a fresh process group
// (pgid == child pid) so that package manager helpers (node, esbuild,
// postinstall scripts) can be signalled together.
func setPlatformProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true, Pgid: 0}
}

// signalProcessGroup delivers sig to every process in the group led by pid.
// The group outlives its leader, so this works after the leader was reaped.
func signalProcessGroup(pid int, sig syscall.Signal) error {
	if pid <= 0 {
		return nil
	}
	err := syscall.Kill(-pid, sig)
	if errors.Is(err, syscall.ESRCH) {
		return nil
	}
	return err
}

// interruptProcessGroup asks the group to stop; used as exec.Cmd.Cancel.
func interruptProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return signalProcessGroup(cmd.Process.Pid, syscall.SIGINT)
}

// killProcessGroup force-stops whatever is left of the group led by pid.
func killProcessGroup(pid int) error {
	return signalProcessGroup(pid, syscall.SIGKILL)
}
