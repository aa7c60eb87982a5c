// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Command executor with streamed output and process group cleanup

package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

const (
	// DefaultKillGrace is how long a canceled group gets between SIGINT and SIGKILL
	DefaultKillGrace = 2 * time.Second
	// waitDelay bounds how long Wait blocks on a leader that survived the kill
	waitDelay = 5 * time.Second
)

// Runner executes external commands one at a time
type Runner struct {
	config *RunnerConfig
}

// NewRunner creates a new command runner
func NewRunner(config *RunnerConfig) *Runner {
	if config == nil {
		config = &RunnerConfig{StepTimeout: DefaultStepTimeout}
	}
	if config.Stdout == nil {
		config.Stdout = os.Stdout
	}
	if config.Stderr == nil {
		config.Stderr = os.Stderr
	}
	if config.KillGrace <= 0 {
		config.KillGrace = DefaultKillGrace
	}
	return &Runner{config: config}
}

// Run executes a command and waits for it to finish.
// The returned result is never nil; Error is set when Success is false.
func (r *Runner) Run(ctx context.Context, command Command) *StepResult {
	result := &StepResult{StepID: command.ID}
	startTime := time.Now()
	defer func() { result.Duration = time.Since(startTime) }()

	if command.Name == "" {
		result.Error = fmt.Errorf("empty command")
		return result
	}

	if _, err := exec.LookPath(command.Name); err != nil {
		result.Error = fmt.Errorf("command not found: %s", command.Name)
		return result
	}

	timeout := GetStepTimeout(command, r.config.StepTimeout)
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, command.Name, command.Args...)
	cmd.Dir = command.Dir
	if len(command.Env) > 0 {
		cmd.Env = append(os.Environ(), command.Env...)
	}
	setPlatformProcessGroup(cmd)

	// Cancel runs on the context watcher goroutine once the child has started.
	// Children that ignore SIGINT are killed with the whole group after KillGrace.
	exited := make(chan struct{})
	cmd.Cancel = func() error {
		err := interruptProcessGroup(cmd)
		pid := cmd.Process.Pid
		go func() {
			timer := time.NewTimer(r.config.KillGrace)
			defer timer.Stop()
			select {
			case <-timer.C:
				_ = killProcessGroup(pid)
			case <-exited:
			}
		}()
		return err
	}
	cmd.WaitDelay = r.config.KillGrace + waitDelay

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = r.outputWriter(&stdoutBuf, r.config.Stdout)
	cmd.Stderr = r.outputWriter(&stderrBuf, r.config.Stderr)

	err := cmd.Run()
	close(exited)

	result.Stdout = stdoutBuf.String()
	result.Stderr = stderrBuf.String()

	if err != nil {
		if runCtx.Err() != nil && cmd.Process != nil {
			// The leader is gone; grandchildren may still hold the group.
			_ = killProcessGroup(cmd.Process.Pid)
		}
		var exitErr *exec.ExitError
		switch {
		case errors.Is(ctx.Err(), context.Canceled):
			result.Error = fmt.Errorf("command canceled: %w", ctx.Err())
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			result.Error = fmt.Errorf("command timed out after %v", timeout)
		case errors.As(err, &exitErr):
			result.ExitCode = exitErr.ExitCode()
			result.Error = fmt.Errorf("command exited with code %d", result.ExitCode)
		default:
			result.Error = err
		}
		return result
	}

	result.Success = true
	return result
}

// outputWriter captures output and, in verbose mode, streams it as well
func (r *Runner) outputWriter(buf *bytes.Buffer, out io.Writer) io.Writer {
	if r.config.Verbose && out != nil {
		return io.MultiWriter(buf, out)
	}
	return buf
}

// FormatStepResult returns a human-readable step result
func FormatStepResult(result *StepResult) string {
	var sb strings.Builder

	if result.Skipped {
		sb.WriteString(fmt.Sprintf("⊘ %s: Skipped", result.StepID))
		if result.SkipReason != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", result.SkipReason))
		}
	} else if result.Success {
		sb.WriteString(fmt.Sprintf("✓ %s: Success", result.StepID))
	} else {
		sb.WriteString(fmt.Sprintf("✗ %s: Failed", result.StepID))
		if result.Error != nil {
			sb.WriteString(fmt.Sprintf(" - %s", result.Error.Error()))
		}
	}

	sb.WriteString(fmt.Sprintf(" (%v)", result.Duration.Round(time.Millisecond)))
	return sb.String()
}

// FormatExecutionResult returns a human-readable execution summary
func FormatExecutionResult(result *ExecutionResult) string {
	var sb strings.Builder

	sb.WriteString("\n─────────────────────────────────────\n")
	sb.WriteString("Setup Summary\n")
	sb.WriteString("─────────────────────────────────────\n")

	if result.Success {
		sb.WriteString("✓ All steps completed successfully\n")
	} else if result.Canceled {
		sb.WriteString("⊘ Setup interrupted\n")
	} else {
		sb.WriteString("✗ Setup failed\n")
	}

	sb.WriteString(fmt.Sprintf("\nTotal steps: %d\n", result.TotalSteps))
	sb.WriteString(fmt.Sprintf("  Completed: %d\n", result.Completed))
	sb.WriteString(fmt.Sprintf("  Failed:    %d\n", result.Failed))
	sb.WriteString(fmt.Sprintf("  Skipped:   %d\n", result.Skipped))
	sb.WriteString(fmt.Sprintf("\nTotal time: %v\n", result.TotalTime.Round(time.Millisecond)))

	if result.FailedStep != nil {
		sb.WriteString(fmt.Sprintf("\nFailed at step: %s\n", result.FailedStep.StepID))
		if result.FailedStep.Stderr != "" {
			sb.WriteString("\nError output:\n")
			// Last 10 lines of stderr
			lines := strings.Split(strings.TrimSpace(result.FailedStep.Stderr), "\n")
			if len(lines) > 10 {
				lines = lines[len(lines)-10:]
			}
			for _, line := range lines {
				sb.WriteString("  " + line + "\n")
			}
		}
	}

	return sb.String()
}
