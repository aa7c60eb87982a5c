// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Execution types and timeouts

package exec

import (
	"io"
	"strings"
	"time"
)

// DefaultStepTimeout is the default timeout for a single command
const DefaultStepTimeout = 5 * time.Minute

// MaxStepTimeout is the maximum allowed timeout for a single command
const MaxStepTimeout = 30 * time.Minute

// Command describes a single external process invocation
type Command struct {
	ID      string        // Step identifier used in results
	Name    string        // Executable name, resolved through PATH
	Args    []string      // Arguments passed to the executable
	Dir     string        // Working directory (absolute)
	Timeout time.Duration // Overrides RunnerConfig.StepTimeout when > 0
	Env     []string      // Extra KEY=VALUE pairs appended to the environment
}

// String renders the command line as a user would type it
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	for _, arg := range c.Args {
		if strings.ContainsAny(arg, " \t\"'*{}") {
			arg = "'" + arg + "'"
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}

// RunnerConfig configures the executor
type RunnerConfig struct {
	Verbose     bool          // Stream child output while it runs
	StepTimeout time.Duration // Default timeout per command
	Stdout      io.Writer     // Destination for streamed stdout (defaults to os.Stdout)
	Stderr      io.Writer     // Destination for streamed stderr (defaults to os.Stderr)
	KillGrace   time.Duration // SIGINT to SIGKILL delay on cancel (defaults to DefaultKillGrace)
}

// StepResult contains the result of a single step
type StepResult struct {
	StepID     string
	Success    bool
	Skipped    bool
	SkipReason string
	ExitCode   int
	Duration   time.Duration
	Stdout     string
	Stderr     string
	Error      error
}

// ExecutionResult contains the result of a whole step sequence
type ExecutionResult struct {
	Success     bool
	TotalSteps  int
	Completed   int
	Failed      int
	Skipped     int
	TotalTime   time.Duration
	StepResults []*StepResult
	FailedStep  *StepResult
	Canceled    bool
}

// NewExecutionResult creates an empty execution result
func NewExecutionResult() *ExecutionResult {
	return &ExecutionResult{
		Success:     true,
		StepResults: make([]*StepResult, 0),
	}
}

// AddStepResult adds a step result to the execution
func (r *ExecutionResult) AddStepResult(result *StepResult) {
	r.StepResults = append(r.StepResults, result)
	r.TotalSteps++

	if result.Skipped {
		r.Skipped++
	} else if result.Success {
		r.Completed++
	} else {
		r.Failed++
		r.Success = false
		if r.FailedStep == nil {
			r.FailedStep = result
		}
	}
}

// GetStepTimeout returns the effective timeout for a command
func GetStepTimeout(cmd Command, defaultTimeout time.Duration) time.Duration {
	if cmd.Timeout > 0 {
		if cmd.Timeout > MaxStepTimeout {
			return MaxStepTimeout
		}
		return cmd.Timeout
	}
	if defaultTimeout > 0 {
		if defaultTimeout > MaxStepTimeout {
			return MaxStepTimeout
		}
		return defaultTimeout
	}
	return DefaultStepTimeout
}
