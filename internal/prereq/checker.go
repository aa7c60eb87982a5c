// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Prerequisite checker for tool existence and versions

package prereq

import (
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var versionPattern = regexp.MustCompile(`\d+(?:\.\d+){0,2}(?:-[0-9A-Za-z.-]+)?`)

// Checker verifies tool existence
type Checker struct {
	tools      map[string]*Tool
	lookPath   func(string) (string, error)
	runVersion func(cmd string) string
}

// NewChecker creates a new prerequisite checker
func NewChecker() *Checker {
	return NewCheckerWithTools(DefaultTools())
}

// NewCheckerWithTools creates a checker with custom tools
func NewCheckerWithTools(tools map[string]*Tool) *Checker {
	return &Checker{
		tools:      tools,
		lookPath:   exec.LookPath,
		runVersion: getVersion,
	}
}

// CheckAll checks every named tool
func (c *Checker) CheckAll(names []string) *CheckSummary {
	summary := NewCheckSummary()
	for _, name := range names {
		summary.AddResult(c.CheckTool(name))
	}
	return summary
}

// CheckTool checks if a specific tool exists and satisfies its constraint
func (c *Checker) CheckTool(name string) CheckResult {
	result := CheckResult{Name: name}

	tool, ok := c.tools[strings.ToLower(name)]
	if !ok {
		if path, err := c.lookPath(name); err == nil {
			result.Found = true
			result.Satisfied = true
			result.Path = path
		}
		return result
	}

	for _, command := range append([]string{tool.Command}, tool.Alternatives...) {
		path, err := c.lookPath(command)
		if err != nil {
			continue
		}
		result.Found = true
		result.Path = path
		versionCmd := tool.VersionCmd
		if command != tool.Command {
			versionCmd = strings.Replace(versionCmd, tool.Command, command, 1)
		}
		result.Version = c.runVersion(versionCmd)
		break
	}

	if !result.Found {
		return result
	}

	result.Constraint = tool.Constraint
	if tool.Constraint == "" {
		result.Satisfied = true
		return result
	}

	ok, err := SatisfiesConstraint(result.Version, tool.Constraint)
	result.Satisfied = ok
	result.Error = err
	return result
}

// GetInstallGuide returns installation instructions for a tool
func (c *Checker) GetInstallGuide(name string) string {
	tool := c.tools[strings.ToLower(name)]
	if tool == nil {
		return "No installation guide available for " + name
	}
	return tool.InstallGuide
}

// SatisfiesConstraint reports whether the version found in raw output
// (e.g. "v20.11.1") satisfies constraint (e.g. ">= 14.0.0").
func SatisfiesConstraint(raw, constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid constraint %q: %w", constraint, err)
	}
	match := versionPattern.FindString(raw)
	if match == "" {
		return false, fmt.Errorf("no version in %q", raw)
	}
	v, err := semver.NewVersion(match)
	if err != nil {
		return false, fmt.Errorf("parsing version %q: %w", match, err)
	}
	return c.Check(v), nil
}

// Err turns a failed summary into an error naming what is missing
func (s *CheckSummary) Err() error {
	if s.AllFound {
		return nil
	}
	var errs []error
	for _, r := range s.Results {
		switch {
		case !r.Found:
			errs = append(errs, fmt.Errorf("%s not found in PATH", r.Name))
		case !r.Satisfied && r.Error != nil:
			errs = append(errs, fmt.Errorf("%s: %w", r.Name, r.Error))
		case !r.Satisfied:
			errs = append(errs, fmt.Errorf("%s %s does not satisfy %s", r.Name, r.Version, r.Constraint))
		}
	}
	return errors.Join(errs...)
}

// getVersion executes a version command and returns the first output line
func getVersion(versionCmd string) string {
	parts := strings.Fields(versionCmd)
	if len(parts) == 0 {
		return ""
	}

	out, err := exec.Command(parts[0], parts[1:]...).Output()
	if err != nil {
		return ""
	}

	output := strings.TrimSpace(string(out))
	if idx := strings.Index(output, "\n"); idx > 0 {
		output = output[:idx]
	}
	return output
}
