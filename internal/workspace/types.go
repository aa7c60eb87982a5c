// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Target directory types/constants

package workspace

import "errors"

const (
	// DefaultProjectName is used when no name is given
	DefaultProjectName = "my-project"
	// RunIDPrefix prefixes run identifiers attached to log lines
	RunIDPrefix = "tws"
)

var (
	// ErrInvalidName is returned for names that are not a single path element
	ErrInvalidName = errors.New("invalid project name")
	// ErrTargetExists is returned when the target directory is already present
	ErrTargetExists = errors.New("target directory already exists")
)

// Target is the project directory a scaffold run builds
type Target struct {
	RunID   string
	Name    string
	Path    string // absolute
	BaseDir string
	created bool
}

// TargetConfig holds configuration for target creation
type TargetConfig struct {
	BaseDir string // Parent directory (defaults to the working directory)
	Name    string // Project name (defaults to DefaultProjectName)
}
