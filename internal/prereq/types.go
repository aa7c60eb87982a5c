// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Prerequisite types and tool definitions

package prereq

// Tool represents a prerequisite tool
type Tool struct {
	Name         string   // Tool name
	Command      string   // Command to check existence
	VersionCmd   string   // Command to get version
	Constraint   string   // Semver constraint the version must satisfy (optional)
	Alternatives []string // Alternative command names
	InstallGuide string   // Installation instructions
}

// MinNodeVersion is the oldest Node.js the Tailwind v3 CLI runs on
const MinNodeVersion = ">= 14.0.0"

// DefaultTools returns the tools a scaffold run may need
func DefaultTools() map[string]*Tool {
	return map[string]*Tool{
		"node": {
			Name:         "node",
			Command:      "node",
			VersionCmd:   "node --version",
			Constraint:   MinNodeVersion,
			Alternatives: []string{"nodejs"},
			InstallGuide: `Install Node.js:
  macOS:   brew install node
  Ubuntu:  sudo apt install nodejs npm
  Fedora:  sudo dnf install nodejs npm
  All:     https://nodejs.org/en/download/`,
		},
		"npm": {
			Name:       "npm",
			Command:    "npm",
			VersionCmd: "npm --version",
			InstallGuide: `npm is included with Node.js.
Install Node.js to get npm.`,
		},
		"yarn": {
			Name:       "yarn",
			Command:    "yarn",
			VersionCmd: "yarn --version",
			InstallGuide: `Install Yarn:
  corepack: corepack enable yarn
  npm:      npm install -g yarn`,
		},
		"pnpm": {
			Name:       "pnpm",
			Command:    "pnpm",
			VersionCmd: "pnpm --version",
			InstallGuide: `Install pnpm:
  corepack: corepack enable pnpm
  npm:      npm install -g pnpm`,
		},
		"bun": {
			Name:       "bun",
			Command:    "bun",
			VersionCmd: "bun --version",
			InstallGuide: `Install Bun:
  macOS/Linux: curl -fsSL https://bun.sh/install | bash`,
		},
	}
}

// CheckResult contains the result of checking a tool
type CheckResult struct {
	Name       string // Tool name
	Found      bool   // Whether tool was found
	Version    string // Detected version (if found)
	Path       string // Path to tool (if found)
	Satisfied  bool   // Found and, if constrained, within the constraint
	Constraint string // Constraint checked against, if any
	Error      error  // Error during check (if any)
}

// CheckSummary contains results for all checks
type CheckSummary struct {
	Results      []CheckResult // Individual results
	AllFound     bool          // Whether all tools were found and satisfied
	MissingTools []string      // Tools not found
	Outdated     []string      // Tools found but failing their constraint
}

// NewCheckSummary creates a new check summary
func NewCheckSummary() *CheckSummary {
	return &CheckSummary{
		Results:      []CheckResult{},
		AllFound:     true,
		MissingTools: []string{},
		Outdated:     []string{},
	}
}

// AddResult adds a check result to the summary
func (s *CheckSummary) AddResult(result CheckResult) {
	s.Results = append(s.Results, result)
	switch {
	case !result.Found:
		s.AllFound = false
		s.MissingTools = append(s.MissingTools, result.Name)
	case !result.Satisfied:
		s.AllFound = false
		s.Outdated = append(s.Outdated, result.Name)
	}
}
