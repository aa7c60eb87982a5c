// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Template fetcher types and constants

package fetcher

import (
	"errors"
	"io"
	"regexp"
)

// Source type constants
const (
	SourceTypeUnknown = "unknown"
	SourceTypeGitHub  = "github"
	SourceTypeGitLab  = "gitlab"
	SourceTypeGit     = "git" // any other remote git URL
	SourceTypeLocal   = "local"
)

// ErrDestinationExists is returned when the clone target is already on disk.
var ErrDestinationExists = errors.New("destination already exists")

var (
	// HTTPS: https://github.com/user/repo or https://github.com/user/repo.git
	githubHTTPSPattern = regexp.MustCompile(`^https?://github\.com/([^/]+)/([^/]+?)(?:\.git)?/?$`)
	// SSH: git@github.com:user/repo.git
	githubSSHPattern = regexp.MustCompile(`^git@github\.com:([^/]+)/([^/]+?)(?:\.git)?$`)
	// HTTPS: https://gitlab.com/user/repo or https://gitlab.com/user/repo.git
	gitlabHTTPSPattern = regexp.MustCompile(`^https?://gitlab\.com/([^/]+)/([^/]+?)(?:\.git)?/?$`)
	// SSH: git@gitlab.com:user/repo.git
	gitlabSSHPattern = regexp.MustCompile(`^git@gitlab\.com:([^/]+)/([^/]+?)(?:\.git)?$`)
	// Generic remotes: scheme URLs and scp-like user@host:path
	genericRemotePattern = regexp.MustCompile(`^(?:(?:https?|git|ssh|file)://|[\w.-]+@[\w.-]+:)`)
)

// FetchConfig holds configuration for fetching a template
type FetchConfig struct {
	Source       string    // Template URL or local directory
	Destination  string    // Target project directory (must not exist)
	Verbose      bool      // Enable verbose logging
	Progress     io.Writer // Progress output (optional, defaults to io.Discard)
	ShallowClone bool      // Use shallow clone for git (depth=1)
}

// FetchResult contains the result of a fetch operation
type FetchResult struct {
	Source      string // Original source
	Destination string // Where files were copied/cloned
	SourceType  string // Type of source (github, gitlab, git, local)
	IsGitRepo   bool   // Whether the destination carries template history
	FilesCopied int    // Number of files in the destination
	BytesCopied int64  // Total bytes in the destination
}

// GitRepoInfo contains parsed git repository information
type GitRepoInfo struct {
	Owner    string
	Repo     string
	URL      string
	Platform string // "github" or "gitlab"
}
