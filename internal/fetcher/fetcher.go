// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Template fetching entry point and source classification

package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Fetch materializes the template at config.Destination.
// The destination must not exist; it is removed again if fetching fails.
func Fetch(ctx context.Context, config *FetchConfig) (*FetchResult, error) {
	if config == nil {
		return nil, fmt.Errorf("fetch config is nil")
	}
	if config.Source == "" {
		return nil, fmt.Errorf("source is empty")
	}
	if config.Destination == "" {
		return nil, fmt.Errorf("destination is empty")
	}
	if config.Progress == nil {
		config.Progress = io.Discard
	}

	if _, err := os.Lstat(config.Destination); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDestinationExists, config.Destination)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat destination: %w", err)
	}

	sourceType := DetectSourceType(config.Source)

	switch sourceType {
	case SourceTypeGitHub, SourceTypeGitLab, SourceTypeGit:
		return fetchFromGit(ctx, config, sourceType)
	case SourceTypeLocal:
		return fetchFromLocal(config)
	default:
		return nil, fmt.Errorf("unknown source type for: %s", config.Source)
	}
}

// DetectSourceType classifies a template source
func DetectSourceType(source string) string {
	if source == "" {
		return SourceTypeUnknown
	}
	if IsGitHubURL(source) {
		return SourceTypeGitHub
	}
	if IsGitLabURL(source) {
		return SourceTypeGitLab
	}
	if genericRemotePattern.MatchString(source) {
		return SourceTypeGit
	}
	if isLocalPath(source) {
		return SourceTypeLocal
	}
	return SourceTypeUnknown
}

// IsGitHubURL checks if the source is a valid GitHub URL
func IsGitHubURL(source string) bool {
	return githubHTTPSPattern.MatchString(source) || githubSSHPattern.MatchString(source)
}

// IsGitLabURL checks if the source is a valid GitLab URL
func IsGitLabURL(source string) bool {
	return gitlabHTTPSPattern.MatchString(source) || gitlabSSHPattern.MatchString(source)
}

// ParseGitURL extracts owner and repo from a GitHub or GitLab URL
func ParseGitURL(url string) (*GitRepoInfo, error) {
	patterns := []struct {
		platform string
		re       *regexp.Regexp
	}{
		{SourceTypeGitHub, githubHTTPSPattern},
		{SourceTypeGitHub, githubSSHPattern},
		{SourceTypeGitLab, gitlabHTTPSPattern},
		{SourceTypeGitLab, gitlabSSHPattern},
	}

	for _, p := range patterns {
		if matches := p.re.FindStringSubmatch(url); matches != nil {
			return &GitRepoInfo{
				Owner:    matches[1],
				Repo:     strings.TrimSuffix(matches[2], ".git"),
				URL:      url,
				Platform: p.platform,
			}, nil
		}
	}

	return nil, fmt.Errorf("invalid git URL: %s", url)
}

// NormalizeGitURL converts GitHub/GitLab SSH and short forms to HTTPS.
// Other URLs are returned untouched.
func NormalizeGitURL(url string) string {
	info, err := ParseGitURL(url)
	if err != nil {
		return url
	}

	switch info.Platform {
	case SourceTypeGitHub:
		return fmt.Sprintf("https://github.com/%s/%s.git", info.Owner, info.Repo)
	case SourceTypeGitLab:
		return fmt.Sprintf("https://gitlab.com/%s/%s.git", info.Owner, info.Repo)
	default:
		return url
	}
}

// isLocalPath checks if the source appears to be a local path
func isLocalPath(source string) bool {
	if filepath.IsAbs(source) {
		return true
	}
	if source == "." || source == ".." {
		return true
	}
	if strings.HasPrefix(source, "./") || strings.HasPrefix(source, "../") {
		return true
	}
	if _, err := os.Stat(source); err == nil {
		return true
	}
	return !strings.Contains(source, "://") && !strings.Contains(source, "@")
}

// ValidateLocalPath validates that a local template directory exists
func ValidateLocalPath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("template path does not exist: %s", absPath)
		}
		if os.IsPermission(err) {
			return fmt.Errorf("permission denied: %s", absPath)
		}
		return fmt.Errorf("failed to stat path: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("template path is not a directory: %s", absPath)
	}

	return nil
}
