// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Template cloning with go-git

package fetcher

import (
	"context"
	"fmt"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// fetchFromGit clones the template repository into the destination
func fetchFromGit(ctx context.Context, config *FetchConfig, sourceType string) (*FetchResult, error) {
	cloneURL := NormalizeGitURL(config.Source)

	if config.Verbose {
		fmt.Fprintf(config.Progress, "Cloning template %s\n", cloneURL)
		fmt.Fprintf(config.Progress, "Destination: %s\n", config.Destination)
	}

	cloneOpts := &git.CloneOptions{
		URL:  cloneURL,
		Tags: git.NoTags,
	}
	if config.Verbose {
		cloneOpts.Progress = config.Progress
	}
	if config.ShallowClone {
		cloneOpts.Depth = 1
		cloneOpts.SingleBranch = true
		cloneOpts.ReferenceName = plumbing.HEAD
	}

	if _, err := git.PlainCloneContext(ctx, config.Destination, false, cloneOpts); err != nil {
		_ = os.RemoveAll(config.Destination)
		return nil, fmt.Errorf("failed to clone template %s: %w", cloneURL, err)
	}

	fileCount, byteCount, err := countFiles(config.Destination)
	if err != nil && config.Verbose {
		fmt.Fprintf(config.Progress, "Warning: could not count files: %v\n", err)
	}

	return &FetchResult{
		Source:      config.Source,
		Destination: config.Destination,
		SourceType:  sourceType,
		IsGitRepo:   true,
		FilesCopied: fileCount,
		BytesCopied: byteCount,
	}, nil
}

// countFiles counts files and total bytes in a directory, ignoring .git
func countFiles(dir string) (int, int64, error) {
	var fileCount int
	var byteCount int64

	err := walkDir(dir, func(path string, info os.FileInfo) error {
		if info.IsDir() && info.Name() == ".git" {
			return errSkipDir
		}
		if !info.IsDir() {
			fileCount++
			byteCount += info.Size()
		}
		return nil
	})

	return fileCount, byteCount, err
}
