// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Local template copying

package fetcher

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var errSkipDir = filepath.SkipDir

// Never copied from a local template: history and installed dependencies
// belong to the template, not to the new project.
var defaultSkipPatterns = []string{
	".git",
	"node_modules",
	".DS_Store",
}

// fetchFromLocal copies a local template directory to the destination
func fetchFromLocal(config *FetchConfig) (*FetchResult, error) {
	if err := ValidateLocalPath(config.Source); err != nil {
		return nil, err
	}

	srcPath, err := filepath.Abs(config.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source path: %w", err)
	}

	dstPath, err := filepath.Abs(config.Destination)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve destination path: %w", err)
	}
	if dstPath == srcPath || strings.HasPrefix(dstPath, srcPath+string(filepath.Separator)) {
		return nil, fmt.Errorf("destination %s is inside template %s", dstPath, srcPath)
	}

	ignorePatterns := append(loadGitignore(srcPath), defaultSkipPatterns...)

	if config.Verbose {
		fmt.Fprintf(config.Progress, "Copying local template: %s\n", srcPath)
		fmt.Fprintf(config.Progress, "Destination: %s\n", dstPath)
	}

	var filesCopied int
	var bytesCopied int64

	err = walkDir(srcPath, func(path string, info os.FileInfo) error {
		relPath, err := filepath.Rel(srcPath, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}

		if relPath != "." && shouldSkip(relPath, ignorePatterns) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		destPath := filepath.Join(dstPath, relPath)

		if info.IsDir() {
			if err := os.MkdirAll(destPath, info.Mode().Perm()|0o700); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", destPath, err)
			}
			return nil
		}

		copied, err := copyFile(path, destPath, info)
		if err != nil {
			return fmt.Errorf("failed to copy %s: %w", relPath, err)
		}

		filesCopied++
		bytesCopied += copied
		return nil
	})

	if err != nil {
		_ = os.RemoveAll(dstPath)
		return nil, fmt.Errorf("failed to copy template: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.Progress, "Copied %d files (%d bytes)\n", filesCopied, bytesCopied)
	}

	return &FetchResult{
		Source:      config.Source,
		Destination: dstPath,
		SourceType:  SourceTypeLocal,
		IsGitRepo:   false,
		FilesCopied: filesCopied,
		BytesCopied: bytesCopied,
	}, nil
}

// walkDir walks a directory tree, calling walkFn for each file or directory
func walkDir(root string, walkFn func(path string, info os.FileInfo) error) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		return walkFn(path, info)
	})
}

// shouldSkip reports whether relPath or any of its components matches a pattern.
// Patterns are simple names or slash paths; globs use filepath.Match per component.
func shouldSkip(relPath string, patterns []string) bool {
	relPath = filepath.ToSlash(relPath)
	parts := strings.Split(relPath, "/")

	for _, pattern := range patterns {
		pattern = strings.TrimPrefix(pattern, "/")
		if relPath == pattern || strings.HasPrefix(relPath, pattern+"/") {
			return true
		}
		if strings.Contains(pattern, "/") {
			continue
		}
		for _, part := range parts {
			if ok, _ := filepath.Match(pattern, part); ok {
				return true
			}
		}
	}

	return false
}

// loadGitignore loads non-negated patterns from the template's .gitignore
func loadGitignore(dir string) []string {
	file, err := os.Open(filepath.Join(dir, ".gitignore"))
	if err != nil {
		return nil
	}
	defer file.Close()

	var patterns []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		patterns = append(patterns, strings.TrimSuffix(line, "/"))
	}

	return patterns
}

// copyFile copies a single file preserving permissions
func copyFile(src, dst string, info os.FileInfo) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, err
	}

	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(src)
		if err != nil {
			return 0, err
		}
		return 0, os.Symlink(target, dst)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer srcFile.Close()

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(dstFile, srcFile)
	if closeErr := dstFile.Close(); err == nil {
		err = closeErr
	}
	return written, err
}
