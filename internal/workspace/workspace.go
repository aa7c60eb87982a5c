// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Target directory resolution and run IDs

package workspace

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var (
	// mutex ensures thread-safe run ID generation
	idMutex sync.Mutex
	// lastTimestamp prevents duplicate IDs in the same minute
	lastTimestamp string
	lastCounter   int
)

// ResetRunIDState resets the global run ID generation state (for testing)
func ResetRunIDState() {
	idMutex.Lock()
	defer idMutex.Unlock()
	lastTimestamp = ""
	lastCounter = 0
}

// GenerateRunID creates a run ID with format tws-YYYYMMDD-HHMM-3hexchars,
// or tws-YYYYMMDD-HHMM-NNN for further calls within the same minute.
func GenerateRunID() (string, error) {
	idMutex.Lock()
	defer idMutex.Unlock()

	timestamp := time.Now().Format("20060102-1504")

	if timestamp == lastTimestamp {
		lastCounter++
		return fmt.Sprintf("%s-%s-%03d", RunIDPrefix, timestamp, lastCounter), nil
	}

	randomBytes := make([]byte, 2)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	lastTimestamp = timestamp
	lastCounter = 0

	return fmt.Sprintf("%s-%s-%s", RunIDPrefix, timestamp, hex.EncodeToString(randomBytes)[:3]), nil
}

// ValidateName checks that name can be used as a directory name
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`) || filepath.Base(name) != name:
		return fmt.Errorf("%w: %q must not contain path separators", ErrInvalidName, name)
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("%w: %q must not start with '-'", ErrInvalidName, name)
	}
	return nil
}

// New resolves the target directory for a run. Nothing is created on disk.
func New(config *TargetConfig) (*Target, error) {
	if config == nil {
		config = &TargetConfig{}
	}

	name := config.Name
	if name == "" {
		name = DefaultProjectName
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	baseDir := config.BaseDir
	if baseDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current working directory: %w", err)
		}
		baseDir = cwd
	}
	baseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", baseDir, err)
	}

	runID, err := GenerateRunID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate run ID: %w", err)
	}

	return &Target{
		RunID:   runID,
		Name:    name,
		Path:    filepath.Join(baseDir, name),
		BaseDir: baseDir,
	}, nil
}

// EnsureAbsent fails with ErrTargetExists when the target path is taken
func (t *Target) EnsureAbsent() error {
	_, err := os.Lstat(t.Path)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrTargetExists, t.Path)
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("failed to stat %s: %w", t.Path, err)
	}
}

// MarkCreated records that this run created the target directory.
// Only created targets are removed by Rollback.
func (t *Target) MarkCreated() {
	t.created = true
}

// Created reports whether this run created the target directory
func (t *Target) Created() bool {
	return t.created
}

// String returns a string representation of the target
func (t *Target) String() string {
	return fmt.Sprintf("Target{RunID: %s, Path: %s, Created: %v}", t.RunID, t.Path, t.created)
}
