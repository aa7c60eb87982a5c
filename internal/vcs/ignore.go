// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// .gitignore maintenance

package vcs

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GitignoreFile is the ignore file at the project root
const GitignoreFile = ".gitignore"

// EnsureIgnored appends entries missing from dir/.gitignore, creating the
// file if needed. "node_modules", "node_modules/" and "/node_modules" are
// treated as the same entry. It returns the entries that were added.
func EnsureIgnored(dir string, entries ...string) ([]string, error) {
	path := filepath.Join(dir, GitignoreFile)

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", GitignoreFile, err)
	}

	present := map[string]bool{}
	for _, line := range strings.Split(string(data), "\n") {
		present[normalizeIgnore(line)] = true
	}

	var added []string
	var buf bytes.Buffer
	buf.Write(data)
	if len(data) > 0 && !bytes.HasSuffix(data, []byte("\n")) {
		buf.WriteByte('\n')
	}
	for _, entry := range entries {
		key := normalizeIgnore(entry)
		if key == "" || present[key] {
			continue
		}
		present[key] = true
		buf.WriteString(entry + "\n")
		added = append(added, entry)
	}

	if len(added) == 0 {
		return nil, nil
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", GitignoreFile, err)
	}
	return added, nil
}

func normalizeIgnore(line string) string {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "#") {
		return ""
	}
	return strings.Trim(line, "/")
}
