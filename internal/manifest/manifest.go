// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// package.json reading and script updates

package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the manifest file name inside a project
const FileName = "package.json"

// Manifest is a package.json file. Keys it does not know about are kept as-is.
type Manifest struct {
	path   string
	fields map[string]json.RawMessage
}

// Path returns the manifest location for a project directory
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Exists reports whether dir contains a package.json
func Exists(dir string) bool {
	info, err := os.Stat(Path(dir))
	return err == nil && !info.IsDir()
}

// Load reads the manifest in dir
func Load(dir string) (*Manifest, error) {
	path := Path(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	fields := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	return &Manifest{path: path, fields: fields}, nil
}

// Name returns the package name, or "" when unset
func (m *Manifest) Name() string {
	var name string
	if raw, ok := m.fields["name"]; ok {
		_ = json.Unmarshal(raw, &name)
	}
	return name
}

// Scripts returns a copy of the scripts section
func (m *Manifest) Scripts() (map[string]string, error) {
	return m.stringMap("scripts")
}

// DevDependencies returns a copy of the devDependencies section
func (m *Manifest) DevDependencies() (map[string]string, error) {
	return m.stringMap("devDependencies")
}

// SetScript records (or replaces) a named run script
func (m *Manifest) SetScript(name, command string) error {
	if name == "" {
		return errors.New("script name is empty")
	}
	scripts, err := m.Scripts()
	if err != nil {
		return err
	}
	scripts[name] = command

	raw, err := encode(scripts, "")
	if err != nil {
		return fmt.Errorf("encoding scripts: %w", err)
	}
	m.fields["scripts"] = raw
	return nil
}

// Save writes the manifest back with two-space indentation.
// Characters such as & < > are written literally, as npm does.
func (m *Manifest) Save() error {
	data, err := encode(m.fields, "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", m.path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", m.path, err)
	}
	return nil
}

// encode marshals v without HTML escaping and without a trailing newline
func encode(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (m *Manifest) stringMap(key string) (map[string]string, error) {
	out := map[string]string{}
	raw, ok := m.fields[key]
	if !ok || string(raw) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%s: %q is not an object of strings: %w", m.path, key, err)
	}
	return out, nil
}
