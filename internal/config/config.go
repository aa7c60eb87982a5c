// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Configuration loading with precedence: CLI > ENV > config file > defaults

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/sony-level/tw-scaffold/internal/exec"
	"github.com/sony-level/tw-scaffold/internal/pkgmgr"
	"github.com/sony-level/tw-scaffold/internal/tailwind"
	"github.com/sony-level/tw-scaffold/internal/workspace"
)

// Defaults applied when nothing else sets a value
const (
	DefaultTemplateURL   = "https://github.com/h5bp/html5-boilerplate.git"
	DefaultBranch        = "main"
	DefaultCommitMessage = "Initial commit"
)

// DefaultPackages are installed as dev dependencies into every project
var DefaultPackages = []string{
	"tailwindcss@3",
	"@tailwindcss/typography",
	"postcss",
	"autoprefixer",
}

// Environment variables read by Resolve
const (
	EnvName           = "TWS_NAME"
	EnvTemplate       = "TWS_TEMPLATE"
	EnvPackageManager = "TWS_PACKAGE_MANAGER"
	EnvBranch         = "TWS_BRANCH"
	EnvCommitMessage  = "TWS_COMMIT_MESSAGE"
	EnvTimeout        = "TWS_TIMEOUT"
)

// File is the on-disk configuration
type File struct {
	Name           string   `json:"name" yaml:"name" toml:"name"`
	Template       string   `json:"template" yaml:"template" toml:"template"`
	PackageManager string   `json:"package_manager" yaml:"package_manager" toml:"package_manager"`
	Packages       []string `json:"packages" yaml:"packages" toml:"packages"`
	ContentGlobs   []string `json:"content_globs" yaml:"content_globs" toml:"content_globs"`
	Branch         string   `json:"branch" yaml:"branch" toml:"branch"`
	CommitMessage  string   `json:"commit_message" yaml:"commit_message" toml:"commit_message"`
	Timeout        string   `json:"timeout" yaml:"timeout" toml:"timeout"` // e.g. "5m"
}

// Flags carries values given on the command line. Zero values mean "not set".
type Flags struct {
	Name           string
	Template       string
	PackageManager string
	Timeout        time.Duration
	ConfigPath     string
	Verbose        bool
}

// Config is the resolved run configuration
type Config struct {
	ProjectName    string
	TemplateURL    string
	PackageManager string // empty means detect from the template
	Packages       []string
	ContentGlobs   []string
	Branch         string
	CommitMessage  string
	StepTimeout    time.Duration
	Verbose        bool
	Source         string // config file that was applied, if any
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		ProjectName:   workspace.DefaultProjectName,
		TemplateURL:   DefaultTemplateURL,
		Packages:      append([]string(nil), DefaultPackages...),
		ContentGlobs:  append([]string(nil), tailwind.DefaultContentGlobs...),
		Branch:        DefaultBranch,
		CommitMessage: DefaultCommitMessage,
		StepTimeout:   exec.DefaultStepTimeout,
	}
}

// ConfigPaths returns the paths to check for config files in order
func ConfigPaths() []string {
	exts := []string{"yaml", "yml", "json", "toml"}
	var paths []string

	for _, ext := range exts {
		paths = append(paths, ".tw-scaffold."+ext)
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		for _, ext := range exts {
			paths = append(paths, filepath.Join(xdg, "tw-scaffold", "config."+ext))
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		for _, ext := range exts {
			paths = append(paths, filepath.Join(home, ".config", "tw-scaffold", "config."+ext))
		}
	}

	return paths
}

// LoadFile loads the configuration file. An explicit path must exist;
// otherwise ConfigPaths is searched and the first file found wins.
// It returns (nil, "", nil) when no file is found.
func LoadFile(explicit string) (*File, string, error) {
	if explicit != "" {
		cfg, err := loadFromPath(explicit)
		if err != nil {
			return nil, "", fmt.Errorf("loading config %s: %w", explicit, err)
		}
		return cfg, explicit, nil
	}

	for _, path := range ConfigPaths() {
		cfg, err := loadFromPath(path)
		if err == nil {
			return cfg, path, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("loading config %s: %w", path, err)
		}
	}
	return nil, "", nil
}

func loadFromPath(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg File

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Resolve builds the run configuration with CLI > ENV > file > defaults precedence
func Resolve(flags Flags) (*Config, error) {
	cfg := Default()
	cfg.Verbose = flags.Verbose

	file, source, err := LoadFile(flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	if file != nil {
		cfg.Source = source
		setString(&cfg.ProjectName, file.Name)
		setString(&cfg.TemplateURL, file.Template)
		setString(&cfg.PackageManager, file.PackageManager)
		setString(&cfg.Branch, file.Branch)
		setString(&cfg.CommitMessage, file.CommitMessage)
		if len(file.Packages) > 0 {
			cfg.Packages = file.Packages
		}
		if len(file.ContentGlobs) > 0 {
			cfg.ContentGlobs = file.ContentGlobs
		}
		if file.Timeout != "" {
			d, err := time.ParseDuration(file.Timeout)
			if err != nil {
				return nil, fmt.Errorf("%s: invalid timeout %q: %w", source, file.Timeout, err)
			}
			cfg.StepTimeout = d
		}
	}

	setString(&cfg.ProjectName, os.Getenv(EnvName))
	setString(&cfg.TemplateURL, os.Getenv(EnvTemplate))
	setString(&cfg.PackageManager, os.Getenv(EnvPackageManager))
	setString(&cfg.Branch, os.Getenv(EnvBranch))
	setString(&cfg.CommitMessage, os.Getenv(EnvCommitMessage))
	if env := os.Getenv(EnvTimeout); env != "" {
		d, err := time.ParseDuration(env)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid duration %q: %w", EnvTimeout, env, err)
		}
		cfg.StepTimeout = d
	}

	setString(&cfg.ProjectName, flags.Name)
	setString(&cfg.TemplateURL, flags.Template)
	setString(&cfg.PackageManager, flags.PackageManager)
	if flags.Timeout > 0 {
		cfg.StepTimeout = flags.Timeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the resolved configuration
func (c *Config) Validate() error {
	if err := workspace.ValidateName(c.ProjectName); err != nil {
		return err
	}
	if strings.TrimSpace(c.TemplateURL) == "" {
		return errors.New("template must be set")
	}
	if c.PackageManager != "" {
		if _, err := pkgmgr.Parse(c.PackageManager); err != nil {
			return err
		}
	}
	if strings.TrimSpace(c.Branch) == "" {
		return errors.New("branch must be set")
	}
	if strings.TrimSpace(c.CommitMessage) == "" {
		return errors.New("commit message must be set")
	}
	if c.StepTimeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.StepTimeout)
	}
	return nil
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
