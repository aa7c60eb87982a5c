// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Tailwind configuration patching and generated assets

package tailwind

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Project-relative locations of the files this package reads or writes
const (
	ConfigFile = "tailwind.config.js"
	InputCSS   = "src/input.css"
	OutputCSS  = "dist/output.css"
	IndexHTML  = "dist/index.html"
)

// TypographyPlugin is the plugin registration written into the config
const TypographyPlugin = "require('@tailwindcss/typography')"

// DefaultContentGlobs are the files Tailwind scans for class names
var DefaultContentGlobs = []string{
	"./dist/**/*.html",
	"./src/**/*.{html,js}",
	"./index.html",
}

var (
	// ErrPlaceholderNotFound means the generated config no longer has the
	// empty array a patch expects, e.g. it was already edited.
	ErrPlaceholderNotFound = errors.New("placeholder not found")

	contentPlaceholder = regexp.MustCompile(`content:\s*\[\s*\]`)
	pluginsPlaceholder = regexp.MustCompile(`plugins:\s*\[\s*\]`)
)

//go:embed templates
var templates embed.FS

// BuildScript is the manifest "build" script
func BuildScript() string {
	return fmt.Sprintf("tailwindcss -i ./%s -o ./%s", InputCSS, OutputCSS)
}

// WatchScript is the manifest "watch" script
func WatchScript() string {
	return BuildScript() + " --watch"
}

// PatchConfig fills the empty content and plugins arrays of the config
// generated by `tailwindcss init`. Each placeholder must occur exactly once.
func PatchConfig(dir string, globs []string) error {
	path := filepath.Join(dir, ConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", ConfigFile, err)
	}

	patched, err := Patch(string(data), globs)
	if err != nil {
		return fmt.Errorf("patching %s: %w", ConfigFile, err)
	}

	if err := os.WriteFile(path, []byte(patched), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", ConfigFile, err)
	}
	return nil
}

// Patch applies the content and plugins substitutions to config source
func Patch(src string, globs []string) (string, error) {
	if len(globs) == 0 {
		globs = DefaultContentGlobs
	}

	quoted := make([]string, len(globs))
	for i, g := range globs {
		quoted[i] = strconv.Quote(g)
	}

	out, err := replaceOnce(src, contentPlaceholder, "content: ["+strings.Join(quoted, ", ")+"]")
	if err != nil {
		return "", fmt.Errorf("content: %w", err)
	}
	out, err = replaceOnce(out, pluginsPlaceholder, "plugins: ["+TypographyPlugin+"]")
	if err != nil {
		return "", fmt.Errorf("plugins: %w", err)
	}

	if n := strings.Count(out, TypographyPlugin); n != 1 {
		return "", fmt.Errorf("typography plugin registered %d times", n)
	}
	return out, nil
}

func replaceOnce(src string, re *regexp.Regexp, repl string) (string, error) {
	switch n := len(re.FindAllStringIndex(src, -1)); n {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrPlaceholderNotFound, re.String())
	case 1:
		return re.ReplaceAllLiteralString(src, repl), nil
	default:
		return "", fmt.Errorf("%s matched %d times", re.String(), n)
	}
}

// pageData feeds templates/index.html.tmpl
type pageData struct {
	Title        string
	InputCSS     string
	BuildCommand string
}

// WriteAssets writes the stylesheet entry point and the landing page.
// buildCommand is shown on the page; it defaults to "npm run build".
func WriteAssets(dir, projectName, buildCommand string) error {
	if buildCommand == "" {
		buildCommand = "npm run build"
	}

	css, err := templates.ReadFile("templates/input.css.tmpl")
	if err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, InputCSS), css); err != nil {
		return err
	}

	tmpl, err := template.ParseFS(templates, "templates/index.html.tmpl")
	if err != nil {
		return fmt.Errorf("parsing page template: %w", err)
	}
	var page strings.Builder
	err = tmpl.Execute(&page, pageData{
		Title:        Title(projectName),
		InputCSS:     InputCSS,
		BuildCommand: buildCommand,
	})
	if err != nil {
		return fmt.Errorf("rendering %s: %w", IndexHTML, err)
	}
	return writeFile(filepath.Join(dir, IndexHTML), []byte(page.String()))
}

// Title turns a project name like "my-project" into "My Project"
func Title(projectName string) string {
	words := strings.NewReplacer("-", " ", "_", " ", ".", " ").Replace(projectName)
	return cases.Title(language.English).String(strings.Join(strings.Fields(words), " "))
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
