package theme

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Loader resolves theme names to theme files.
type Loader struct {
	ConfigDir string
}

// NewLoader creates a Loader that looks in $XDG_CONFIG_HOME/shotmark/themes,
// or ~/.config/shotmark/themes.
func NewLoader() *Loader {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return &Loader{ConfigDir: filepath.Join(dir, "shotmark", "themes")}
}

// Load returns the theme called name. An existing file path wins, then the
// embedded themes, then ConfigDir. An empty name is the default theme.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}
	if _, err := os.Stat(name); err == nil {
		return parseFile(os.DirFS(filepath.Dir(name)), filepath.Base(name), name)
	}

	file := name
	if !strings.HasSuffix(file, ".theme") {
		file += ".theme"
	}
	sources := []fs.FS{EmbeddedThemes}
	prefixes := []string{"defaults/"}
	if l.ConfigDir != "" {
		sources = append(sources, os.DirFS(l.ConfigDir))
		prefixes = append(prefixes, "")
	}
	for i, src := range sources {
		if _, err := fs.Stat(src, prefixes[i]+file); err == nil {
			return parseFile(src, prefixes[i]+file, name)
		}
	}
	return nil, fmt.Errorf("theme %q not found", name)
}

func parseFile(fsys fs.FS, path, label string) (*Theme, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", label, err)
	}
	return t, nil
}
