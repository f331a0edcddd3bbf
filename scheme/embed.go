package scheme

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed schemes/*.yaml
var SchemesFS embed.FS

//go:embed schemes/scripts/*.tengo
var ScriptsFS embed.FS

// Load returns the named scheme file. A copy under dir on disk wins over the
// embedded one; an empty dir only reads the embedded set.
func Load(dir, name string) ([]byte, error) {
	clean := cleanSchemePath(name)
	if dir != "" {
		if data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(clean))); err == nil {
			return data, nil
		}
	}
	return SchemesFS.ReadFile("schemes/" + clean)
}

// LoadScript returns the named policy script, with the same lookup as Load.
func LoadScript(dir, name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if dir != "" {
		if data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(clean))); err == nil {
			return data, nil
		}
	}
	return ScriptsFS.ReadFile("schemes/" + clean)
}

// ModTime reports when the on-disk copy of a scheme last changed.
func ModTime(dir, name string) (time.Time, bool) {
	if dir == "" {
		return time.Time{}, false
	}
	info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(cleanSchemePath(name))))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Names lists the embedded schemes by name.
func Names() ([]string, error) {
	entries, err := SchemesFS.ReadDir("schemes")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isSpecFile(e.Name()) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	return names, nil
}

func cleanSchemePath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "schemes/"); ok {
		s = after
	}
	if !isSpecFile(s) {
		s += ".yaml"
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)

	if after, ok := strings.CutPrefix(s, "schemes/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	return fmt.Sprintf("scripts/%s", s)
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
