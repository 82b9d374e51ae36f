// Package config loads the project-level settings document that seeds the
// harvester's default include/exclude globs, its default segment
// restriction, and the default result page size. The document itself is
// KDL (github.com/sblinch/kdl-go); run templates and command history, which
// are append-oriented record lists rather than a nested settings tree, live
// in a separate TOML document handled by the history package.
package config

import (
	"os"
	"path/filepath"
)

// Project identifies the tree the settings document was loaded for.
type Project struct {
	Root string
	Name string
}

// Defaults holds the knobs a settings document may override; every field
// has a zero-config default applied by New.
type Defaults struct {
	Segment   string // "all", "code", "comment", "string" — see §4.7
	PageSize  int
	Recursive bool
}

// Config is the parsed project settings document.
type Config struct {
	Project  Project
	Defaults Defaults
	Include  []string
	Exclude  []string
}

// New returns the zero-config defaults: include everything, exclude the
// handful of directories no source-tree scan should ever enter, segment
// restriction "all", and a page size of 100.
func New(root string) *Config {
	return &Config{
		Project: Project{Root: root},
		Defaults: Defaults{
			Segment:   "all",
			PageSize:  100,
			Recursive: false,
		},
		Include: []string{},
		Exclude: []string{
			"**/.git/**",
			"**/node_modules/**",
			"**/vendor/**",
			"**/dist/**",
			"**/build/**",
			"**/target/**",
		},
	}
}

// Load finds and parses the project settings document under root, falling
// back to New(root) when no document is present. settingsPath, when
// non-empty, overrides the default `<root>/.filecleaner.kdl` location (the
// CLI's global `--settings` flag).
func Load(root, settingsPath string) (*Config, error) {
	path := settingsPath
	if path == "" {
		path = filepath.Join(root, ".filecleaner.kdl")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(root), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := parseKDL(string(content), root)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
