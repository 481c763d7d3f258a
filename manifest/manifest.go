// Package manifest handles caress.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/chazu/caress/compiler"
)

// FileName is the name of the project file.
const FileName = "caress.toml"

// Manifest represents a caress.toml project configuration.
type Manifest struct {
	Project  Project        `toml:"project"`
	Compiler CompilerConfig `toml:"compiler"`
	Output   Output         `toml:"output"`
	Cache    CacheConfig    `toml:"cache"`
	Machine  Machine        `toml:"machine"`

	// Dir is the directory containing the caress.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name  string `toml:"name"`
	Entry string `toml:"entry"`
}

// CompilerConfig configures code generation.
type CompilerConfig struct {
	Comments string `toml:"comments"`
}

// Output configures the generated program file.
type Output struct {
	Path      string `toml:"path"`
	RunLength bool   `toml:"run-length"`
	Optimize  bool   `toml:"optimize"`
	Profile   string `toml:"profile"`
}

// CacheConfig configures the compile cache.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Machine configures the interpreter.
type Machine struct {
	MaxSteps uint64 `toml:"max-steps"`
}

// Load parses a caress.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	return m, nil
}

// Parse decodes manifest text and fills in defaults. Dir is left empty.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	// Defaults
	if m.Project.Entry == "" {
		m.Project.Entry = "main.mc"
	}
	if m.Compiler.Comments == "" {
		m.Compiler.Comments = compiler.CommentsNone.String()
	}
	if m.Output.Path == "" {
		m.Output.Path = strings.TrimSuffix(m.Project.Entry, filepath.Ext(m.Project.Entry)) + ".bf"
	}

	if _, err := compiler.ParseCommentVerbosity(m.Compiler.Comments); err != nil {
		return nil, fmt.Errorf("compiler.comments: %w", err)
	}
	return &m, nil
}

// FindAndLoad walks up from startDir to find a caress.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// Options returns the code generation options the manifest selects.
func (m *Manifest) Options() compiler.Options {
	v, _ := compiler.ParseCommentVerbosity(m.Compiler.Comments)
	return compiler.Options{Comments: v}
}

// EntryPath returns the absolute path of the entry source file.
func (m *Manifest) EntryPath() string {
	return m.resolve(m.Project.Entry)
}

// OutputPath returns the absolute path of the generated program.
func (m *Manifest) OutputPath() string {
	return m.resolve(m.Output.Path)
}

// ProfilePath returns the absolute path of the loop profile, or "" when
// none is configured.
func (m *Manifest) ProfilePath() string {
	if m.Output.Profile == "" {
		return ""
	}
	return m.resolve(m.Output.Profile)
}

// CachePath returns the absolute path of the cache database, or "" when
// the default location should be used.
func (m *Manifest) CachePath() string {
	if m.Cache.Path == "" {
		return ""
	}
	return m.resolve(m.Cache.Path)
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Dir, p)
}
