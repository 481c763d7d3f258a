package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/caress/compiler"
)

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	tomlContent := `
[project]
name = "years"
entry = "src/leap.mc"

[compiler]
comments = "names"

[output]
path = "build/leap.bf"
run-length = true
optimize = true
profile = "leap.prof"

[cache]
enabled = true
path = "/var/cache/caress.db"

[machine]
max-steps = 1000000
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Project.Name != "years" {
		t.Errorf("project name = %q, want years", m.Project.Name)
	}
	if m.EntryPath() != filepath.Join(m.Dir, "src", "leap.mc") {
		t.Errorf("entry path = %q", m.EntryPath())
	}
	if m.OutputPath() != filepath.Join(m.Dir, "build", "leap.bf") {
		t.Errorf("output path = %q", m.OutputPath())
	}
	if !m.Output.RunLength || !m.Output.Optimize {
		t.Errorf("output flags = %+v", m.Output)
	}
	if m.ProfilePath() != filepath.Join(m.Dir, "leap.prof") {
		t.Errorf("profile path = %q", m.ProfilePath())
	}
	if !m.Cache.Enabled || m.CachePath() != "/var/cache/caress.db" {
		t.Errorf("cache = %+v, path %q", m.Cache, m.CachePath())
	}
	if m.Machine.MaxSteps != 1000000 {
		t.Errorf("max-steps = %d, want 1000000", m.Machine.MaxSteps)
	}
	if m.Options().Comments != compiler.CommentsNames {
		t.Errorf("comments = %s, want names", m.Options().Comments)
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	dir := t.TempDir()
	tomlContent := `
[project]
name = "minimal"
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Project.Entry != "main.mc" {
		t.Errorf("entry = %q, want main.mc", m.Project.Entry)
	}
	if m.Output.Path != "main.bf" {
		t.Errorf("output path = %q, want main.bf", m.Output.Path)
	}
	if m.Options().Comments != compiler.CommentsNone {
		t.Errorf("comments = %s, want none", m.Options().Comments)
	}
	if m.Cache.Enabled || m.CachePath() != "" || m.ProfilePath() != "" {
		t.Errorf("cache and profile should be off by default: %+v", m)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"bad verbosity", "[compiler]\ncomments = \"loud\"\n"},
		{"unknown key", "[output]\nformat = \"x\"\n"},
		{"bad syntax", "[project\n"},
		{"wrong type", "[machine]\nmax-steps = \"many\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.toml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("[project]\nname = \"found\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	deep := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(deep, 0755); err != nil {
		t.Fatal(err)
	}

	m, err := FindAndLoad(deep)
	if err != nil {
		t.Fatalf("FindAndLoad: %v", err)
	}
	if m == nil || m.Project.Name != "found" {
		t.Fatalf("manifest = %+v", m)
	}
	if want, _ := filepath.Abs(root); m.Dir != want {
		t.Errorf("Dir = %q, want %q", m.Dir, want)
	}
}

func TestFindAndLoadNoManifest(t *testing.T) {
	if _, err := FindAndLoad(t.TempDir()); err != nil {
		t.Fatalf("FindAndLoad: %v", err)
	}
}
