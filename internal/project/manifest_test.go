package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, data string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write taglint.toml: %v", err)
	}
	return path
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeManifest(t, root, "[project]\nname = \"demo\"\n")

	nested := filepath.Join(root, "src", "main", "java")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, ok, err := Find(nested)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !ok {
		t.Fatalf("expected manifest to be found")
	}
	if got != want {
		t.Fatalf("Find = %q, want %q", got, want)
	}
}

func TestFindMissing(t *testing.T) {
	_, ok, err := Find(t.TempDir())
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if ok {
		t.Fatalf("expected no manifest in an empty tree")
	}
}

func TestLoadConfig(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, `# test manifest
[project]
name = "demo"

[analyze]
path = "src/main/java"
tags = "tags.toml"
fail_on = "MEDIUM"
jobs = 4
include = ["src/**"]
exclude = ["**/generated/**"]
respect_gitignore = true
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Project.Name != "demo" {
		t.Fatalf("Project.Name = %q, want demo", cfg.Project.Name)
	}
	if cfg.Analyze.Path != "src/main/java" {
		t.Fatalf("Analyze.Path = %q", cfg.Analyze.Path)
	}
	if cfg.Analyze.FailOn != "MEDIUM" {
		t.Fatalf("Analyze.FailOn = %q", cfg.Analyze.FailOn)
	}
	if cfg.Analyze.Jobs != 4 {
		t.Fatalf("Analyze.Jobs = %d, want 4", cfg.Analyze.Jobs)
	}
	if len(cfg.Analyze.Include) != 1 || cfg.Analyze.Include[0] != "src/**" {
		t.Fatalf("Analyze.Include = %v", cfg.Analyze.Include)
	}
	if !cfg.Analyze.RespectGitignore {
		t.Fatalf("Analyze.RespectGitignore = false, want true")
	}
}

func TestLoadConfigRejectsMissingName(t *testing.T) {
	root := t.TempDir()
	for _, data := range []string{
		"[analyze]\npath = \".\"\n",
		"[project]\nname = \"  \"\n",
	} {
		path := writeManifest(t, root, data)
		if _, err := LoadConfig(path); err == nil {
			t.Fatalf("expected error for manifest %q", data)
		}
	}
}

func TestLoadReportsParseErrors(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[project\nname =")

	_, ok, err := Load(root)
	if !ok {
		t.Fatal("a broken manifest still exists and must report ok")
	}
	if err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestResolvePath(t *testing.T) {
	m := &Manifest{Root: filepath.Join("/proj")}
	if got := m.ResolvePath("src/main"); got != filepath.Join("/proj", "src", "main") {
		t.Fatalf("ResolvePath relative = %q", got)
	}
	if got := m.ResolvePath(""); got != "" {
		t.Fatalf("ResolvePath empty = %q", got)
	}
	abs := filepath.Join("/somewhere", "else")
	if got := m.ResolvePath(abs); got != abs {
		t.Fatalf("ResolvePath absolute = %q", got)
	}
}

func TestDefaultRoundTrips(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, Default("demo", true))

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("generated manifest does not load: %v", err)
	}
	if cfg.Project.Name != "demo" {
		t.Fatalf("Project.Name = %q, want demo", cfg.Project.Name)
	}
	if cfg.Analyze.Tags != "tags.toml" {
		t.Fatalf("Analyze.Tags = %q, want tags.toml", cfg.Analyze.Tags)
	}
}
