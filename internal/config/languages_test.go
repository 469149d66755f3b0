package config

import (
	"path/filepath"
	"testing"
)

func TestLanguagesMatch(t *testing.T) {
	cfg := Languages{
		Languages: []Language{
			{Name: "go", FileTypes: []string{"go", "go.mod", ".go"}},
			{Name: "git", FileTypes: []string{".gitignore", "Makefile"}},
		},
	}

	if got := cfg.Match("main.go"); got == nil || got.Name != "go" {
		t.Fatalf("Match main.go = %#v, want go", got)
	}
	if got := cfg.Match("go.mod"); got == nil || got.Name != "go" {
		t.Fatalf("Match go.mod = %#v, want go", got)
	}
	if got := cfg.Match(".gitignore"); got == nil || got.Name != "git" {
		t.Fatalf("Match .gitignore = %#v, want git", got)
	}
	if got := cfg.Match("Makefile"); got == nil || got.Name != "git" {
		t.Fatalf("Match Makefile = %#v, want git", got)
	}
	if got := cfg.Match("unknown.txt"); got != nil {
		t.Fatalf("Match unknown.txt = %#v, want nil", got)
	}
}

func TestDefaultLanguagesMatch(t *testing.T) {
	langs := DefaultLanguages()
	cases := map[string]string{
		"main.go":         "go",
		"config.toml":     "toml",
		"ci.yml":          "yaml",
		"deploy.yaml":     "yaml",
		"build.sh":        "bash",
		"/home/x/.bashrc": "bash",
	}
	for path, want := range cases {
		got := langs.Match(path)
		if got == nil || got.Name != want {
			t.Fatalf("Match %q = %#v, want %q", path, got, want)
		}
	}
}

func TestLoadLanguages(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GAPEDIT_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "languages.toml"), `
[[language]]
name = "shell"
file-types = ["sh", "zsh"]
grammar = "bash"
`)

	cfg, err := LoadLanguages()
	if err != nil {
		t.Fatalf("LoadLanguages error: %v", err)
	}
	if len(cfg.Languages) != 1 {
		t.Fatalf("Languages len = %d, want 1", len(cfg.Languages))
	}
	lang := cfg.Match("init.zsh")
	if lang == nil {
		t.Fatalf("Match init.zsh = nil")
	}
	if lang.GrammarName() != "bash" {
		t.Fatalf("GrammarName = %q, want %q", lang.GrammarName(), "bash")
	}
}

func TestLoadLanguagesMissing(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GAPEDIT_CONFIG_HOME", dir)

	cfg, err := LoadLanguages()
	if err != nil {
		t.Fatalf("LoadLanguages error: %v", err)
	}
	if len(cfg.Languages) != len(DefaultLanguages().Languages) {
		t.Fatalf("Languages len = %d, want defaults", len(cfg.Languages))
	}
	if got := cfg.Match("main.go"); got == nil || got.GrammarName() != "go" {
		t.Fatalf("Match main.go = %#v, want go", got)
	}
}
