package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Bind != ":8080" {
		t.Errorf("expected default bind, got %q", cfg.Server.Bind)
	}
	if cfg.Collaborators.Enabled {
		t.Error("collaborators should be disabled by default")
	}
	if cfg.Collaborators.TimeoutSeconds != 5 {
		t.Errorf("expected default timeout 5, got %d", cfg.Collaborators.TimeoutSeconds)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
bind = ":9090"
db_path = "portal.sqlite3"

[collaborators]
enabled = true
base_url = "http://localhost:8000"
timeout_seconds = 3
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Bind != ":9090" {
		t.Errorf("bind = %q, want :9090", cfg.Server.Bind)
	}
	if cfg.Server.DBPath != "portal.sqlite3" {
		t.Errorf("db_path = %q", cfg.Server.DBPath)
	}
	if !cfg.Collaborators.Enabled || cfg.Collaborators.BaseURL != "http://localhost:8000" {
		t.Errorf("collaborators not loaded: %+v", cfg.Collaborators)
	}
	if cfg.Collaborators.TimeoutSeconds != 3 {
		t.Errorf("timeout = %d, want 3", cfg.Collaborators.TimeoutSeconds)
	}
}

func TestLoadRejectsEnabledWithoutBaseURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[collaborators]
enabled = true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for enabled collaborators without base_url")
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed TOML")
	}
}
