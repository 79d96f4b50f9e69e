package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !cfg.DeferSetup || cfg.Builder != "auto" || cfg.Installer != "pip" {
		t.Errorf("LoadConfig() = %+v, want defaults", cfg)
	}
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "installer: uv\nretry_failed_packages: true\nregistry:\n  url: https://example.com/aliases.git\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Installer != "uv" || !cfg.RetryFailedPackages {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if !cfg.DeferSetup || cfg.Builder != "auto" {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cfg.Registry.URL != "https://example.com/aliases.git" || cfg.Registry.Branch != "main" {
		t.Errorf("Registry = %+v", cfg.Registry)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("builder: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig() should reject malformed YAML")
	}
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Builder = "uv"
	cfg.Relocatable = true

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Builder != "uv" || !got.Relocatable {
		t.Errorf("LoadConfig() after save = %+v", got)
	}
}
