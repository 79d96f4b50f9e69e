// pkg/core/config.go
package core

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds venvod configuration
type Config struct {
	Builder             string         `yaml:"builder"`   // venv, virtualenv, uv or auto
	Installer           string         `yaml:"installer"` // pip or uv
	Python              string         `yaml:"python"`    // Interpreter used to create environments
	TempDir             string         `yaml:"temp_dir"`  // Parent of deferred environments
	EnvsDir             string         `yaml:"envs_dir"`
	CacheDir            string         `yaml:"cache_dir"`
	DeferSetup          bool           `yaml:"defer_setup"`
	RetryFailedPackages bool           `yaml:"retry_failed_packages"`
	SystemSitePackages  bool           `yaml:"system_site_packages"`
	Relocatable         bool           `yaml:"relocatable"`
	Template            string         `yaml:"template"` // Snapshot archive used to seed new environments
	Registry            RegistryConfig `yaml:"registry"`
	Debug               bool           `yaml:"debug"`
}

// RegistryConfig locates the import-name alias registry
type RegistryConfig struct {
	Path   string `yaml:"path"`   // Local aliases.toml overlaid on the built-in table
	URL    string `yaml:"url"`    // Git repository synced by "venvod registry sync"
	Branch string `yaml:"branch"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Builder:            "auto",
		Installer:          "pip",
		Python:             "", // Auto-detect
		EnvsDir:            getDefaultEnvsDir(),
		CacheDir:           getDefaultCacheDir(),
		DeferSetup:         true,
		SystemSitePackages: true,
		Registry: RegistryConfig{
			Branch: "main",
		},
	}
}

// DefaultConfigPath returns ~/.config/venvod/config.yaml
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "venvod", "config.yaml"), nil
}

// LoadConfig loads configuration from file
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func getDefaultEnvsDir() string {
	if path := os.Getenv("VENVOD_ENVS_DIR"); path != "" {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "venvod", "envs")
	}

	return filepath.Join(home, ".venvod", "envs")
}

func getDefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "venvod-cache")
	}
	return filepath.Join(dir, "venvod")
}
