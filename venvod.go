// venvod.go
package venvod

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/arc-language/venvod/pkg/activation"
	"github.com/arc-language/venvod/pkg/builder"
	"github.com/arc-language/venvod/pkg/core"
	"github.com/arc-language/venvod/pkg/env"
	"github.com/arc-language/venvod/pkg/installer"
	"github.com/arc-language/venvod/pkg/registry"
	"github.com/arc-language/venvod/pkg/requirements"
	"github.com/arc-language/venvod/pkg/resolve"
)

// Re-export common types for convenience
type (
	Config       = core.Config
	BuildRequest = core.BuildRequest
	Descriptor   = env.Descriptor
	Environment  = env.Environment
	Module       = resolve.Module
	Packages     = requirements.Packages
	Raw          = requirements.Raw
	List         = requirements.List
	Mapping      = requirements.Mapping
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return core.DefaultConfig()
}

// New creates a coordinator from configuration. The runtime searches
// PYTHONPATH. The temp_dir, defer_setup and retry_failed_packages settings
// become Enable defaults.
func New(cfg *Config, opts ...Option) (*Coordinator, error) {
	if cfg == nil {
		cfg = core.DefaultConfig()
	}

	var logger *log.Logger
	if cfg.Debug {
		logger = log.New(os.Stderr, "[venvod] ", log.LstdFlags)
	}

	inst := installer.New(&installer.Config{
		Backend: installer.Backend(cfg.Installer),
		Debug:   cfg.Debug,
		Logger:  logger,
	})

	b := builder.New(&builder.Config{
		Backend:            builder.Backend(cfg.Builder),
		Python:             cfg.Python,
		SystemSitePackages: cfg.SystemSitePackages,
		Relocatable:        cfg.Relocatable,
		Template:           cfg.Template,
		Installer:          inst,
		Debug:              cfg.Debug,
		Logger:             logger,
	})

	aliasPath := cfg.Registry.Path
	if aliasPath == "" && cfg.CacheDir != "" {
		aliasPath = registry.CachePath(cfg.CacheDir)
	}
	reg, err := registry.Load(aliasPath)
	if err != nil {
		return nil, fmt.Errorf("loading alias registry: %w", err)
	}

	rt := resolve.NewRuntime(activation.FromEnv("PYTHONPATH"))
	base := []Option{
		WithRegistry(reg),
		WithDebug(cfg.Debug),
		WithEnableDefaults(
			WithTempDir(cfg.TempDir),
			WithDeferredSetup(cfg.DeferSetup),
			WithMemoization(!cfg.RetryFailedPackages),
		),
	}
	if logger != nil {
		base = append(base, WithLogger(logger))
	}
	return NewCoordinator(rt, b, inst, append(base, opts...)...), nil
}

var (
	defaultOnce        sync.Once
	defaultMu          sync.Mutex
	defaultCoordinator *Coordinator
)

// Default returns the process-wide coordinator, creating it from the user
// configuration on first use.
func Default() *Coordinator {
	defaultOnce.Do(func() {
		defaultMu.Lock()
		defer defaultMu.Unlock()
		if defaultCoordinator != nil {
			return
		}
		cfg, err := core.LoadConfig("")
		if err != nil {
			cfg = core.DefaultConfig()
		}
		c, err := New(cfg)
		if err != nil {
			c, _ = New(core.DefaultConfig())
		}
		defaultCoordinator = c
	})

	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultCoordinator
}

// SetDefault replaces the process-wide coordinator.
func SetDefault(c *Coordinator) {
	defaultOnce.Do(func() {})
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultCoordinator = c
}

// Enable turns on the on-demand importer of the default coordinator.
func Enable(ctx context.Context, opts ...EnableOption) error {
	return Default().Enable(ctx, opts...)
}

// Disable removes the default coordinator's hook.
func Disable() (bool, error) {
	return Default().Disable()
}

// Toggle inserts or removes the default coordinator's hook.
func Toggle(active bool) (bool, error) {
	return Default().Toggle(active)
}

// SetGlobalEnvironment sets the default coordinator's global environment.
func SetGlobalEnvironment(d *Descriptor, autoEnable bool) error {
	return Default().SetGlobalEnvironment(d, autoEnable)
}

// SetGlobalEnvironmentPath sets the default coordinator's global environment
// from a directory.
func SetGlobalEnvironmentPath(path string, autoEnable bool) error {
	return Default().SetGlobalEnvironmentPath(path, autoEnable)
}

// GlobalEnvironmentInfo returns the default coordinator's global environment.
func GlobalEnvironmentInfo() Environment {
	return Default().GlobalEnvironmentInfo()
}

// EnsureImportGlobal imports name through the default coordinator,
// installing it when needed.
func EnsureImportGlobal(ctx context.Context, name string, opts ...ImportOption) (*Module, error) {
	return Default().EnsureImportGlobal(ctx, name, opts...)
}

// Import imports name through the default coordinator's runtime.
func Import(ctx context.Context, name string) (*Module, error) {
	return Default().Import(ctx, name)
}

// ToggleDebug sets the default coordinator's debug flag and returns the old value.
func ToggleDebug(on bool) bool {
	return Default().ToggleDebug(on)
}

// SetupAndActivate creates or reuses a persistent environment with the
// default coordinator.
func SetupAndActivate(ctx context.Context, parentDir, name string, pkgs Packages, opts ...SetupOption) (*Descriptor, error) {
	return Default().SetupAndActivate(ctx, parentDir, name, pkgs, opts...)
}

// Close removes the default coordinator's temporary environments.
func Close() error {
	return Default().Close()
}
