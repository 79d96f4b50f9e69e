package venvod

import (
	"io"
	"log"

	"github.com/arc-language/venvod/pkg/activation"
	"github.com/arc-language/venvod/pkg/core"
	"github.com/arc-language/venvod/pkg/registry"
)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger debug lines are written to.
func WithLogger(l *log.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithDebug sets the initial debug flag. See Coordinator.ToggleDebug.
func WithDebug(on bool) Option {
	return func(c *Coordinator) { c.debug.Store(on) }
}

// WithRegistry maps import names to distributions before installing.
func WithRegistry(r *registry.Registry) Option {
	return func(c *Coordinator) { c.registry = r }
}

// WithActivator replaces the activation manager. By default the coordinator
// activates against the runtime's search path.
func WithActivator(a *activation.Manager) Option {
	return func(c *Coordinator) { c.activator = a }
}

// WithBuilder replaces the environment builder.
func WithBuilder(b core.Builder) Option {
	return func(c *Coordinator) { c.builder = b }
}

// WithInstaller replaces the package installer.
func WithInstaller(i core.Installer) Option {
	return func(c *Coordinator) { c.installer = i }
}

// WithEnableDefaults sets options applied on every Enable before the ones
// passed to it.
func WithEnableDefaults(opts ...EnableOption) Option {
	return func(c *Coordinator) { c.defaults = append(c.defaults, opts...) }
}

type enableConfig struct {
	tempDir    string
	deferSetup bool
	retry      bool
}

// EnableOption configures Coordinator.Enable.
type EnableOption func(*enableConfig)

// WithTempDir sets the directory the global environment is created in.
// Defaults to os.TempDir().
func WithTempDir(dir string) EnableOption {
	return func(c *enableConfig) { c.tempDir = dir }
}

// WithImmediateSetup builds the environment inside Enable instead of on the
// first failed import.
func WithImmediateSetup() EnableOption {
	return WithDeferredSetup(false)
}

// WithDeferredSetup chooses between building on the first failed import
// (the default) and building inside Enable.
func WithDeferredSetup(deferred bool) EnableOption {
	return func(c *enableConfig) { c.deferSetup = deferred }
}

// WithRetryFailedPackages disables failure memoization, so every failed
// import attempts an install.
func WithRetryFailedPackages() EnableOption {
	return func(c *enableConfig) { c.retry = true }
}

// WithMemoization turns failure memoization on or off.
func WithMemoization(on bool) EnableOption {
	return func(c *enableConfig) { c.retry = !on }
}

type importConfig struct {
	packageName string
	stdout      io.Writer
	stderr      io.Writer
}

// ImportOption configures EnsureImportGlobal and EnsureImport.
type ImportOption func(*importConfig)

// WithPackageName installs name instead of the module being imported.
func WithPackageName(name string) ImportOption {
	return func(c *importConfig) { c.packageName = name }
}

// WithOutput streams installer output. Nil writers discard.
func WithOutput(stdout, stderr io.Writer) ImportOption {
	return func(c *importConfig) {
		c.stdout = stdout
		c.stderr = stderr
	}
}

type setupConfig struct {
	version        string
	forceInstall   bool
	enableOnDemand bool
}

// SetupOption configures SetupAndActivate.
type SetupOption func(*setupConfig)

// WithVersion records a caller version in the environment. Packages are
// reinstalled when a later call passes a higher version.
func WithVersion(v string) SetupOption {
	return func(c *setupConfig) { c.version = v }
}

// WithForceInstall installs packages on every call.
func WithForceInstall() SetupOption {
	return func(c *setupConfig) { c.forceInstall = true }
}

// WithOnDemandImporter makes the environment global and enables the hook.
func WithOnDemandImporter() SetupOption {
	return func(c *setupConfig) { c.enableOnDemand = true }
}
