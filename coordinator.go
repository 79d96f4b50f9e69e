// coordinator.go
package venvod

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/arc-language/venvod/pkg/activation"
	"github.com/arc-language/venvod/pkg/core"
	"github.com/arc-language/venvod/pkg/env"
	"github.com/arc-language/venvod/pkg/registry"
	"github.com/arc-language/venvod/pkg/requirements"
	"github.com/arc-language/venvod/pkg/resolve"
)

// Coordinator owns the global environment, the resolution hook and the set of
// packages known to fail. All of its methods are safe for concurrent use.
//
// The global environment moves Unset -> Deferred -> Built or Unset -> Built.
// A Deferred environment is built once, on the first import that needs it.
type Coordinator struct {
	runtime   *resolve.Runtime
	activator *activation.Manager
	builder   core.Builder
	installer core.Installer
	registry  *registry.Registry
	logger    *log.Logger
	hook      *Hook

	defaults []EnableOption // applied before the options passed to Enable

	mu           sync.Mutex
	current      env.Environment // nil until Enable or SetGlobalEnvironment
	fromDeferred bool            // current was built from a deferred environment
	hookEnabled  bool
	building     bool // deferred build in progress, hook out of the chain
	memoize      bool
	failures     map[string]struct{} // leaf package names

	debug  atomic.Bool
	builds singleflight.Group
}

// NewCoordinator returns a coordinator driving rt. Failure memoization is on
// until Enable says otherwise.
func NewCoordinator(rt *resolve.Runtime, b core.Builder, i core.Installer, opts ...Option) *Coordinator {
	c := &Coordinator{
		runtime:   rt,
		builder:   b,
		installer: i,
		memoize:   true,
		failures:  make(map[string]struct{}),
	}
	c.hook = &Hook{c: c}
	for _, opt := range opts {
		opt(c)
	}
	if c.activator == nil {
		c.activator = activation.NewManager(rt.SearchPath())
	}
	if c.logger == nil {
		c.logger = log.New(os.Stderr, "[venvod] ", log.LstdFlags)
	}
	return c
}

// Runtime returns the module runtime the coordinator drives.
func (c *Coordinator) Runtime() *resolve.Runtime {
	return c.runtime
}

// Hook returns the coordinator's resolution hook.
func (c *Coordinator) Hook() *Hook {
	return c.hook
}

// Enable turns on the on-demand importer. By default the global environment is
// only built on the first import that needs it. Enable is a no-op while the
// hook is enabled; during a deferred build it only re-enables the hook.
func (c *Coordinator) Enable(ctx context.Context, opts ...EnableOption) error {
	cfg := enableConfig{deferSetup: true}
	for _, opt := range c.defaults {
		opt(&cfg)
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hookEnabled {
		return nil
	}
	if c.building {
		_, err := c.toggleLocked(true)
		return err
	}

	var e env.Environment
	if cfg.deferSetup {
		parent := cfg.tempDir
		if parent == "" {
			parent = os.TempDir()
		}
		e = env.NewDeferred(parent)
		c.debugf("Enabled with deferred environment in %s", parent)
	} else {
		d, err := c.build(ctx, cfg.tempDir)
		if err != nil {
			return &Error{Op: "enable", Err: err}
		}
		e = d
		c.debugf("Enabled with environment %s", d.Root())
	}

	c.current = e
	c.fromDeferred = false
	c.memoize = !cfg.retry
	c.failures = make(map[string]struct{})

	_, err := c.toggleLocked(true)
	return err
}

// Disable removes the hook from the resolution chain. The global environment
// stays set.
func (c *Coordinator) Disable() (bool, error) {
	return c.Toggle(false)
}

// Toggle inserts or removes the hook. It reports whether the chain changed.
// Enabling fails with ErrUsage when no global environment is set.
func (c *Coordinator) Toggle(active bool) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.toggleLocked(active)
}

func isHook(r resolve.Resolver) bool {
	_, ok := r.(*Hook)
	return ok
}

func (c *Coordinator) toggleLocked(active bool) (bool, error) {
	if !active {
		removed := c.runtime.RemoveResolvers(isHook)
		changed := removed > 0 || c.hookEnabled
		c.hookEnabled = false
		return changed, nil
	}

	if c.current == nil {
		return false, &Error{Op: "toggle", Err: ErrUsage}
	}
	if c.building {
		// Reinserted when the build finishes
		changed := !c.hookEnabled
		c.hookEnabled = true
		return changed, nil
	}
	c.hookEnabled = true
	if c.runtime.HasResolver(isHook) {
		return false, nil
	}
	c.runtime.InsertResolver(c.hook)
	return true, nil
}

// HookEnabled reports whether the hook is enabled.
func (c *Coordinator) HookEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hookEnabled
}

// SetGlobalEnvironment activates d and makes it the global environment. With
// autoEnable the hook is enabled too.
func (c *Coordinator) SetGlobalEnvironment(d *env.Descriptor, autoEnable bool) error {
	if d == nil {
		return &Error{Op: "set global environment", Err: ErrUsage}
	}
	if err := c.activator.Activate(d); err != nil {
		return &Error{Op: "set global environment", Package: d.Root(), Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = d
	c.fromDeferred = false
	c.debugf("Global environment set to %s", d.Root())

	if autoEnable {
		if _, err := c.toggleLocked(true); err != nil {
			return err
		}
	}
	return nil
}

// SetGlobalEnvironmentPath discovers and validates the environment at path,
// then behaves like SetGlobalEnvironment.
func (c *Coordinator) SetGlobalEnvironmentPath(path string, autoEnable bool) error {
	d, err := env.Discover(path)
	if err != nil {
		return &Error{Op: "set global environment", Package: path, Err: err}
	}
	return c.SetGlobalEnvironment(d, autoEnable)
}

// GlobalEnvironmentInfo returns the global environment, which may be nil or
// a *env.Deferred. It never builds.
func (c *Coordinator) GlobalEnvironmentInfo() env.Environment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// ToggleDebug sets the debug flag and returns its previous value.
func (c *Coordinator) ToggleDebug(on bool) bool {
	return c.debug.Swap(on)
}

// KnownFailures returns the memoized leaf package names, sorted.
func (c *Coordinator) KnownFailures() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.failures))
	for name := range c.failures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Import imports name through the runtime, consulting the hook when enabled.
func (c *Coordinator) Import(ctx context.Context, name string) (*resolve.Module, error) {
	return c.runtime.Import(ctx, name)
}

// EnsureImportGlobal imports name, installing it into the global environment
// if it cannot be found. A deferred environment is built first. The hook must
// be enabled.
//
// When the environment built from a deferred one has vanished, it is rebuilt
// once and the install retried.
func (c *Coordinator) EnsureImportGlobal(ctx context.Context, name string, opts ...ImportOption) (*resolve.Module, error) {
	var cfg importConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if !c.HookEnabled() {
		return nil, &Error{Op: "ensure import", Package: name, Err: ErrUsage}
	}

	if m := c.runtime.Lookup(name); m != nil {
		return m, nil
	}
	if m, err := c.runtime.ImportDefault(name); err == nil {
		return m, nil
	}

	d, err := c.resolveDeferred(ctx)
	if err != nil {
		return nil, &Error{Op: "ensure import", Package: name, Err: err}
	}

	m, err := c.installAndImport(ctx, d, name, &cfg)
	if errors.Is(err, ErrEnvironmentMissing) && c.builtFromDeferred(d) {
		c.debugf("Environment %s is gone, rebuilding", d.Root())
		d, err = c.rebuild(ctx, d)
		if err != nil {
			return nil, &Error{Op: "ensure import", Package: name, Err: err}
		}
		m, err = c.installAndImport(ctx, d, name, &cfg)
	}
	if err != nil {
		return nil, &Error{Op: "ensure import", Package: name, Err: err}
	}
	return m, nil
}

// EnsureImport imports name, installing it into d if it cannot be found. The
// global environment is not involved.
func (c *Coordinator) EnsureImport(ctx context.Context, name string, d *env.Descriptor, opts ...ImportOption) (*resolve.Module, error) {
	var cfg importConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if m := c.runtime.Lookup(name); m != nil {
		return m, nil
	}
	if m, err := c.runtime.ImportDefault(name); err == nil {
		return m, nil
	}
	if err := c.activator.Activate(d); err != nil {
		return nil, &Error{Op: "ensure import", Package: name, Err: err}
	}

	m, err := c.installAndImport(ctx, d, name, &cfg)
	if err != nil {
		return nil, &Error{Op: "ensure import", Package: name, Err: err}
	}
	return m, nil
}

// CreateEnv builds an environment and activates it.
func (c *Coordinator) CreateEnv(ctx context.Context, req *core.BuildRequest) (*env.Descriptor, error) {
	d, err := c.builder.Build(ctx, req)
	if err != nil {
		return nil, &Error{Op: "create env", Err: setupError(err)}
	}
	if err := c.activator.Activate(d); err != nil {
		return nil, &Error{Op: "create env", Err: err}
	}
	return d, nil
}

// CreateEnvIfCannotImport builds and activates an environment only when name
// cannot be imported. It returns nil when name is already importable.
func (c *Coordinator) CreateEnvIfCannotImport(ctx context.Context, name string, req *core.BuildRequest) (*env.Descriptor, error) {
	if c.runtime.IsLoaded(name) {
		return nil, nil
	}
	if _, err := c.runtime.ImportDefault(name); err == nil {
		return nil, nil
	}
	return c.CreateEnv(ctx, req)
}

// Close releases temporary environments when the builder supports it.
func (c *Coordinator) Close() error {
	if closer, ok := c.builder.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (c *Coordinator) installAndImport(ctx context.Context, d *env.Descriptor, name string, cfg *importConfig) (*resolve.Module, error) {
	pkg := cfg.packageName
	if pkg == "" {
		pkg = c.registry.Resolve(name)
	}

	c.debugf("Installing %s for %s into %s", pkg, name, d.Root())
	_, installErr := c.installer.Install(ctx, requirements.Raw(pkg), d, &core.InstallOptions{
		Stdout: cfg.stdout,
		Stderr: cfg.stderr,
	})
	if errors.Is(installErr, ErrEnvironmentMissing) {
		return nil, installErr
	}

	m, err := c.runtime.ImportDefault(name)
	if err != nil {
		if installErr != nil {
			return nil, fmt.Errorf("%w (install: %w)", err, installErr)
		}
		return nil, err
	}
	return m, nil
}

// resolveDeferred returns the built global environment, building a deferred
// one first. Concurrent callers share a single build.
func (c *Coordinator) resolveDeferred(ctx context.Context) (*env.Descriptor, error) {
	return c.shared(ctx, "deferred", func(ctx context.Context) (*env.Descriptor, error) {
		c.mu.Lock()
		var deferred *env.Deferred
		switch cur := c.current.(type) {
		case *env.Descriptor:
			c.mu.Unlock()
			return cur, nil
		case *env.Deferred:
			deferred = cur
		default:
			c.mu.Unlock()
			return nil, ErrUsage
		}

		// Imports made while building must not re-enter the hook
		c.building = true
		c.runtime.RemoveResolvers(isHook)
		c.mu.Unlock()

		c.debugf("Building deferred environment in %s", deferred.ParentDir())
		d, err := c.build(ctx, deferred.ParentDir())

		c.mu.Lock()
		defer c.mu.Unlock()
		c.building = false
		if c.hookEnabled && !c.runtime.HasResolver(isHook) {
			c.runtime.InsertResolver(c.hook)
		}
		if err != nil {
			return nil, err
		}

		if c.current != env.Environment(deferred) {
			// Replaced by SetGlobalEnvironment while building
			if cur, ok := c.current.(*env.Descriptor); ok {
				return cur, nil
			}
		}
		c.current = d
		c.fromDeferred = true
		return d, nil
	})
}

// rebuild replaces a vanished environment with a fresh one in the same parent
// directory.
func (c *Coordinator) rebuild(ctx context.Context, stale *env.Descriptor) (*env.Descriptor, error) {
	return c.shared(ctx, "rebuild:"+stale.Root(), func(ctx context.Context) (*env.Descriptor, error) {
		d, err := c.build(ctx, filepath.Dir(stale.Root()))
		if err != nil {
			return nil, err
		}
		c.activator.Deactivate(stale)

		c.mu.Lock()
		defer c.mu.Unlock()
		if cur, ok := c.current.(*env.Descriptor); ok && cur == stale {
			c.current = d
			c.fromDeferred = true
		}
		return d, nil
	})
}

// shared runs fn once for all concurrent callers of key. The build is not
// cancelled with the caller that started it; each caller stops waiting when
// its own ctx is done.
func (c *Coordinator) shared(ctx context.Context, key string, fn func(context.Context) (*env.Descriptor, error)) (*env.Descriptor, error) {
	ch := c.builds.DoChan(key, func() (any, error) {
		return fn(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*env.Descriptor), nil
	}
}

// build creates an empty temporary environment and activates it.
func (c *Coordinator) build(ctx context.Context, parent string) (*env.Descriptor, error) {
	d, err := c.builder.Build(ctx, &core.BuildRequest{ParentDir: parent, DeleteOnClose: true})
	if err != nil {
		return nil, setupError(err)
	}
	if err := c.activator.Activate(d); err != nil {
		return nil, setupError(err)
	}
	return d, nil
}

func (c *Coordinator) builtFromDeferred(d *env.Descriptor) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur, ok := c.current.(*env.Descriptor)
	return ok && cur == d && c.fromDeferred
}

func (c *Coordinator) debugf(format string, args ...any) {
	if c.debug.Load() {
		c.logger.Printf(format, args...)
	}
}

func setupError(err error) error {
	if errors.Is(err, ErrSetupFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrSetupFailed, err)
}
