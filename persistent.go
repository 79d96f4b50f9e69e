// persistent.go
package venvod

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/arc-language/venvod/pkg/core"
	"github.com/arc-language/venvod/pkg/env"
	"github.com/arc-language/venvod/pkg/requirements"
	"github.com/arc-language/venvod/pkg/version"
)

// SetupAndActivate creates or reuses the environment parentDir/name and
// activates it.
//
// An existing environment only gets pkgs installed when WithForceInstall is
// given or when WithVersion passes a version higher than the one recorded in
// the environment. A directory that is not a valid environment is rebuilt in
// place.
func (c *Coordinator) SetupAndActivate(ctx context.Context, parentDir, name string, pkgs requirements.Packages, opts ...SetupOption) (*env.Descriptor, error) {
	var cfg setupConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	root := filepath.Join(parentDir, name)
	doInstall := cfg.forceInstall
	if !doInstall && cfg.version != "" {
		doInstall = c.versionOutdated(root, cfg.version)
	}

	d := c.existing(root)
	if d == nil {
		var err error
		if d, err = c.buildNamed(ctx, parentDir, name, pkgs); err != nil {
			return nil, err
		}
		c.writeVersion(d, cfg.version)
	} else if doInstall {
		opts := &core.InstallOptions{}
		if c.debug.Load() {
			opts.Stdout, opts.Stderr = c.logger.Writer(), c.logger.Writer()
		}
		if _, err := c.installer.Install(ctx, pkgs, d, opts); err != nil {
			return nil, &Error{Op: "setup", Package: name, Err: err}
		}
		c.writeVersion(d, cfg.version)
	}

	if err := c.activator.Activate(d); err != nil {
		return nil, &Error{Op: "setup", Package: name, Err: err}
	}

	if cfg.enableOnDemand {
		if err := c.SetGlobalEnvironment(d, true); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// existing returns the usable environment at root, or nil when it has to be
// built.
func (c *Coordinator) existing(root string) *env.Descriptor {
	if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
		c.debugf("Creating environment %s", root)
		return nil
	}
	d, err := env.Discover(root)
	if err != nil {
		c.debugf("Cannot use %s, recreating: %v", root, err)
		return nil
	}
	c.debugf("Using existing environment %s", root)
	return d
}

func (c *Coordinator) buildNamed(ctx context.Context, parentDir, name string, pkgs requirements.Packages) (*env.Descriptor, error) {
	d, err := c.builder.Build(ctx, &core.BuildRequest{ParentDir: parentDir, Name: name, Packages: pkgs})
	if err != nil {
		return nil, &Error{Op: "setup", Package: name, Err: setupError(err)}
	}
	return d, nil
}

// versionOutdated reports whether the recorded version is missing, unreadable
// or lower than want.
func (c *Coordinator) versionOutdated(root, want string) bool {
	data, err := os.ReadFile(filepath.Join(root, env.MarkerFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true
		}
		c.debugf("Cannot read version marker in %s, skipping version check: %v", root, err)
		return false
	}
	current := strings.TrimSpace(string(data))
	return current == "" || version.Compare(current, want) < 0
}

func (c *Coordinator) writeVersion(d *env.Descriptor, v string) {
	if v == "" {
		return
	}
	if err := env.WriteMarker(d, v); err != nil {
		c.debugf("Failed to record version %s in %s: %v", v, d.Root(), err)
	}
}
