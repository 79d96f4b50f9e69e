// hook.go
package venvod

import (
	"context"

	"github.com/arc-language/venvod/pkg/requirements"
	"github.com/arc-language/venvod/pkg/resolve"
)

// Hook is the resolver the coordinator inserts at the front of the
// resolution chain. It never resolves anything itself: on a miss it installs
// the leaf package into the global environment and declines, so the default
// finder picks up whatever was installed.
type Hook struct {
	c *Coordinator
}

var _ resolve.Resolver = (*Hook)(nil)

// FindModule implements resolve.Resolver. It always returns nil.
func (h *Hook) FindModule(ctx context.Context, fullname string, path []string) *resolve.Spec {
	c := h.c

	// Submodules are resolved against their parent package only
	if len(path) > 0 {
		return nil
	}

	leaf := resolve.Leaf(fullname)
	if c.runtime.IsLoaded(fullname) || c.runtime.IsLoaded(leaf) {
		return nil
	}
	if c.runtime.FindDefault(fullname) != nil || c.runtime.FindDefault(leaf) != nil {
		return nil
	}

	c.mu.Lock()
	current := c.current
	memoize := c.memoize
	_, failed := c.failures[leaf]
	c.mu.Unlock()

	if current == nil {
		return nil
	}
	if memoize && failed {
		c.debugf("Skipping %s: %s already attempted", fullname, leaf)
		return nil
	}

	d, err := c.resolveDeferred(ctx)
	if err != nil {
		c.debugf("Cannot set up environment for %s: %v", fullname, err)
		return nil
	}

	pkg := c.registry.Resolve(leaf)
	c.debugf("Installing %s for %s into %s", pkg, fullname, d.Root())
	if _, err := c.installer.Install(ctx, requirements.Raw(pkg), d, nil); err != nil {
		c.debugf("Installing %s failed: %v", pkg, err)
	}

	// Recorded after successful installs too: a package that installed but
	// still lacks a submodule is not retried.
	if memoize {
		c.mu.Lock()
		c.failures[leaf] = struct{}{}
		c.mu.Unlock()
	}
	return nil
}
