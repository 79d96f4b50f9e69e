package resolve

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/arc-language/venvod/pkg/activation"
)

// Runtime holds loaded modules and the resolver chain. Resolvers are always
// called without the runtime lock held, so they may call back into it.
type Runtime struct {
	path *activation.SearchPath

	mu      sync.Mutex
	modules map[string]*Module
	chain   []Resolver
}

// NewRuntime returns a runtime searching path. A nil path starts empty.
func NewRuntime(path *activation.SearchPath) *Runtime {
	if path == nil {
		path = activation.NewSearchPath()
	}
	return &Runtime{
		path:    path,
		modules: make(map[string]*Module),
	}
}

// SearchPath returns the runtime's search path.
func (rt *Runtime) SearchPath() *activation.SearchPath {
	return rt.path
}

// InsertResolver puts r at the front of the chain.
func (rt *Runtime) InsertResolver(r Resolver) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.chain = slices.Insert(rt.chain, 0, r)
}

// AppendResolver puts r at the end of the chain.
func (rt *Runtime) AppendResolver(r Resolver) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.chain = append(rt.chain, r)
}

// RemoveResolvers drops every resolver for which match returns true and
// returns how many were removed. The remaining order is kept.
func (rt *Runtime) RemoveResolvers(match func(Resolver) bool) int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	n := len(rt.chain)
	rt.chain = slices.DeleteFunc(rt.chain, match)
	return n - len(rt.chain)
}

// HasResolver reports whether any resolver matches.
func (rt *Runtime) HasResolver(match func(Resolver) bool) bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return slices.ContainsFunc(rt.chain, match)
}

// Resolvers returns a copy of the chain.
func (rt *Runtime) Resolvers() []Resolver {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return slices.Clone(rt.chain)
}

// Preload records m as loaded.
func (rt *Runtime) Preload(m *Module) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.modules[m.Name] = m
}

// Lookup returns a loaded module or nil.
func (rt *Runtime) Lookup(name string) *Module {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.modules[name]
}

func (rt *Runtime) IsLoaded(name string) bool {
	return rt.Lookup(name) != nil
}

// Loaded returns the names of all loaded modules, sorted.
func (rt *Runtime) Loaded() []string {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	names := make([]string, 0, len(rt.modules))
	for name := range rt.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unload forgets name and its submodules. It returns how many modules were dropped.
func (rt *Runtime) Unload(name string) int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	n := 0
	for loaded := range rt.modules {
		if loaded == name || strings.HasPrefix(loaded, name+".") {
			delete(rt.modules, loaded)
			n++
		}
	}
	return n
}

// FindDefault locates name on the search path without consulting the chain.
func (rt *Runtime) FindDefault(name string) *Spec {
	return findDefault(rt.path.Entries(), name)
}

// Import loads name and every parent package, consulting the resolver chain
// before the default finder for each component that is not yet loaded.
func (rt *Runtime) Import(ctx context.Context, name string) (*Module, error) {
	return rt.load(ctx, name, true)
}

// ImportDefault loads name using only the default finder.
func (rt *Runtime) ImportDefault(name string) (*Module, error) {
	return rt.load(context.Background(), name, false)
}

func (rt *Runtime) load(ctx context.Context, name string, useChain bool) (*Module, error) {
	if name == "" {
		return nil, &NotFoundError{Name: name}
	}

	parts := strings.Split(name, ".")
	var parent *Module
	for i, part := range parts {
		prefix := strings.Join(parts[:i+1], ".")
		if m := rt.Lookup(prefix); m != nil {
			parent = m
			continue
		}
		if part == "" {
			return nil, &NotFoundError{Name: name, Missing: prefix}
		}

		var locations []string
		if parent != nil {
			if len(parent.Path) == 0 {
				return nil, &NotFoundError{Name: name, Missing: prefix}
			}
			locations = parent.Path
		}

		var spec *Spec
		if useChain {
			spec = rt.consult(ctx, prefix, locations)
		}
		if spec == nil {
			dirs := locations
			if dirs == nil {
				dirs = rt.path.Entries()
			}
			spec = findIn(dirs, prefix, part)
		}
		if spec == nil {
			return nil, &NotFoundError{Name: name, Missing: prefix}
		}

		parent = &Module{Name: prefix, File: spec.Origin, Path: spec.Locations}
		rt.Preload(parent)
	}
	return parent, nil
}

func (rt *Runtime) consult(ctx context.Context, fullname string, path []string) *Spec {
	for _, r := range rt.Resolvers() {
		if spec := r.FindModule(ctx, fullname, path); spec != nil {
			return spec
		}
	}
	return nil
}
