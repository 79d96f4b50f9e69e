// Package resolve models a host module system: a search path, a table of
// loaded modules and an ordered chain of resolvers consulted before the
// default path-based finder.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrModuleNotFound matches every *NotFoundError.
var ErrModuleNotFound = errors.New("module not found")

// NotFoundError reports an import that could not be resolved.
type NotFoundError struct {
	Name    string // Requested module
	Missing string // First dotted prefix that could not be found
}

func (e *NotFoundError) Error() string {
	if e.Missing == "" || e.Missing == e.Name {
		return fmt.Sprintf("no module named %q", e.Name)
	}
	return fmt.Sprintf("cannot import %q: no module named %q", e.Name, e.Missing)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrModuleNotFound
}

// Spec describes where a module was found.
type Spec struct {
	Name      string
	Origin    string   // Source or extension file, empty for namespace packages
	Locations []string // Submodule search locations, non-empty for packages
}

// IsPackage reports whether the module can hold submodules.
func (s *Spec) IsPackage() bool {
	return len(s.Locations) > 0
}

// Module is a loaded module.
type Module struct {
	Name string
	File string
	Path []string // Submodule search locations for packages
}

// Resolver is consulted for every module that is not yet loaded. path is nil
// for top-level modules and holds the parent package's locations for
// submodules. Returning nil declines.
type Resolver interface {
	FindModule(ctx context.Context, fullname string, path []string) *Spec
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, fullname string, path []string) *Spec

// FindModule implements Resolver.
func (f ResolverFunc) FindModule(ctx context.Context, fullname string, path []string) *Spec {
	return f(ctx, fullname, path)
}

// Leaf returns the first dotted component of name: "foo" for "foo.bar.baz".
func Leaf(name string) string {
	leaf, _, _ := strings.Cut(name, ".")
	return leaf
}
