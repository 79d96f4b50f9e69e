// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed aliases.toml
var defaultAliases string

// FileName is the alias table file name, both embedded and in the cache.
const FileName = "aliases.toml"

// Entry maps one import name to the distribution that provides it
type Entry struct {
	Distribution string   `toml:"distribution"`
	Extras       []string `toml:"extras"`
	Version      string   `toml:"version"` // "1.2" pins ==1.2; specifiers like ">=1.2" pass through
}

// Requirement returns the entry as a requirements line,
// e.g. python-jose[cryptography]==3.3.0
func (e Entry) Requirement() string {
	var b strings.Builder
	b.WriteString(e.Distribution)
	if len(e.Extras) > 0 {
		b.WriteString("[" + strings.Join(e.Extras, ",") + "]")
	}
	if v := strings.TrimSpace(e.Version); v != "" {
		if strings.ContainsAny(v[:1], "0123456789") {
			b.WriteString("==")
		}
		b.WriteString(v)
	}
	return b.String()
}

type file struct {
	Modules map[string]Entry `toml:"modules"`
}

// Registry maps import names to distributions
type Registry struct {
	entries map[string]Entry
}

// Default returns the built-in alias table.
func Default() *Registry {
	r, err := Parse(defaultAliases)
	if err != nil {
		panic(fmt.Sprintf("registry: embedded %s: %v", FileName, err))
	}
	return r
}

// Parse reads an alias table.
func Parse(data string) (*Registry, error) {
	var f file
	if _, err := toml.Decode(data, &f); err != nil {
		return nil, fmt.Errorf("registry: failed to parse aliases: %w", err)
	}

	r := &Registry{entries: make(map[string]Entry, len(f.Modules))}
	for name, entry := range f.Modules {
		if entry.Distribution == "" {
			return nil, fmt.Errorf("registry: module '%s' has no distribution", name)
		}
		r.entries[name] = entry
	}
	return r, nil
}

// Load overlays the alias table at path on the built-in one. A missing file
// yields the built-in table.
func Load(path string) (*Registry, error) {
	r := Default()
	if path == "" {
		return r, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("registry: reading %s: %w", path, err)
	}

	overlay, err := Parse(string(data))
	if err != nil {
		return nil, err
	}
	for name, entry := range overlay.entries {
		r.entries[name] = entry
	}
	return r, nil
}

// CachePath returns where Sync stores the alias table under cacheDir.
func CachePath(cacheDir string) string {
	return filepath.Join(cacheDir, "registry", FileName)
}

// Lookup returns the entry for an import name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Resolve returns the requirement that provides the import name,
// e.g. Resolve("yaml") -> "PyYAML". Unknown names are returned unchanged.
func (r *Registry) Resolve(name string) string {
	if r == nil {
		return name
	}
	if e, ok := r.entries[name]; ok {
		return e.Requirement()
	}
	return name
}

// Names returns every aliased import name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
