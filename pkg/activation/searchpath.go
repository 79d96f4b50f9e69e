// Package activation makes an environment's packages visible to the import
// search path and to subprocesses.
package activation

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// SearchPath is an ordered, de-duplicated list of directories searched for
// modules. It is safe for concurrent use.
type SearchPath struct {
	mu      sync.RWMutex
	entries []string
}

// NewSearchPath returns a search path holding entries in order. Empty and
// duplicate entries are dropped.
func NewSearchPath(entries ...string) *SearchPath {
	p := &SearchPath{}
	for _, e := range entries {
		if e == "" || slices.Contains(p.entries, e) {
			continue
		}
		p.entries = append(p.entries, e)
	}
	return p
}

// FromEnv builds a search path from a list-separated environment variable
// such as PYTHONPATH.
func FromEnv(key string) *SearchPath {
	return NewSearchPath(filepath.SplitList(os.Getenv(key))...)
}

// Entries returns a copy of the entries in search order.
func (p *SearchPath) Entries() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.entries)
}

// Prepend moves dir to the front, inserting it if absent.
func (p *SearchPath) Prepend(dir string) {
	if dir == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = slices.DeleteFunc(p.entries, func(e string) bool { return e == dir })
	p.entries = slices.Insert(p.entries, 0, dir)
}

// Remove drops dir and reports whether it was present.
func (p *SearchPath) Remove(dir string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.entries)
	p.entries = slices.DeleteFunc(p.entries, func(e string) bool { return e == dir })
	return len(p.entries) != n
}

// Contains reports whether dir is on the path.
func (p *SearchPath) Contains(dir string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Contains(p.entries, dir)
}

// String joins the entries with the OS list separator.
func (p *SearchPath) String() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return strings.Join(p.entries, string(os.PathListSeparator))
}
