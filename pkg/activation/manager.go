package activation

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/arc-language/venvod/pkg/env"
)

// ErrNotActivatable is returned when activating an environment that is not built.
var ErrNotActivatable = errors.New("environment cannot be activated")

// Manager activates environments against a search path.
type Manager struct {
	path *SearchPath
}

func NewManager(path *SearchPath) *Manager {
	return &Manager{path: path}
}

// SearchPath returns the managed search path.
func (m *Manager) SearchPath() *SearchPath {
	return m.path
}

// Activate promotes the environment's package directory to the front of the
// search path. Activating twice leaves a single entry.
func (m *Manager) Activate(e env.Environment) error {
	d, ok := e.(*env.Descriptor)
	if !ok || d == nil {
		return ErrNotActivatable
	}
	m.path.Prepend(d.PackageDir())
	return nil
}

// Deactivate removes the environment's package directory from the search path.
func (m *Manager) Deactivate(d *env.Descriptor) bool {
	if d == nil {
		return false
	}
	return m.path.Remove(d.PackageDir())
}

// Environ returns base adjusted so that subprocesses run inside d: VIRTUAL_ENV
// is set, the bin directory leads PATH and PYTHONHOME is dropped.
func Environ(d *env.Descriptor, base []string) []string {
	out := make([]string, 0, len(base)+2)
	path := ""
	for _, kv := range base {
		key, value, _ := strings.Cut(kv, "=")
		switch {
		case strings.EqualFold(key, "PATH"):
			path = value
		case key == "VIRTUAL_ENV", key == "PYTHONHOME":
		default:
			out = append(out, kv)
		}
	}

	newPath := d.BinDir()
	if path != "" {
		newPath += string(os.PathListSeparator) + path
	}
	return append(out, "VIRTUAL_ENV="+filepath.Clean(d.Root()), "PATH="+newPath)
}
