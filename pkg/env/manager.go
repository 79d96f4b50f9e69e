// pkg/env/manager.go
package env

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// MetadataFile is written at the root of every named environment.
const MetadataFile = "env.json"

// Spec records how a named environment was built
type Spec struct {
	Name          string `json:"name"`
	Root          string `json:"root"`
	PythonVersion string `json:"python_version"`
	Requirements  string `json:"requirements,omitempty"`
	Version       string `json:"version,omitempty"` // Caller-supplied, compared on reuse
	Hash          string `json:"hash,omitempty"`    // Content hash from the last snapshot
	CreatedAt     string `json:"created_at"`
}

// Manager keeps named environments under a single root directory
type Manager struct {
	rootDir string // ~/.venvod/envs
}

// DefaultEnvsDir returns $VENVOD_ENVS_DIR, or ~/.venvod/envs.
func DefaultEnvsDir() string {
	if dir := os.Getenv("VENVOD_ENVS_DIR"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".venvod", "envs")
}

// NewManager creates a manager rooted at rootDir, or DefaultEnvsDir when empty.
func NewManager(rootDir string) *Manager {
	if rootDir == "" {
		rootDir = DefaultEnvsDir()
	}
	return &Manager{rootDir: rootDir}
}

// RootDir returns the directory holding the named environments.
func (m *Manager) RootDir() string {
	return m.rootDir
}

// Path returns the root of the named environment, whether or not it exists.
func (m *Manager) Path(name string) string {
	return filepath.Join(m.rootDir, name)
}

// Record builds a Spec for a descriptor created under this manager.
func (m *Manager) Record(name string, d *Descriptor, requirements, version string) *Spec {
	return &Spec{
		Name:          name,
		Root:          d.Root(),
		PythonVersion: d.PythonVersion(),
		Requirements:  requirements,
		Version:       version,
		CreatedAt:     time.Now().Format(time.RFC3339),
	}
}

// Save writes the environment metadata next to the environment.
func (m *Manager) Save(spec *Spec) error {
	if spec.Name == "" {
		return fmt.Errorf("environment name is required")
	}
	dir := m.Path(spec.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating environment directory: %w", err)
	}

	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, MetadataFile), data, 0644)
}

// Load reads the metadata of a named environment.
func (m *Manager) Load(name string) (*Spec, error) {
	data, err := os.ReadFile(filepath.Join(m.Path(name), MetadataFile))
	if err != nil {
		return nil, fmt.Errorf("environment '%s' not found", name)
	}

	var spec Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing %s for '%s': %w", MetadataFile, name, err)
	}
	return &spec, nil
}

// Descriptor opens and validates the named environment.
func (m *Manager) Descriptor(name string) (*Descriptor, error) {
	return Discover(m.Path(name))
}

// List returns every environment with readable metadata, sorted by name.
func (m *Manager) List() ([]*Spec, error) {
	entries, err := os.ReadDir(m.rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Spec{}, nil
		}
		return nil, err
	}

	var specs []*Spec
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		spec, err := m.Load(entry.Name())
		if err != nil {
			continue
		}
		specs = append(specs, spec)
	}

	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs, nil
}

// Remove deletes a named environment and its metadata.
func (m *Manager) Remove(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return fmt.Errorf("invalid environment name %q", name)
	}
	return os.RemoveAll(m.Path(name))
}
