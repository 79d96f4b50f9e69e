// pkg/env/types.go
package env

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrInvalidEnvironment indicates a directory is not a usable environment
var ErrInvalidEnvironment = errors.New("invalid environment")

// Environment is either a built *Descriptor or a *Deferred placeholder.
type Environment interface {
	// Built reports whether the environment exists on disk.
	Built() bool
	String() string
}

// Descriptor describes a built environment. It is a read-only value: a
// changed environment gets a new Descriptor.
type Descriptor struct {
	root          string // Absolute environment root
	packageDir    string // Derived from root and the Python version
	pythonVersion string // As recorded in pyvenv.cfg
}

// New returns a descriptor for the environment at root built for pythonVersion.
func New(root, pythonVersion string) (*Descriptor, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving environment root: %w", err)
	}
	return &Descriptor{
		root:          abs,
		packageDir:    PackageDirFor(abs, pythonVersion),
		pythonVersion: pythonVersion,
	}, nil
}

// Root returns the absolute environment root.
func (d *Descriptor) Root() string { return d.root }

// PackageDir returns the directory packages are installed into.
func (d *Descriptor) PackageDir() string { return d.packageDir }

// PythonVersion returns the interpreter version the environment was built with.
func (d *Descriptor) PythonVersion() string { return d.pythonVersion }

// BinDir returns the executable directory.
func (d *Descriptor) BinDir() string { return BinDirFor(d.root) }

// Python returns the path to the environment's interpreter.
func (d *Descriptor) Python() string { return ExecutablePath(d.root, "python") }

// Pip returns the path to the environment's pip executable.
func (d *Descriptor) Pip() string { return ExecutablePath(d.root, "pip") }

// MarkerPath returns the path of the version marker file.
func (d *Descriptor) MarkerPath() string { return filepath.Join(d.root, MarkerFileName) }

// Built implements Environment.
func (d *Descriptor) Built() bool { return true }

func (d *Descriptor) String() string { return d.root }

// Deferred is an environment that will be built under a parent directory the
// first time it is needed.
type Deferred struct {
	parentDir string
}

// NewDeferred returns a placeholder for an environment to be built under parentDir.
func NewDeferred(parentDir string) *Deferred {
	return &Deferred{parentDir: parentDir}
}

// ParentDir returns the directory the environment will be created in.
func (d *Deferred) ParentDir() string { return d.parentDir }

// Built implements Environment.
func (d *Deferred) Built() bool { return false }

func (d *Deferred) String() string {
	return fmt.Sprintf("deferred(%s)", d.parentDir)
}

// ValidationError explains why a directory is not a usable environment
type ValidationError struct {
	Root   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("environment %s: %s", e.Root, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidEnvironment
}
