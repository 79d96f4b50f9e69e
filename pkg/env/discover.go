package env

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PyvenvConfig is the file every venv, virtualenv and uv environment writes at its root.
const PyvenvConfig = "pyvenv.cfg"

// Open returns a descriptor for an existing environment without validating it.
// The Python version comes from pyvenv.cfg; when that file is absent the
// version is recovered from the lib/pythonX.Y directory name.
func Open(root string) (*Descriptor, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving environment root: %w", err)
	}

	cfg, err := ReadPyvenvConfig(abs)
	if err == nil {
		if v := cfg.Version(); v != "" {
			return New(abs, v)
		}
	}

	matches, _ := filepath.Glob(filepath.Join(abs, "lib", "python*", "site-packages"))
	if len(matches) > 0 {
		sort.Strings(matches)
		dir := filepath.Base(filepath.Dir(matches[len(matches)-1]))
		return New(abs, strings.TrimPrefix(dir, "python"))
	}

	if fi, err := os.Stat(filepath.Join(abs, "Lib", "site-packages")); err == nil && fi.IsDir() {
		return New(abs, "")
	}

	return nil, &ValidationError{Root: abs, Reason: "cannot determine Python version"}
}

// Discover opens and validates the environment at root.
func Discover(root string) (*Descriptor, error) {
	d, err := Open(root)
	if err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate checks that the root is a directory holding a pip executable and
// a package directory.
func (d *Descriptor) Validate() error {
	fi, err := os.Stat(d.root)
	if err != nil || !fi.IsDir() {
		return &ValidationError{Root: d.root, Reason: "root is not a directory"}
	}
	if _, err := os.Stat(d.Pip()); err != nil {
		return &ValidationError{Root: d.root, Reason: "missing pip executable " + d.Pip()}
	}
	if fi, err := os.Stat(d.packageDir); err != nil || !fi.IsDir() {
		return &ValidationError{Root: d.root, Reason: "missing package directory " + d.packageDir}
	}
	return nil
}

// PyvenvConfigValues holds the key/value pairs of a pyvenv.cfg file.
type PyvenvConfigValues map[string]string

// Version returns the interpreter version recorded by venv ("version") or by
// virtualenv and uv ("version_info").
func (c PyvenvConfigValues) Version() string {
	if v := c["version"]; v != "" {
		return v
	}
	return c["version_info"]
}

// Home returns the directory of the base interpreter.
func (c PyvenvConfigValues) Home() string {
	return c["home"]
}

// ReadPyvenvConfig parses root/pyvenv.cfg.
func ReadPyvenvConfig(root string) (PyvenvConfigValues, error) {
	f, err := os.Open(filepath.Join(root, PyvenvConfig))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	values := make(PyvenvConfigValues)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}
		values[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", PyvenvConfig, err)
	}
	return values, nil
}
