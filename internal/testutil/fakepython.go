// Package testutil provides a fake Python toolchain for tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/arc-language/venvod/pkg/command"
	"github.com/arc-language/venvod/pkg/env"
	"github.com/arc-language/venvod/pkg/requirements"
)

// PythonVersion is the interpreter version written into fabricated environments.
const PythonVersion = "3.12.1"

// Install records one package manager invocation.
type Install struct {
	Root  string
	Names []string
}

// FakePython implements command.Runner. Environment creation commands
// fabricate a venv layout on disk; pip installs create a package directory
// for every module of each requested distribution found in Available.
type FakePython struct {
	// Available maps a distribution name to the top-level modules it installs.
	Available map[string][]string
	// FailVenv makes every environment creation fail.
	FailVenv bool

	mu       sync.Mutex
	venvs    int
	installs []Install
	commands []string
}

// NewFakePython returns a fake toolchain serving the given catalog.
func NewFakePython(available map[string][]string) *FakePython {
	return &FakePython{Available: available}
}

// Run implements command.Runner.
func (f *FakePython) Run(ctx context.Context, c *command.Cmd) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	f.commands = append(f.commands, c.String())
	f.mu.Unlock()

	switch {
	case isVenvCommand(c):
		return f.createVenv(c.Args[len(c.Args)-1])
	case isPipInstall(c):
		return f.install(filepath.Dir(filepath.Dir(c.Name)), requirementsFile(c.Args))
	case isUVPipInstall(c):
		return f.install(filepath.Dir(filepath.Dir(flagValue(c.Args, "--python"))), requirementsFile(c.Args))
	}
	return &command.ExitError{Code: 127, Output: "unknown command: " + c.String()}
}

// VenvCount returns how many environments were created.
func (f *FakePython) VenvCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.venvs
}

// Installs returns every install invocation in order.
func (f *FakePython) Installs() []Install {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.installs)
}

// Commands returns every command line seen.
func (f *FakePython) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.commands)
}

func (f *FakePython) createVenv(root string) error {
	if f.FailVenv {
		return &command.ExitError{Code: 1, Output: "Error: venv creation failed"}
	}
	if err := MakeVenv(root); err != nil {
		return err
	}
	f.mu.Lock()
	f.venvs++
	f.mu.Unlock()
	return nil
}

func (f *FakePython) install(root, reqFile string) error {
	data, err := os.ReadFile(reqFile)
	if err != nil {
		return &command.ExitError{Code: 2, Output: err.Error()}
	}
	names := requirements.Names(string(data))

	f.mu.Lock()
	f.installs = append(f.installs, Install{Root: root, Names: names})
	f.mu.Unlock()

	d, err := env.Open(root)
	if err != nil {
		return &command.ExitError{Code: 1, Output: err.Error()}
	}
	for _, name := range names {
		modules, ok := f.Available[name]
		if !ok {
			return &command.ExitError{Code: 1, Output: "ERROR: No matching distribution found for " + name}
		}
		for _, m := range modules {
			if err := WriteModule(d.PackageDir(), m); err != nil {
				return err
			}
		}
	}
	return nil
}

// MakeVenv fabricates a POSIX or Windows venv layout at root.
func MakeVenv(root string) error {
	d, err := env.New(root, PythonVersion)
	if err != nil {
		return err
	}
	for _, dir := range []string{d.BinDir(), d.PackageDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	for _, exe := range []string{d.Python(), d.Pip()} {
		if err := os.WriteFile(exe, []byte("#!/bin/sh\n"), 0755); err != nil {
			return err
		}
	}
	cfg := "home = /usr/bin\ninclude-system-site-packages = true\nversion = " + PythonVersion + "\n"
	return os.WriteFile(filepath.Join(d.Root(), env.PyvenvConfig), []byte(cfg), 0644)
}

// WriteModule creates an importable package named module under dir.
func WriteModule(dir, module string) error {
	pkg := filepath.Join(dir, module)
	if err := os.MkdirAll(pkg, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(pkg, "__init__.py"), nil, 0644)
}

func isVenvCommand(c *command.Cmd) bool {
	switch {
	case len(c.Args) >= 3 && c.Args[0] == "-m" && (c.Args[1] == "venv" || c.Args[1] == "virtualenv"):
		return true
	case filepath.Base(c.Name) == "virtualenv" && len(c.Args) > 0:
		return true
	case len(c.Args) >= 2 && c.Args[0] == "venv":
		return true
	}
	return false
}

func isPipInstall(c *command.Cmd) bool {
	base := filepath.Base(c.Name)
	return (base == "pip" || base == "pip.exe") && len(c.Args) >= 3 && c.Args[0] == "install"
}

func isUVPipInstall(c *command.Cmd) bool {
	return len(c.Args) >= 2 && c.Args[0] == "pip" && c.Args[1] == "install"
}

func requirementsFile(args []string) string {
	return flagValue(args, "-r")
}

func flagValue(args []string, flag string) string {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}
