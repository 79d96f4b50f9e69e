// Package builder creates Python virtual environments with venv, virtualenv
// or uv, or by restoring a snapshot archive.
package builder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/arc-language/venvod/pkg/command"
	"github.com/arc-language/venvod/pkg/core"
	"github.com/arc-language/venvod/pkg/env"
	"github.com/arc-language/venvod/pkg/platform"
	"github.com/arc-language/venvod/pkg/snapshot"
)

// Builder implements core.Builder
type Builder struct {
	config *Config
	runner command.Runner
	logger *log.Logger

	mu      sync.Mutex
	backend Backend  // resolved lazily when auto
	python  string   // interpreter for venv and virtualenv
	cleanup []string // roots removed by Close
}

var _ core.Builder = (*Builder)(nil)

// New creates a builder. Backend detection is deferred to the first build.
func New(cfg *Config) *Builder {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendAuto
	}
	if cfg.UVPath == "" {
		cfg.UVPath = "uv"
	}

	runner := cfg.Runner
	if runner == nil {
		runner = command.ExecRunner{}
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stderr, "[venvod] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	return &Builder{
		config: cfg,
		runner: runner,
		logger: logger,
	}
}

// Build creates an environment under req.ParentDir and installs req.Packages.
func (b *Builder) Build(ctx context.Context, req *core.BuildRequest) (*env.Descriptor, error) {
	if req == nil {
		req = &core.BuildRequest{}
	}

	parent := req.ParentDir
	if parent == "" {
		parent = os.TempDir()
	}
	if fi, err := os.Stat(parent); err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("%w: parent directory %s does not exist", ErrSetup, parent)
	}

	root, created, err := makeRoot(parent, req.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSetup, err)
	}

	fail := func(err error) (*env.Descriptor, error) {
		if created {
			os.RemoveAll(root)
		}
		return nil, fmt.Errorf("%w: %w", ErrSetup, err)
	}

	b.logger.Printf("Creating environment %s", root)
	if err := b.create(ctx, root); err != nil {
		return fail(err)
	}

	d, err := env.Discover(root)
	if err != nil {
		return fail(err)
	}

	if req.Packages != nil && b.config.Installer != nil {
		opts := &core.InstallOptions{Stdout: req.Stdout, Stderr: req.Stderr}
		if _, err := b.config.Installer.Install(ctx, req.Packages, d, opts); err != nil {
			return fail(fmt.Errorf("installing packages: %w", err))
		}
	}

	if req.DeleteOnClose {
		b.mu.Lock()
		b.cleanup = append(b.cleanup, d.Root())
		b.mu.Unlock()
	}

	b.logger.Printf("✓ Environment ready: %s (python %s)", d.Root(), d.PythonVersion())
	return d, nil
}

// Close removes every environment built with DeleteOnClose.
func (b *Builder) Close() error {
	b.mu.Lock()
	roots := b.cleanup
	b.cleanup = nil
	b.mu.Unlock()

	var errs []error
	for _, root := range roots {
		b.logger.Printf("Removing temporary environment %s", root)
		if err := os.RemoveAll(root); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Backend returns the backend in use, detecting it if needed.
func (b *Builder) Backend() (Backend, error) {
	backend, _, err := b.resolve()
	return backend, err
}

// makeRoot returns the environment root and whether this call is responsible
// for it existing.
func makeRoot(parent, name string) (string, bool, error) {
	if name == "" {
		root, err := os.MkdirTemp(parent, "venv_")
		if err != nil {
			return "", false, fmt.Errorf("creating environment directory: %w", err)
		}
		return root, true, nil
	}

	root := filepath.Join(parent, name)
	_, err := os.Stat(root)
	return root, os.IsNotExist(err), nil
}

func (b *Builder) create(ctx context.Context, root string) error {
	if b.config.Template != "" {
		b.logger.Printf("  Restoring template %s", b.config.Template)
		if _, err := snapshot.RestoreFile(b.config.Template, root); err != nil {
			return fmt.Errorf("restoring template: %w", err)
		}
		return nil
	}

	backend, python, err := b.resolve()
	if err != nil {
		return err
	}

	cmd := b.command(backend, python, root)
	b.logger.Printf("  %s", cmd)
	if err := b.runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("creating environment with %s: %w", backend, err)
	}
	return nil
}

func (b *Builder) resolve() (Backend, string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.backend != "" {
		return b.backend, b.python, nil
	}

	backend, python := b.config.Backend, b.config.Python
	if backend == BackendAuto || (python == "" && backend != BackendUV) {
		p, err := platform.Detect()
		if err != nil {
			return "", "", err
		}
		if backend == BackendAuto {
			name, err := platform.ResolveBackend(p, &core.Config{Builder: "auto", Python: python})
			if err != nil {
				return "", "", err
			}
			backend = Backend(name)
		}
		if python == "" && backend != BackendUV {
			python = p.Python
		}
	}
	if python == "" && backend == BackendVenv {
		python = "python3"
	}

	b.logger.Printf("Using %s backend", backend)
	b.backend, b.python = backend, python
	return backend, python, nil
}

func (b *Builder) command(backend Backend, python, root string) *command.Cmd {
	switch backend {
	case BackendUV:
		args := []string{"venv", "--seed"}
		if python != "" {
			args = append(args, "--python", python)
		}
		if b.config.Relocatable {
			args = append(args, "--relocatable")
		}
		if b.config.SystemSitePackages {
			args = append(args, "--system-site-packages")
		}
		return &command.Cmd{Name: b.config.UVPath, Args: append(args, root)}

	case BackendVirtualenv:
		var args []string
		if python != "" {
			args = append(args, "--python", python)
		}
		if b.config.SystemSitePackages {
			args = append(args, "--system-site-packages")
		}
		return &command.Cmd{Name: "virtualenv", Args: append(args, root)}

	default:
		args := []string{"-m", "venv"}
		if b.config.SystemSitePackages {
			args = append(args, "--system-site-packages")
		}
		return &command.Cmd{Name: python, Args: append(args, root)}
	}
}
