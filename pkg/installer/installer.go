// Package installer installs Python packages into an existing environment
// with pip or uv.
package installer

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/arc-language/venvod/pkg/command"
	"github.com/arc-language/venvod/pkg/core"
	"github.com/arc-language/venvod/pkg/env"
	"github.com/arc-language/venvod/pkg/requirements"
)

// Installer implements core.Installer
type Installer struct {
	config *Config
	runner command.Runner
	logger *log.Logger
}

var _ core.Installer = (*Installer)(nil)

// New creates an installer
func New(cfg *Config) *Installer {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendPip
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

	return &Installer{
		config: cfg,
		runner: runner,
		logger: logger,
	}
}

// Backend returns the package manager in use.
func (i *Installer) Backend() Backend {
	return i.config.Backend
}

// Install writes the requirements text to a temporary file next to the
// environment and runs the package manager against it. Empty requirements
// are a no-op. The returned text is what was installed.
func (i *Installer) Install(ctx context.Context, pkgs requirements.Packages, d *env.Descriptor, opts *core.InstallOptions) (string, error) {
	text, err := requirements.Render(pkgs)
	if err != nil {
		return "", fmt.Errorf("rendering requirements: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	if err := i.checkEnvironment(d); err != nil {
		return text, err
	}

	reqFile, err := writeRequirements(filepath.Dir(d.Root()), text)
	if err != nil {
		return text, err
	}
	defer os.Remove(reqFile)

	if opts == nil {
		opts = &core.InstallOptions{}
	}
	cmd := i.command(d, reqFile)
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = io.Discard
	}
	if cmd.Stderr == nil {
		cmd.Stderr = io.Discard
	}

	i.logger.Printf("Installing into %s: %s", d.Root(), strings.Join(requirements.Names(text), ", "))
	i.logger.Printf("  %s", cmd)

	if err := i.runner.Run(ctx, cmd); err != nil {
		if ctx.Err() != nil {
			return text, fmt.Errorf("installing packages: %w", ctx.Err())
		}
		return text, &InstallFailedError{
			ReturnCode:   command.ExitCode(err),
			Requirements: text,
			Err:          err,
		}
	}

	return text, nil
}

func (i *Installer) checkEnvironment(d *env.Descriptor) error {
	if d == nil {
		return fmt.Errorf("no environment: %w", ErrEnvironmentMissing)
	}
	if fi, err := os.Stat(d.Root()); err != nil || !fi.IsDir() {
		return fmt.Errorf("%s: %w", d.Root(), ErrEnvironmentMissing)
	}

	exe := d.Pip()
	if i.config.Backend == BackendUV {
		exe = d.Python()
	}
	if _, err := os.Stat(exe); err != nil {
		return fmt.Errorf("%s: %w", exe, ErrEnvironmentMissing)
	}
	return nil
}

func (i *Installer) command(d *env.Descriptor, reqFile string) *command.Cmd {
	if i.config.Backend == BackendUV {
		return &command.Cmd{
			Name: i.config.UVPath,
			Args: []string{"pip", "install", "--python", d.Python(), "-r", reqFile},
		}
	}
	return &command.Cmd{
		Name: d.Pip(),
		Args: []string{"install", "-r", reqFile},
	}
}

func writeRequirements(dir, text string) (string, error) {
	f, err := os.CreateTemp(dir, "venv_req_*.txt")
	if err != nil {
		return "", fmt.Errorf("creating requirements file: %w", err)
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("writing requirements file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing requirements file: %w", err)
	}
	return f.Name(), nil
}
