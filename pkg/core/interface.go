// pkg/core/interface.go
package core

import (
	"context"
	"io"

	"github.com/arc-language/venvod/pkg/env"
	"github.com/arc-language/venvod/pkg/requirements"
)

// Builder creates Python virtual environments
type Builder interface {
	// Build creates an environment, installs the requested packages and
	// returns its descriptor
	Build(ctx context.Context, req *BuildRequest) (*env.Descriptor, error)
}

// Installer installs packages into an existing environment
type Installer interface {
	// Install returns the requirements text it installed
	Install(ctx context.Context, pkgs requirements.Packages, d *env.Descriptor, opts *InstallOptions) (string, error)
}

// BuildRequest configures environment creation
type BuildRequest struct {
	ParentDir     string                // Directory to create the environment in (os.TempDir() if empty)
	Name          string                // Fixed directory name (random "venv_*" if empty)
	Packages      requirements.Packages // Installed after creation, may be nil
	Stdout        io.Writer             // Installer output (discarded if nil)
	Stderr        io.Writer
	DeleteOnClose bool // Remove the environment when the builder is closed
}

// InstallOptions configures package installation
type InstallOptions struct {
	Stdout io.Writer // Discarded if nil
	Stderr io.Writer
}
