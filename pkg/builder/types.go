// pkg/builder/types.go
package builder

import (
	"errors"
	"log"

	"github.com/arc-language/venvod/pkg/command"
	"github.com/arc-language/venvod/pkg/core"
)

// ErrSetup wraps every environment creation failure.
var ErrSetup = errors.New("environment setup failed")

// Backend selects how environments are created
type Backend string

const (
	BackendAuto       Backend = "auto"
	BackendVenv       Backend = "venv"
	BackendVirtualenv Backend = "virtualenv"
	BackendUV         Backend = "uv"
)

// Config configures the builder
type Config struct {
	Backend            Backend        // Default: auto
	Python             string         // Interpreter for venv/virtualenv, version request for uv
	UVPath             string         // Default: uv from PATH
	SystemSitePackages bool           // Expose the base interpreter's site-packages
	Relocatable        bool           // uv only
	Template           string         // Snapshot archive restored instead of running a backend
	Installer          core.Installer // Installs BuildRequest.Packages (optional)
	Runner             command.Runner // Default: command.ExecRunner
	Debug              bool           // Enable debug logging
	Logger             *log.Logger    // Custom logger (optional)
}
