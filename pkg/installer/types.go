// pkg/installer/types.go
package installer

import (
	"errors"
	"fmt"
	"log"

	"github.com/arc-language/venvod/pkg/command"
)

// ErrEnvironmentMissing is returned when installing into an environment whose
// root or package manager no longer exists on disk.
var ErrEnvironmentMissing = errors.New("environment missing")

// Backend selects the package manager
type Backend string

const (
	BackendPip Backend = "pip"
	BackendUV  Backend = "uv"
)

// Config configures the installer
type Config struct {
	Backend Backend        // Default: pip
	UVPath  string         // Default: uv from PATH
	Runner  command.Runner // Default: command.ExecRunner
	Debug   bool           // Enable debug logging
	Logger  *log.Logger    // Custom logger (optional)
}

// InstallFailedError reports a package manager exiting unsuccessfully
type InstallFailedError struct {
	ReturnCode   int
	Requirements string // Requirements text that was being installed
	Err          error
}

func (e *InstallFailedError) Error() string {
	return fmt.Sprintf("package install failed with exit code %d", e.ReturnCode)
}

func (e *InstallFailedError) Unwrap() error {
	return e.Err
}
