// errors.go
package venvod

import (
	"errors"
	"fmt"

	"github.com/arc-language/venvod/pkg/builder"
	"github.com/arc-language/venvod/pkg/env"
	"github.com/arc-language/venvod/pkg/installer"
	"github.com/arc-language/venvod/pkg/resolve"
)

var (
	// ErrUsage indicates an operation was called before an environment was set
	ErrUsage = errors.New("no global environment: call Enable or SetGlobalEnvironment first")

	// ErrSetupFailed indicates an environment could not be built
	ErrSetupFailed = builder.ErrSetup

	// ErrEnvironmentMissing indicates the environment disappeared from disk
	ErrEnvironmentMissing = installer.ErrEnvironmentMissing

	// ErrModuleNotFound indicates a module could not be imported
	ErrModuleNotFound = resolve.ErrModuleNotFound

	// ErrInvalidEnvironment indicates a directory is not a usable environment
	ErrInvalidEnvironment = env.ErrInvalidEnvironment
)

// InstallFailedError reports a package manager exiting unsuccessfully
type InstallFailedError = installer.InstallFailedError

// Error wraps an error with additional context
type Error struct {
	Op      string // Operation that failed
	Package string // Module or package name if applicable
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Package, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
