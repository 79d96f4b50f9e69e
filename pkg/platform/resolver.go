// pkg/platform/resolver.go
package platform

import (
	"fmt"

	"github.com/arc-language/venvod/pkg/core"
)

// ResolveBackend resolves which environment backend to use based on platform and config
func ResolveBackend(platform *Platform, config *core.Config) (string, error) {
	var backendName string

	// Priority:
	// 1. User-specified builder in config
	// 2. Platform preferred backend
	// 3. First available backend
	if config != nil && config.Builder != "" && config.Builder != "auto" {
		backendName = config.Builder
	} else if platform.Preferred != "" {
		backendName = platform.Preferred
	} else if len(platform.Available) > 0 {
		backendName = platform.Available[0]
	} else {
		return "", fmt.Errorf("no environment backends available: install python3, virtualenv or uv")
	}

	// A configured python interpreter is enough for venv
	if backendName == BackendVenv && config != nil && config.Python != "" {
		return backendName, nil
	}

	if !contains(platform.Available, backendName) {
		return "", fmt.Errorf("backend '%s' is not available on this system", backendName)
	}

	return backendName, nil
}
