// pkg/platform/utils.go
package platform

import (
	"os/exec"
	"slices"
)

// commandExists checks if a command is available in PATH
func commandExists(cmd string) bool {
	_, ok := lookPath(cmd)
	return ok
}

func lookPath(cmd string) (string, bool) {
	path, err := exec.LookPath(cmd)
	return path, err == nil
}

// contains checks if a string slice contains a value
func contains(slice []string, item string) bool {
	return slices.Contains(slice, item)
}
