package env

import (
	"os"
	"strings"
)

// MarkerFileName holds the caller-supplied version of a persistent environment.
const MarkerFileName = ".venvod_version"

// ReadMarker returns the recorded version, or "" when there is none.
func ReadMarker(d *Descriptor) (string, error) {
	data, err := os.ReadFile(d.MarkerPath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// WriteMarker records version in the environment root.
func WriteMarker(d *Descriptor, version string) error {
	return os.WriteFile(d.MarkerPath(), []byte(version), 0644)
}
