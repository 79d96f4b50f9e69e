// pkg/platform/detect.go
package platform

import (
	"fmt"
	"runtime"
)

// Environment creation backends, in order of preference
const (
	BackendUV         = "uv"
	BackendVenv       = "venv"
	BackendVirtualenv = "virtualenv"
)

// Platform represents the detected system platform
type Platform struct {
	OS        string   // linux, darwin, windows
	Arch      string   // amd64, arm64, 386, arm
	Available []string // Available environment backends
	Preferred string   // Preferred environment backend
	Python    string   // Located interpreter (python3 or python)
}

// Detect detects the current platform and available environment backends
func Detect() (*Platform, error) {
	p := &Platform{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		Available: []string{},
	}

	switch p.OS {
	case "linux", "darwin", "windows", "freebsd":
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", p.OS)
	}

	if commandExists("uv") {
		p.Available = append(p.Available, BackendUV)
	}

	for _, name := range pythonCandidates(p.OS) {
		if path, ok := lookPath(name); ok {
			p.Python = path
			p.Available = append(p.Available, BackendVenv)
			break
		}
	}

	if commandExists("virtualenv") {
		p.Available = append(p.Available, BackendVirtualenv)
	}

	p.Preferred = choosePreferred(p.Available)
	return p, nil
}

// choosePreferred prefers uv, then the stdlib venv module, then virtualenv
func choosePreferred(available []string) string {
	for _, b := range []string{BackendUV, BackendVenv, BackendVirtualenv} {
		if contains(available, b) {
			return b
		}
	}
	if len(available) > 0 {
		return available[0]
	}
	return ""
}

func pythonCandidates(goos string) []string {
	if goos == "windows" {
		return []string{"python", "py", "python3"}
	}
	return []string{"python3", "python"}
}

// String returns a string representation of the platform
func (p *Platform) String() string {
	return fmt.Sprintf("%s/%s (available: %v, preferred: %s)",
		p.OS, p.Arch, p.Available, p.Preferred)
}
