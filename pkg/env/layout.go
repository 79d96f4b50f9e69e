// pkg/env/layout.go
package env

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Layout describes where files live inside an environment, relative to its root.
type Layout struct {
	BinDir     string // Executables (python, pip)
	PackageDir string // Importable packages (site-packages)
	ExeSuffix  string // ".exe" on Windows
}

// GetLayout returns the environment layout for an operating system and Python version.
func GetLayout(goos, pythonVersion string) Layout {
	switch goos {
	case "windows":
		return getWindowsLayout()
	default:
		return getPosixLayout(pythonVersion)
	}
}

// Windows venvs use Scripts/ and a version-independent Lib/site-packages
func getWindowsLayout() Layout {
	return Layout{
		BinDir:     "Scripts",
		PackageDir: filepath.Join("Lib", "site-packages"),
		ExeSuffix:  ".exe",
	}
}

// POSIX venvs carry the interpreter's major.minor in the package path
func getPosixLayout(pythonVersion string) Layout {
	return Layout{
		BinDir:     "bin",
		PackageDir: filepath.Join("lib", "python"+majorMinor(pythonVersion), "site-packages"),
	}
}

// PackageDirFor returns the package directory of an environment rooted at root.
func PackageDirFor(root, pythonVersion string) string {
	return filepath.Join(root, GetLayout(runtime.GOOS, pythonVersion).PackageDir)
}

// BinDirFor returns the executable directory of an environment rooted at root.
func BinDirFor(root string) string {
	return filepath.Join(root, GetLayout(runtime.GOOS, "").BinDir)
}

// ExecutablePath returns the path to an executable inside an environment.
func ExecutablePath(root, name string) string {
	layout := GetLayout(runtime.GOOS, "")
	return filepath.Join(root, layout.BinDir, name+layout.ExeSuffix)
}

// majorMinor reduces "3.12.1" or "3.12.1.final.0" to "3.12".
func majorMinor(v string) string {
	parts := strings.SplitN(strings.TrimSpace(v), ".", 3)
	if len(parts) < 2 {
		return strings.TrimSpace(v)
	}
	return fmt.Sprintf("%s.%s", parts[0], parts[1])
}
