package resolve

import (
	"os"
	"path/filepath"
	"strings"
)

// findIn looks for the single component part across dirs. A regular package,
// source module or extension module in an earlier directory wins; namespace
// portions are only used when none is found.
func findIn(dirs []string, fullname, part string) *Spec {
	var portions []string
	for _, dir := range dirs {
		pkg := filepath.Join(dir, part)
		if init := filepath.Join(pkg, "__init__.py"); isFile(init) {
			return &Spec{Name: fullname, Origin: init, Locations: []string{pkg}}
		}
		if src := filepath.Join(dir, part+".py"); isFile(src) {
			return &Spec{Name: fullname, Origin: src}
		}
		if ext := findExtension(dir, part); ext != "" {
			return &Spec{Name: fullname, Origin: ext}
		}
		if isDir(pkg) {
			portions = append(portions, pkg)
		}
	}
	if len(portions) > 0 {
		return &Spec{Name: fullname, Locations: portions}
	}
	return nil
}

func findExtension(dir, part string) string {
	for _, name := range []string{part + ".so", part + ".pyd"} {
		if p := filepath.Join(dir, name); isFile(p) {
			return p
		}
	}
	// ABI-tagged builds, e.g. _speedups.cpython-312-x86_64-linux-gnu.so
	matches, _ := filepath.Glob(filepath.Join(dir, part+".*.so"))
	if len(matches) > 0 {
		return matches[0]
	}
	return ""
}

// findDefault resolves a dotted name from dirs without consulting any resolver.
func findDefault(dirs []string, name string) *Spec {
	parts := strings.Split(name, ".")
	var spec *Spec
	for i, part := range parts {
		if part == "" {
			return nil
		}
		spec = findIn(dirs, strings.Join(parts[:i+1], "."), part)
		if spec == nil {
			return nil
		}
		if i < len(parts)-1 {
			if !spec.IsPackage() {
				return nil
			}
			dirs = spec.Locations
		}
	}
	return spec
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
