// Package requirements turns package specifications into requirements.txt
// contents for pip.
package requirements

import (
	"errors"
	"sort"
	"strings"
)

// ErrMissingName is returned when a Mapping contains an empty package name.
var ErrMissingName = errors.New("missing name in packages mapping")

// Packages describes a set of packages to install.
// The concrete variants are Raw, List and Mapping.
type Packages interface {
	// Requirements renders the requirements.txt contents.
	Requirements() (string, error)
}

// Raw is used verbatim as the requirements.txt contents.
type Raw string

// List is a list of requirement lines, e.g. "requests" or "MyPkg==1.2.3".
type List []string

// Mapping maps package names to versions. An empty version installs the latest.
type Mapping map[string]string

// Requirements implements Packages.
func (r Raw) Requirements() (string, error) {
	return string(r), nil
}

// Requirements implements Packages.
func (l List) Requirements() (string, error) {
	return strings.Join(l, "\n"), nil
}

// Requirements implements Packages. Lines are sorted by package name.
func (m Mapping) Requirements() (string, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		if name == "" {
			return "", ErrMissingName
		}
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		if v := m[name]; v != "" {
			lines = append(lines, name+"=="+v)
		} else {
			lines = append(lines, name)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// Render returns the requirements text for pkgs. A nil Packages renders as
// the empty string.
func Render(pkgs Packages) (string, error) {
	if pkgs == nil {
		return "", nil
	}
	return pkgs.Requirements()
}

// Names extracts the bare distribution names from requirements text, skipping
// blank lines, comments and pip options.
func Names(text string) []string {
	var names []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		if i := strings.IndexAny(line, "=<>!~;[ @"); i >= 0 {
			line = line[:i]
		}
		if line != "" {
			names = append(names, line)
		}
	}
	return names
}
