// Package version compares free-form dotted version strings such as the ones
// callers stamp onto persistent environments.
package version

import (
	"regexp"
	"slices"
	"strings"
)

// runPattern splits a block into contiguous runs of letters or digits.
var runPattern = regexp.MustCompile(`([a-zA-Z]+)|([0-9]+)`)

// Compare compares v1 and v2 and returns -1 if v1 is older, 0 if they are
// equivalent and 1 if v1 is newer.
//
// Versions are split into dot-separated blocks; the shorter version is padded
// with "0" blocks so "1.2" equals "1.2.0". Numeric blocks compare numerically
// ("1.9" < "1.10"). Mixed blocks are compared run by run, and no padding is
// applied inside a block, so "1.2a" < "1.2a0".
func Compare(v1, v2 string) int {
	if v1 == v2 {
		return 0
	}

	blocks1 := strings.Split(padDots(v1), ".")
	blocks2 := strings.Split(padDots(v2), ".")

	for len(blocks1) < len(blocks2) {
		blocks1 = append(blocks1, "0")
	}
	for len(blocks2) < len(blocks1) {
		blocks2 = append(blocks2, "0")
	}

	if slices.Equal(blocks1, blocks2) {
		return 0
	}

	for i := range blocks1 {
		a, b := blocks1[i], blocks2[i]
		if isDigits(a) && isDigits(b) {
			if c := compareNumeric(a, b); c != 0 {
				return c
			}
			continue
		}
		if c := compareRuns(a, b); c != 0 {
			return c
		}
	}

	return 0
}

func padDots(v string) string {
	if strings.HasPrefix(v, ".") {
		v = "0" + v
	}
	if strings.HasSuffix(v, ".") {
		v += "0"
	}
	return v
}

// compareRuns compares two non-numeric blocks. Letters sort before digits at
// the same position, and a block with extra trailing runs is the greater one.
func compareRuns(a, b string) int {
	runs1 := runPattern.FindAllStringSubmatch(a, -1)
	runs2 := runPattern.FindAllStringSubmatch(b, -1)

	for j := range runs1 {
		if j >= len(runs2) {
			return 1
		}
		if c := strings.Compare(runs1[j][1], runs2[j][1]); c != 0 {
			return c
		}
		d1, d2 := runs1[j][2], runs2[j][2]
		if d1 != "" && d2 != "" {
			if c := compareNumeric(d1, d2); c != 0 {
				return c
			}
		}
	}

	if len(runs2) > len(runs1) {
		return -1
	}
	return 0
}

// compareNumeric compares digit strings of arbitrary length.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
