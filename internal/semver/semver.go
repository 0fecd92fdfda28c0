// Package semver orders release tags.
package semver

import (
	"strconv"
	"strings"
)

// Version is a parsed release tag such as "v1.4.2" or "1.4.2-rc1".
type Version struct {
	Parts []int
	Pre   string
	Raw   string
}

// Parse splits a tag into numeric parts and a pre-release suffix. ok is false
// when the tag is not dot-separated numbers.
func Parse(tag string) (v Version, ok bool) {
	v.Raw = tag
	s := strings.TrimPrefix(strings.TrimSpace(tag), "v")
	if idx := strings.IndexByte(s, '+'); idx >= 0 {
		s = s[:idx]
	}
	if idx := strings.IndexByte(s, '-'); idx >= 0 {
		v.Pre = s[idx+1:]
		s = s[:idx]
	}
	if s == "" {
		return Version{Raw: tag}, false
	}
	for _, seg := range strings.Split(s, ".") {
		n, err := strconv.Atoi(seg)
		if err != nil || n < 0 {
			return Version{Raw: tag}, false
		}
		v.Parts = append(v.Parts, n)
	}
	return v, true
}

// IsPrerelease reports whether the tag carries a pre-release suffix.
func IsPrerelease(tag string) bool {
	v, ok := Parse(tag)
	return ok && v.Pre != ""
}

// Compare returns -1, 0 or +1. Unparseable tags sort below every valid
// version and compare lexically among themselves. A pre-release sorts before
// its release.
func Compare(a, b string) int {
	va, okA := Parse(a)
	vb, okB := Parse(b)
	switch {
	case !okA && !okB:
		return strings.Compare(a, b)
	case !okA:
		return -1
	case !okB:
		return 1
	}

	for i, n := 0, max(len(va.Parts), len(vb.Parts)); i < n; i++ {
		x, y := 0, 0
		if i < len(va.Parts) {
			x = va.Parts[i]
		}
		if i < len(vb.Parts) {
			y = vb.Parts[i]
		}
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}

	switch {
	case va.Pre == vb.Pre:
		return 0
	case va.Pre == "":
		return 1
	case vb.Pre == "":
		return -1
	default:
		return comparePre(va.Pre, vb.Pre)
	}
}

// comparePre orders "rc2" before "rc10" by splitting off a trailing number.
func comparePre(a, b string) int {
	aText, aNum := splitTrailingNumber(a)
	bText, bNum := splitTrailingNumber(b)
	if c := strings.Compare(aText, bText); c != 0 {
		return c
	}
	switch {
	case aNum < bNum:
		return -1
	case aNum > bNum:
		return 1
	}
	return 0
}

func splitTrailingNumber(s string) (string, int) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return s, 0
	}
	return s[:i], n
}
