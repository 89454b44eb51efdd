// Package naming implements the registry's identifier grammar: the final
// gate every candidate passes before it is counted as generated or sent to
// the remote oracle.
package naming

import (
	"regexp"
	"strings"
)

// Registry-imposed absolute length bounds for an identifier.
const (
	MinLength = 5
	MaxLength = 32
)

// namePattern encodes the registry grammar: leading ASCII letter, then
// letters, digits, or underscore, total length 5..32. Names are normalized
// to lowercase before matching, so the lowercase class is sufficient.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{4,31}$`)

// Normalize trims whitespace, strips one leading "@", and lowercases.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "@")
	return strings.ToLower(s)
}

// IsValid reports whether the normalized form of s is a legal identifier.
func IsValid(s string) bool {
	return namePattern.MatchString(Normalize(s))
}
