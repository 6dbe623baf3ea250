// Package predicate implements the per-entry filter tests: name and path
// globs, file type, owner and missing owner. All tests are pure given the
// entry and a read-only identity resolver.
package predicate

import (
	"strings"

	"github.com/gobwas/glob"

	"github.com/Ning0612/myfind/internal/domain"
	"github.com/Ning0612/myfind/internal/identity"
)

// Pattern is a compiled shell glob
type Pattern struct {
	raw string
	g   glob.Glob // nil when the pattern can never match
}

// String returns the pattern as the user wrote it
func (p Pattern) String() string {
	return p.raw
}

func (p Pattern) match(s string) bool {
	return p.g != nil && p.g.Match(s)
}

// CompileName compiles a -name pattern; no character is treated as a separator
func CompileName(pattern string) (Pattern, error) {
	return compile(pattern, "-name", false)
}

// CompilePath compiles a -path pattern; '*', '?' and bracket expressions
// never match '/'
func CompilePath(pattern string) (Pattern, error) {
	return compile(pattern, "-path", true)
}

func compile(pattern, primary string, pathMode bool) (Pattern, error) {
	src, ok := translate(pattern, pathMode)
	if !ok {
		return Pattern{raw: pattern}, nil
	}

	var separators []rune
	if pathMode {
		separators = []rune{'/'}
	}
	g, err := glob.Compile(src, separators...)
	if err != nil {
		return Pattern{}, domain.NewUsageError(domain.ErrInvalidPattern,
			"Invalid pattern `%s' for %s: %v.", pattern, primary, err)
	}
	return Pattern{raw: pattern, g: g}, nil
}

// MatchesName matches the final component of path against p
func MatchesName(path string, p Pattern) bool {
	return p.match(baseName(path))
}

// MatchesPath matches the full path, as the walker built it, against p
func MatchesPath(path string, p Pattern) bool {
	return p.match(path)
}

// baseName behaves like basename(3): trailing slashes are ignored and "/" stays "/"
func baseName(path string) string {
	if path == "" {
		return "."
	}
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		return "/"
	}
	if i := strings.LastIndexByte(trimmed, '/'); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// MatchesType reports whether meta is of the kind named by the -type letter c
func MatchesType(meta domain.Metadata, c byte) bool {
	return meta.Type.Char() == c
}

// MatchesUser tests the entry's owner against a -user operand.
//
// A known login name is compared by name, even when it looks numeric.
// Any other integer (read like strtol, so "-1" is uid 4294967295) is
// compared with the raw uid, so accounts that no longer exist can still
// be matched. Everything else is a usage error.
func MatchesUser(r identity.Resolver, meta domain.Metadata, identifier string) (bool, error) {
	if identity.UserExists(r, identifier, false) {
		name, ok := r.LookupUserID(meta.UID)
		return ok && name == identifier, nil
	}

	uid, ok := identity.ParseUID(identifier)
	if !ok {
		return false, domain.NewUsageError(domain.ErrUnknownUser,
			"`%s' is not the name of a known user", identifier)
	}
	return uid == meta.UID, nil
}

// HasNoOwner reports whether the entry's uid has no account entry
func HasNoOwner(r identity.Resolver, meta domain.Metadata) bool {
	_, ok := r.LookupUserID(meta.UID)
	return !ok
}
