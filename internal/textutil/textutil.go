// Package textutil holds the small text normalization helpers shared by the
// parsing and resolution layers.
package textutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Slugify lowercases a name and collapses every run of non-alphanumeric
// characters into a single hyphen. Leading and trailing hyphens are stripped,
// so all-symbol input yields an empty slug; callers must treat that as a
// parse failure.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}

	return b.String()
}

// SanitizePath cleans up a user-supplied path: trims whitespace, strips a
// single matching pair of surrounding quotes, expands a leading "~", and
// resolves the result to an absolute path. It does not check that the path
// exists.
func SanitizePath(raw string) (string, error) {
	path := strings.TrimSpace(raw)
	path = stripMatchingQuotes(path)

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}

	return filepath.Abs(path)
}

func stripMatchingQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '"' || first == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
