package core

import (
	"path/filepath"
	"strings"
)

// NormalizePath converts a working-tree path to its canonical relative form:
// forward slashes, no leading "./", no duplicate separators.
func NormalizePath(path string) string {
	normalized := strings.ReplaceAll(path, "\\", "/")
	normalized = strings.TrimPrefix(normalized, "./")

	var b strings.Builder
	lastWasSlash := false
	for _, c := range normalized {
		if c == '/' {
			if !lastWasSlash {
				b.WriteRune(c)
			}
			lastWasSlash = true
		} else {
			b.WriteRune(c)
			lastWasSlash = false
		}
	}
	return b.String()
}

// ValidateRelPath rejects paths that cannot name a tracked file: empty
// strings, NUL bytes, absolute paths, and ".." components. Validation happens
// at parse time so later layers can trust their inputs.
func ValidateRelPath(path string) error {
	if path == "" {
		return ValidationError("validate", "path cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return ValidationError("validate", "path contains a NUL byte")
	}
	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return ValidationError("validate", "absolute paths are not allowed: %s", path)
	}
	for _, part := range strings.Split(NormalizePath(path), "/") {
		if part == ".." {
			return ValidationError("validate", "path may not contain '..': %s", path)
		}
	}
	return nil
}
