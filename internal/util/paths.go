package util

import (
	"path"
	"path/filepath"
	"strings"
)

// NormalizeDocPath resolves p against the corpus base directory and returns
// the canonical relative slash-separated form. The second return value is
// false when p falls outside the base directory; the cleaned input is
// returned unchanged in that case so callers can surface it in messages.
func NormalizeDocPath(baseDir, p string) (string, bool) {
	if p == "" {
		return "", false
	}

	cleanBase := path.Clean(filepath.ToSlash(baseDir))
	cleanPath := path.Clean(filepath.ToSlash(p))

	if strings.HasPrefix(cleanPath, "/") {
		if cleanBase != "" && cleanBase != "." {
			if rel, ok := strings.CutPrefix(cleanPath, cleanBase+"/"); ok {
				return rel, true
			}
			if cleanPath == cleanBase {
				return cleanPath, false
			}
		}
		return cleanPath, false
	}

	// Relative paths are interpreted against the base directory. Anything
	// climbing above it is outside the corpus.
	if cleanPath == "." || cleanPath == ".." || strings.HasPrefix(cleanPath, "../") {
		return cleanPath, false
	}

	return cleanPath, true
}

// PathSegments splits a slash path into its non-empty segments.
func PathSegments(p string) []string {
	cleaned := path.Clean(filepath.ToSlash(p))
	if cleaned == "" || cleaned == "." || cleaned == "/" {
		return nil
	}
	cleaned = strings.TrimPrefix(cleaned, "/")
	return strings.Split(cleaned, "/")
}

// CommonPrefixLen counts how many leading segments two segment lists share.
func CommonPrefixLen(a, b []string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func Basename(p string) string {
	return path.Base(filepath.ToSlash(p))
}

func StripExtension(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}

// Extension returns the lowercased file extension including the dot.
func Extension(p string) string {
	return strings.ToLower(path.Ext(filepath.ToSlash(p)))
}
