package util

import "strings"

// SanitizeContextText strips invalid UTF-8 sequences and NUL bytes from
// caller-supplied context snippets before they are stored on a reference.
func SanitizeContextText(value string) string {
	if value == "" {
		return value
	}

	sanitized := strings.ToValidUTF8(value, "")
	return strings.ReplaceAll(sanitized, "\x00", "")
}
