package util

import (
	"errors"
	"strings"
)

const maxFileNameLen = 100

var errFileName = errors.New("invalid file name")

// SanitizeFileName reduces an uploaded file name to letters, digits, dot,
// dash and underscore. Traversal patterns and names with nothing left are
// rejected; long names keep their extension.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errFileName
	}
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := strings.Trim(b.String(), "._")
	if s == "" {
		return "", errFileName
	}
	if len(s) > maxFileNameLen {
		ext := ""
		if i := strings.LastIndexByte(s, '.'); i > 0 && len(s)-i <= 10 {
			ext = s[i:]
		}
		s = s[:maxFileNameLen-len(ext)] + ext
	}
	return s, nil
}
