package util

import (
	"errors"
	"path"
	"strings"
	"unicode"
)

// ErrEmptyFileName is returned when nothing printable is left of a file name.
var ErrEmptyFileName = errors.New("file name is empty")

// CleanFileName keeps the uploader's name as supplied apart from surrounding
// whitespace and control characters. The name never reaches a storage key.
func CleanFileName(name string) (string, error) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyFileName
	}
	return s, nil
}

// Extension returns the lowercase extension of name without the dot, or "" when it has none
// or the extension is not plain alphanumeric.
func Extension(name string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
	if ext == "" || len(ext) > 10 {
		return ""
	}
	for _, r := range ext {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') {
			return ""
		}
	}
	return ext
}
