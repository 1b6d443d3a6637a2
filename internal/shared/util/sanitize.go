package util

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode"
)

var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName keeps the base name of an uploaded file, replacing path
// separators and control characters, and rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "\\", "/")
	s = filepath.Base(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return '_'
		}
		return r
	}, s)
	if s == "" || s == "." || s == "/" {
		return "", ErrInvalidFileName
	}
	return s, nil
}
