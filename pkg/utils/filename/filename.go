// Package filename provides path helpers for files produced in the downloads
// directory.
package filename

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrUnsafeName is returned by Within for names that would escape the base
// directory.
var ErrUnsafeName = errors.New("filename: unsafe name")

// StripExt removes the final extension from path. Only the last path element
// is considered, so dots in directory names are left alone.
func StripExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// ReplaceExt swaps the final extension of path for ext ("mp3" or ".mp3").
// A path without an extension gets ext appended.
func ReplaceExt(path string, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	return StripExt(path) + "." + ext
}

// Within joins name onto dir, rejecting anything that is not a single plain
// path element.
func Within(dir string, name string) (string, error) {
	if name == "" || name == "." || name == ".." {
		return "", ErrUnsafeName
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return "", ErrUnsafeName
	}
	return filepath.Join(dir, name), nil
}
