package validation

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxObjectKeyLength is the longest key accepted, in bytes.
const MaxObjectKeyLength = 1024

// ObjectKey reports whether key can name an object in the bucket and a file
// in a scratch directory. Absolute paths, ".." segments, backslashes,
// control characters and directory-like keys are rejected.
func ObjectKey(key string) error {
	switch {
	case strings.TrimSpace(key) == "":
		return errors.New("must not be empty")
	case len(key) > MaxObjectKeyLength:
		return fmt.Errorf("must be at most %d bytes", MaxObjectKeyLength)
	case !utf8.ValidString(key):
		return errors.New("must be valid UTF-8")
	case strings.HasPrefix(key, "/"):
		return errors.New("must be a relative path")
	case strings.HasSuffix(key, "/"):
		return errors.New("must name a file, not a directory")
	case strings.ContainsRune(key, '\\'):
		return errors.New("must not contain backslashes")
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return errors.New("must not contain control characters")
		}
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." || seg == "." {
			return errors.New("must not contain relative path segments")
		}
	}
	if base := path.Base(key); base == "" || strings.TrimSpace(base) == "" {
		return errors.New("must have a file name")
	}
	return nil
}

// Stem returns key without its final extension: "calls/a.mp3" becomes
// "calls/a". Dots in directory names are kept.
func Stem(key string) string {
	return strings.TrimSuffix(key, path.Ext(key))
}
