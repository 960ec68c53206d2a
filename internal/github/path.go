package github

import (
	"strings"

	"github.com/quantmind-br/ghfetch/internal/domain"
)

const upperHex = "0123456789ABCDEF"

// EncodeSegment percent-encodes a single path segment. Every byte outside
// the RFC 3986 unreserved set is escaped, including "/".
func EncodeSegment(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&15])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}

// SplitPath splits a repository path on "/" and drops empty segments
func SplitPath(path string) []string {
	parts := strings.Split(path, "/")
	segments := parts[:0]
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// CleanPath returns the path with leading, trailing and repeated slashes removed
func CleanPath(path string) string {
	return strings.Join(SplitPath(path), "/")
}

// EncodePath encodes each non-empty segment of path independently and
// rejoins them with "/".
func EncodePath(path string) (string, error) {
	segments := SplitPath(path)
	if len(segments) == 0 {
		return "", domain.NewValidationError("path", "must contain at least one non-empty segment")
	}

	encoded := make([]string, len(segments))
	for i, seg := range segments {
		encoded[i] = EncodeSegment(seg)
	}
	return strings.Join(encoded, "/"), nil
}
