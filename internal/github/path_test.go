package github

import (
	"net/url"
	"strings"
	"testing"

	"github.com/quantmind-br/ghfetch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSegment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"README.md", "README.md"},
		{"Document 1.pdf", "Document%201.pdf"},
		{"a+b&c=d", "a%2Bb%26c%3Dd"},
		{"café", "caf%C3%A9"},
		{"feature/x", "feature%2Fx"},
		{"100%", "100%25"},
		{"~tilde_-.", "~tilde_-."},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeSegment(tt.in))
		})
	}
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitPath("/a//b/"))
	assert.Empty(t, SplitPath("///"))
	assert.Equal(t, "a/b/c.txt", CleanPath("//a/b//c.txt/"))
}

func TestEncodePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "docs/guide.md", "docs/guide.md"},
		{"space", "python/Document 1.pdf", "python/Document%201.pdf"},
		{"unicode", "données/été.txt", "donn%C3%A9es/%C3%A9t%C3%A9.txt"},
		{"surrounding slashes", "/docs/guide.md/", "docs/guide.md"},
		{"empty segments", "docs//guide.md", "docs/guide.md"},
		{"reserved characters", "a?b/#c", "a%3Fb/%23c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodePath(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodePath_Empty(t *testing.T) {
	for _, in := range []string{"", "/", "//"} {
		_, err := EncodePath(in)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "path", verr.Field)
	}
}

func TestEncodePath_RoundTrip(t *testing.T) {
	paths := []string{
		"python/Document 1.pdf",
		"日本語/ファイル名.txt",
		"a b/c  d/e\tf",
		"emoji/😀 smile.md",
		"mixed/Ünïcödé + spaces & more%.bin",
	}

	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			encoded, err := EncodePath(p)
			require.NoError(t, err)

			encSegs := strings.Split(encoded, "/")
			origSegs := SplitPath(p)
			require.Len(t, encSegs, len(origSegs), "separators preserved")

			decoded := make([]string, len(encSegs))
			for i, seg := range encSegs {
				assert.NotContains(t, seg, " ")
				d, err := url.PathUnescape(seg)
				require.NoError(t, err)
				decoded[i] = d
			}
			assert.Equal(t, p, strings.Join(decoded, "/"))
		})
	}
}
