package github

import (
	"testing"

	"github.com/quantmind-br/ghfetch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepository(t *testing.T) {
	tests := []struct {
		in    string
		owner string
		repo  string
	}{
		{"Theoder13/aava", "Theoder13", "aava"},
		{"octo-org/my.repo", "octo-org", "my.repo"},
		{"octo/repo.git", "octo", "repo"},
		{"https://github.com/octo/repo", "octo", "repo"},
		{"https://github.com/octo/repo.git", "octo", "repo"},
		{"git@github.com:octo/repo.git", "octo", "repo"},
		{"ssh://git@github.com/octo/repo.git", "octo", "repo"},
		{"https://www.github.com/octo/repo", "octo", "repo"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, err := ParseRepository(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.owner, r.Owner)
			assert.Equal(t, tt.repo, r.Repo)
			assert.Equal(t, tt.owner+"/"+tt.repo, r.String())
		})
	}
}

func TestParseRepository_Invalid(t *testing.T) {
	for _, in := range []string{"", "octo", "octo/", "/repo", "a/b/c", "https://gitlab.com/a/b", "-bad/repo",
		"https://evilgithub.com/o/r", "git@notgithub.com:o/r.git"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseRepository(in)
			assert.ErrorIs(t, err, domain.ErrInvalidRepo)
		})
	}
}

func TestIsFileURL(t *testing.T) {
	assert.True(t, IsFileURL("https://github.com/o/r/blob/main/a.txt"))
	assert.True(t, IsFileURL("https://raw.githubusercontent.com/o/r/main/a.txt"))
	assert.False(t, IsFileURL("o/r"))
	assert.False(t, IsFileURL("docs/readme.md"))
	assert.False(t, IsFileURL("https://example.com/o/r"))
}

func TestParseFileURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want domain.FetchRequest
	}{
		{
			name: "blob URL",
			in:   "https://github.com/Theoder13/aava/blob/main/python/Document%201.pdf",
			want: domain.FetchRequest{Owner: "Theoder13", Repo: "aava", Branch: "main", Path: "python/Document 1.pdf"},
		},
		{
			name: "raw on github.com",
			in:   "https://github.com/octo/repo/raw/v1.0.0/README.md",
			want: domain.FetchRequest{Owner: "octo", Repo: "repo", Branch: "v1.0.0", Path: "README.md"},
		},
		{
			name: "raw host",
			in:   "https://raw.githubusercontent.com/octo/repo/dev/docs/a.md",
			want: domain.FetchRequest{Owner: "octo", Repo: "repo", Branch: "dev", Path: "docs/a.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFileURL(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFileURL_Invalid(t *testing.T) {
	for _, in := range []string{
		"https://github.com/octo/repo",
		"https://github.com/octo/repo/tree/main/docs",
		"https://raw.githubusercontent.com/octo/repo/main",
		"https://example.com/octo/repo/blob/main/a",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseFileURL(in)
			assert.ErrorIs(t, err, domain.ErrInvalidRepo)
		})
	}
}
