package cache

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/quantmind-br/ghfetch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryCache(t *testing.T, compress bool) *BadgerCache {
	t.Helper()
	c, err := NewBadgerCache(Options{InMemory: true, Compress: compress})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestEntry_IsExpired(t *testing.T) {
	tests := []struct {
		name     string
		entry    *Entry
		expected bool
	}{
		{"not expired", &Entry{ExpiresAt: time.Now().Add(time.Hour)}, false},
		{"expired", &Entry{ExpiresAt: time.Now().Add(-time.Hour)}, true},
		{"just now - not expired", &Entry{ExpiresAt: time.Now().Add(100 * time.Millisecond)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.entry.IsExpired())
		})
	}
}

func TestEntry_TTL(t *testing.T) {
	live := &Entry{ExpiresAt: time.Now().Add(time.Hour)}
	assert.GreaterOrEqual(t, live.TTL(), 59*time.Minute)
	assert.LessOrEqual(t, live.TTL(), 61*time.Minute)

	expired := &Entry{ExpiresAt: time.Now().Add(-time.Hour)}
	assert.Equal(t, time.Duration(0), expired.TTL())
}

func TestEntry_RoundTrip(t *testing.T) {
	fetchedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	result := &domain.FetchResult{
		Owner:     "Theoder13",
		Repo:      "aava",
		Branch:    "main",
		Path:      "python/Document 1.pdf",
		Content:   []byte("%PDF-1.4"),
		Strategy:  domain.StrategyAPI,
		URL:       "https://api.github.com/repos/Theoder13/aava/contents/python/Document%201.pdf?ref=main",
		SHA:       "abc123",
		Size:      8,
		Name:      "Document 1.pdf",
		FetchedAt: fetchedAt,
	}

	entry := NewEntry(result, time.Hour)
	assert.Equal(t, fetchedAt.Add(time.Hour), entry.ExpiresAt)

	back := entry.Result()
	assert.True(t, back.FromCache)
	back.FromCache = false
	assert.Equal(t, result, back)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.Empty(t, opts.Directory)
	assert.False(t, opts.InMemory)
	assert.False(t, opts.Logger)
	assert.True(t, opts.Compress)
}

func TestGenerateKey(t *testing.T) {
	key := GenerateKey("material")
	assert.Len(t, key, 64)
	assert.Equal(t, key, GenerateKey("material"))
	assert.NotEqual(t, key, GenerateKey("other"))

	prefixed := GenerateKeyWithPrefix(PrefixFile, "material")
	assert.Equal(t, "file:"+key, prefixed)
}

func TestCredentialFingerprint(t *testing.T) {
	assert.Equal(t, "anon", CredentialFingerprint(""))

	fp := CredentialFingerprint("ghp_secret")
	assert.Len(t, fp, 16)
	assert.NotContains(t, fp, "secret")
	assert.NotEqual(t, fp, CredentialFingerprint("ghp_other"))
}

func TestFileKey(t *testing.T) {
	base := FileKey("octo", "repo", "main", "docs/a.md", "")

	tests := []struct {
		name  string
		key   string
		equal bool
	}{
		{"owner and repo are case-insensitive", FileKey("Octo", "REPO", "main", "docs/a.md", ""), true},
		{"surrounding slashes ignored", FileKey("octo", "repo", "main", "/docs/a.md/", ""), true},
		{"repeated slashes collapsed", FileKey("octo", "repo", "main", "docs//a.md", ""), true},
		{"branch is significant", FileKey("octo", "repo", "dev", "docs/a.md", ""), false},
		{"path case is significant", FileKey("octo", "repo", "main", "docs/A.md", ""), false},
		{"credential scopes the entry", FileKey("octo", "repo", "main", "docs/a.md", "token"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.equal {
				assert.Equal(t, base, tt.key)
			} else {
				assert.NotEqual(t, base, tt.key)
			}
		})
	}

	assert.Contains(t, base, PrefixFile+":")
}

func TestNewBadgerCache(t *testing.T) {
	t.Run("creates in-memory cache", func(t *testing.T) {
		c, err := NewBadgerCache(Options{InMemory: true})
		require.NoError(t, err)
		assert.Empty(t, c.Directory())
		require.NoError(t, c.Close())
	})

	t.Run("creates file-based cache with temp directory", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "nested")
		c, err := NewBadgerCache(Options{Directory: tmpDir})
		require.NoError(t, err)
		assert.Equal(t, tmpDir, c.Directory())
		require.NoError(t, c.Close())

		_, err = os.Stat(tmpDir)
		assert.NoError(t, err)
	})

	t.Run("creates file-based cache in default location", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("HOME", tmpDir)

		c, err := NewBadgerCache(Options{})
		require.NoError(t, err)
		require.NoError(t, c.Close())

		_, err = os.Stat(filepath.Join(tmpDir, ".ghfetch", "cache"))
		assert.NoError(t, err)
	})
}

func TestBadgerCache_GetSet(t *testing.T) {
	for _, compress := range []bool{false, true} {
		t.Run(fmt.Sprintf("compress=%v", compress), func(t *testing.T) {
			c := newMemoryCache(t, compress)
			ctx := context.Background()
			key := FileKey("octo", "repo", "main", "a.txt", "")

			_, err := c.Get(ctx, key)
			assert.ErrorIs(t, err, domain.ErrCacheMiss)

			value := bytes.Repeat([]byte("payload "), 512)
			require.NoError(t, c.Set(ctx, key, value, time.Hour))

			got, err := c.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, value, got)

			require.NoError(t, c.Set(ctx, key, []byte("updated"), 0))
			got, err = c.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, []byte("updated"), got)
		})
	}
}

func TestBadgerCache_HasDelete(t *testing.T) {
	c := newMemoryCache(t, true)
	ctx := context.Background()
	key := FileKey("octo", "repo", "main", "a.txt", "")

	assert.False(t, c.Has(ctx, key))
	require.NoError(t, c.Set(ctx, key, []byte("content"), time.Hour))
	assert.True(t, c.Has(ctx, key))

	require.NoError(t, c.Delete(ctx, key))
	assert.False(t, c.Has(ctx, key))

	// deleting a missing key is not an error
	assert.NoError(t, c.Delete(ctx, key))
}

func TestBadgerCache_ClearSizeStats(t *testing.T) {
	c := newMemoryCache(t, true)
	ctx := context.Background()

	assert.Equal(t, int64(0), c.Size())

	require.NoError(t, c.Set(ctx, FileKey("o", "r", "main", "a", ""), []byte("1"), time.Hour))
	require.NoError(t, c.Set(ctx, FileKey("o", "r", "main", "b", ""), []byte("2"), time.Hour))
	require.NoError(t, c.Set(ctx, "other", []byte("3"), time.Hour))

	assert.Equal(t, int64(3), c.Size())

	stats := c.Stats()
	assert.Equal(t, int64(3), stats["entries"])
	assert.Equal(t, int64(2), stats["files"])
	assert.Equal(t, true, stats["compressed"])
	assert.Contains(t, stats, "lsm_size")
	assert.Contains(t, stats, "vlog_size")

	require.NoError(t, c.Clear())
	assert.Equal(t, int64(0), c.Size())
}

func TestBadgerCache_ConcurrentAccess(t *testing.T) {
	c := newMemoryCache(t, true)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		key := FileKey("o", "r", "main", fmt.Sprintf("file-%d", i), "")
		go func() {
			defer wg.Done()
			_ = c.Set(ctx, key, []byte("content"), time.Hour)
		}()
		go func() {
			defer wg.Done()
			_, _ = c.Get(ctx, key)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), c.Size())
}
