package output

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quantmind-br/ghfetch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult() *domain.FetchResult {
	return &domain.FetchResult{
		Owner:     "Theoder13",
		Repo:      "aava",
		Branch:    "main",
		Path:      "python/Document 1.pdf",
		Content:   []byte("%PDF-1.4 test"),
		Strategy:  domain.StrategyAPI,
		URL:       "https://api.github.com/repos/Theoder13/aava/contents/python/Document%201.pdf?ref=main",
		SHA:       "abc123",
		Size:      13,
		Name:      "Document 1.pdf",
		FetchedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// TestNewWriter tests creating a new writer
func TestNewWriter(t *testing.T) {
	w := NewWriter(WriterOptions{
		BaseDir:      "./test-output",
		Flat:         true,
		JSONMetadata: true,
		Force:        true,
		DryRun:       true,
	})
	assert.Equal(t, "./test-output", w.BaseDir())
	assert.True(t, w.flat)
	assert.True(t, w.jsonMetadata)
	assert.True(t, w.force)
	assert.True(t, w.dryRun)

	assert.Equal(t, ".", NewWriter(WriterOptions{}).BaseDir())
}

// TestWriter_Write tests writing a fetched file
func TestWriter_Write(t *testing.T) {
	ctx := context.Background()

	t.Run("nested path under base dir", func(t *testing.T) {
		dir := t.TempDir()
		w := NewWriter(WriterOptions{BaseDir: dir})

		path, err := w.Write(ctx, testResult(), "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "python", "Document 1.pdf"), path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4 test", string(data))
		assert.NoFileExists(t, path+".meta.json")
	})

	t.Run("flat mode keeps base name", func(t *testing.T) {
		dir := t.TempDir()
		w := NewWriter(WriterOptions{BaseDir: dir, Flat: true})

		path, err := w.Write(ctx, testResult(), "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "Document 1.pdf"), path)
		assert.FileExists(t, path)
	})

	t.Run("explicit file target", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "out", "doc.pdf")
		w := NewWriter(WriterOptions{BaseDir: "ignored"})

		path, err := w.Write(ctx, testResult(), target)
		require.NoError(t, err)
		assert.Equal(t, target, path)
		assert.FileExists(t, target)
	})

	t.Run("directory target", func(t *testing.T) {
		dir := t.TempDir()
		w := NewWriter(WriterOptions{})

		path, err := w.Write(ctx, testResult(), dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "Document 1.pdf"), path)

		path, err = w.Write(ctx, testResult(), filepath.Join(dir, "new")+string(filepath.Separator))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "new", "Document 1.pdf"), path)
	})

	t.Run("existing file is skipped without force", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "doc.pdf")
		require.NoError(t, os.WriteFile(target, []byte("original"), 0644))

		path, err := NewWriter(WriterOptions{}).Write(ctx, testResult(), target)
		assert.ErrorIs(t, err, ErrExists)
		assert.Equal(t, target, path)

		data, _ := os.ReadFile(target)
		assert.Equal(t, "original", string(data))

		_, err = NewWriter(WriterOptions{Force: true}).Write(ctx, testResult(), target)
		require.NoError(t, err)
		data, _ = os.ReadFile(target)
		assert.Equal(t, "%PDF-1.4 test", string(data))
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		dir := t.TempDir()
		w := NewWriter(WriterOptions{BaseDir: dir, DryRun: true, JSONMetadata: true})

		path, err := w.Write(ctx, testResult(), "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "python", "Document 1.pdf"), path)
		assert.NoFileExists(t, path)
		assert.NoDirExists(t, filepath.Join(dir, "python"))
	})

	t.Run("json metadata sidecar", func(t *testing.T) {
		dir := t.TempDir()
		w := NewWriter(WriterOptions{BaseDir: dir, JSONMetadata: true})

		path, err := w.Write(ctx, testResult(), "")
		require.NoError(t, err)

		data, err := os.ReadFile(path + ".meta.json")
		require.NoError(t, err)

		var meta domain.FileMetadata
		require.NoError(t, json.Unmarshal(data, &meta))
		assert.Equal(t, "Theoder13/aava", meta.Repository)
		assert.Equal(t, "python/Document 1.pdf", meta.Path)
		assert.Equal(t, domain.StrategyAPI, meta.Strategy)
		assert.Equal(t, "abc123", meta.SHA)
		assert.Equal(t, int64(13), meta.Size)
	})

	t.Run("write failure", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		require.NoError(t, os.WriteFile(blocker, nil, 0644))

		_, err := NewWriter(WriterOptions{}).Write(ctx, testResult(), filepath.Join(blocker, "sub", "doc.pdf"))
		assert.ErrorIs(t, err, domain.ErrWriteFailed)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := NewWriter(WriterOptions{BaseDir: t.TempDir()}).Write(cctx, testResult(), "")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestWriter_EnsureBaseDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, NewWriter(WriterOptions{BaseDir: dir, DryRun: true}).EnsureBaseDir())
	assert.NoDirExists(t, dir)

	require.NoError(t, NewWriter(WriterOptions{BaseDir: dir}).EnsureBaseDir())
	assert.DirExists(t, dir)
}
