package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/quantmind-br/ghfetch/internal/domain"
)

// DefaultIndexFilename is the batch index written under the base directory
const DefaultIndexFilename = "ghfetch-index.json"

// IndexEntry describes one saved file in a batch index
type IndexEntry struct {
	domain.FileMetadata
	LocalPath string `json:"local_path"`
}

// Index lists every file a batch saved
type Index struct {
	GeneratedAt time.Time    `json:"generated_at"`
	TotalFiles  int          `json:"total_files"`
	Files       []IndexEntry `json:"files"`
}

// MetadataCollector accumulates saved files and writes a single index
type MetadataCollector struct {
	mu       sync.RWMutex
	files    []IndexEntry
	baseDir  string
	filename string
	enabled  bool
}

type CollectorOptions struct {
	BaseDir  string
	Filename string
	Enabled  bool
}

func NewMetadataCollector(opts CollectorOptions) *MetadataCollector {
	filename := opts.Filename
	if filename == "" {
		filename = DefaultIndexFilename
	}
	return &MetadataCollector{
		files:    make([]IndexEntry, 0),
		baseDir:  opts.BaseDir,
		filename: filename,
		enabled:  opts.Enabled,
	}
}

// Add records result as saved at filePath
func (c *MetadataCollector) Add(result *domain.FetchResult, filePath string) {
	if !c.enabled || result == nil {
		return
	}

	relPath, err := filepath.Rel(c.baseDir, filePath)
	if err != nil {
		relPath = filePath
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.files = append(c.files, IndexEntry{
		FileMetadata: *result.ToMetadata(),
		LocalPath:    filepath.ToSlash(relPath),
	})
}

// Flush writes the index; it is a no-op when disabled or empty
func (c *MetadataCollector) Flush() error {
	if !c.enabled || c.Count() == 0 {
		return nil
	}

	data, err := json.MarshalIndent(c.GetIndex(), "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.baseDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(c.Path(), data, 0644)
}

// Path returns where Flush writes the index
func (c *MetadataCollector) Path() string {
	return filepath.Join(c.baseDir, c.filename)
}

func (c *MetadataCollector) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.files)
}

// GetIndex returns a snapshot ordered by local path
func (c *MetadataCollector) GetIndex() *Index {
	c.mu.RLock()
	files := make([]IndexEntry, len(c.files))
	copy(files, c.files)
	c.mu.RUnlock()

	sort.Slice(files, func(i, j int) bool {
		return files[i].LocalPath < files[j].LocalPath
	})

	return &Index{
		GeneratedAt: time.Now(),
		TotalFiles:  len(files),
		Files:       files,
	}
}

func (c *MetadataCollector) IsEnabled() bool {
	return c.enabled
}
