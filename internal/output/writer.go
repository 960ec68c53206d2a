package output

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/ghfetch/internal/domain"
	"github.com/quantmind-br/ghfetch/internal/utils"
)

// ErrExists is returned when the destination exists and Force is not set
var ErrExists = errors.New("file already exists")

// Writer handles writing fetched files to the filesystem
type Writer struct {
	baseDir      string
	flat         bool
	jsonMetadata bool
	force        bool
	dryRun       bool
}

// WriterOptions contains options for the writer
type WriterOptions struct {
	BaseDir      string
	Flat         bool
	JSONMetadata bool
	Force        bool
	DryRun       bool
}

// Ensure Writer implements domain.Writer
var _ domain.Writer = (*Writer)(nil)

// NewWriter creates a new output writer
func NewWriter(opts WriterOptions) *Writer {
	if opts.BaseDir == "" {
		opts.BaseDir = "."
	}

	return &Writer{
		baseDir:      opts.BaseDir,
		flat:         opts.Flat,
		jsonMetadata: opts.JSONMetadata,
		force:        opts.Force,
		dryRun:       opts.DryRun,
	}
}

// Write saves the fetched bytes and returns the destination path. When target
// is empty the path is derived from the repository path; a target naming a
// directory receives the file under its base name.
func (w *Writer) Write(ctx context.Context, result *domain.FetchResult, target string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := w.Resolve(result, target)

	if !w.force && utils.FileExists(path) {
		return path, fmt.Errorf("%w: %s", ErrExists, path)
	}

	if w.dryRun {
		return path, nil
	}

	if err := utils.EnsureDir(path); err != nil {
		return path, fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
	}

	if err := os.WriteFile(path, result.Content, 0644); err != nil {
		return path, fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
	}

	if w.jsonMetadata {
		if err := w.writeJSON(utils.MetadataPath(path), result); err != nil {
			return path, fmt.Errorf("%w: metadata: %v", domain.ErrWriteFailed, err)
		}
	}

	return path, nil
}

// writeJSON writes the metadata sidecar
func (w *Writer) writeJSON(path string, result *domain.FetchResult) error {
	data, err := json.MarshalIndent(result.ToMetadata(), "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Resolve returns the destination for result without touching the filesystem
// beyond checking whether target is an existing directory
func (w *Writer) Resolve(result *domain.FetchResult, target string) string {
	if target == "" {
		return utils.GenerateFilePath(w.baseDir, result.Path, w.flat)
	}

	target = utils.ExpandPath(target)
	if strings.HasSuffix(target, "/") || strings.HasSuffix(target, string(filepath.Separator)) || isDir(target) {
		return filepath.Join(target, utils.SanitizeFilename(utils.BaseName(result.Path)))
	}
	return target
}

// BaseDir returns the directory files are written under
func (w *Writer) BaseDir() string {
	return w.baseDir
}

// EnsureBaseDir creates the base directory if it doesn't exist
func (w *Writer) EnsureBaseDir() error {
	if w.dryRun {
		return nil
	}
	return os.MkdirAll(w.baseDir, 0755)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
