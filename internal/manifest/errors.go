package manifest

import "errors"

// Sentinel errors for the manifest package
var (
	// ErrNoFiles indicates the manifest has no files defined
	ErrNoFiles = errors.New("manifest must contain at least one file")

	// ErrEmptyRepo indicates a file entry is missing the repo field
	ErrEmptyRepo = errors.New("file repo cannot be empty")

	// ErrInvalidRepo indicates a repo that is not in owner/repo form
	ErrInvalidRepo = errors.New("file repo must be owner/repo")

	// ErrEmptyPath indicates a file entry is missing the path field
	ErrEmptyPath = errors.New("file path cannot be empty")

	// ErrInvalidFormat indicates the manifest file is not valid YAML or JSON
	ErrInvalidFormat = errors.New("manifest must be valid YAML or JSON")

	// ErrFileNotFound indicates the manifest file does not exist
	ErrFileNotFound = errors.New("manifest file not found")

	// ErrUnsupportedExt indicates an unsupported file extension
	ErrUnsupportedExt = errors.New("unsupported file extension (use .yaml, .yml, or .json)")
)
