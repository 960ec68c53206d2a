// Package manifest loads batch manifests: a list of repository files to fetch
// with shared options, written in YAML or JSON.
//
// # Manifest Format
//
//	files:
//	  - repo: Theoder13/aava
//	    path: python/Document 1.pdf
//	    inspect_pdf: true
//	  - repo: octo-org/handbook
//	    path: README.md
//	    branch: develop
//	    output: handbook.md
//	options:
//	  output: ./downloads
//	  branch: main
//	  concurrency: 4
//	  continue_on_error: true
//
// # Usage
//
//	loader := manifest.NewLoader()
//	cfg, err := loader.Load("files.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, file := range cfg.Files {
//	    req, err := file.Request(cfg.Options.Branch)
//	    // ...
//	}
//
// # Error Handling
//
// The package defines sentinel errors for common failure cases:
//   - ErrNoFiles: manifest has no files defined
//   - ErrEmptyRepo: file entry is missing the repo field
//   - ErrInvalidRepo: repo is not in owner/repo form
//   - ErrEmptyPath: file entry is missing the path field
//   - ErrInvalidFormat: file is not valid YAML/JSON
//   - ErrFileNotFound: manifest file does not exist
//   - ErrUnsupportedExt: unsupported file extension
package manifest
