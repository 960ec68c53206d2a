package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/ghfetch/internal/domain"
	"github.com/quantmind-br/ghfetch/internal/git"
	"github.com/quantmind-br/ghfetch/internal/github"
)

// RequestSource describes how command arguments named the file
type RequestSource string

const (
	SourceURL        RequestSource = "url"
	SourceRepository RequestSource = "repository"
	SourceWorkTree   RequestSource = "worktree"
)

// RepoDetector returns the GitHub repository backing a local directory
type RepoDetector func(dir string) (*git.RepoInfo, error)

// Resolver turns command arguments into a fetch request
type Resolver struct {
	detect  RepoDetector
	workDir string
}

// NewResolver creates a Resolver. A nil detect uses git.Detect; an empty
// workDir uses the process working directory.
func NewResolver(detect RepoDetector, workDir string) *Resolver {
	if detect == nil {
		detect = git.Detect
	}
	if workDir == "" {
		if wd, err := os.Getwd(); err == nil {
			workDir = wd
		} else {
			workDir = "."
		}
	}
	return &Resolver{detect: detect, workDir: workDir}
}

// DetectSource classifies the argument list without resolving it
func DetectSource(args []string) RequestSource {
	switch {
	case len(args) == 1 && github.IsFileURL(args[0]):
		return SourceURL
	case len(args) == 2:
		return SourceRepository
	case len(args) == 1:
		return SourceWorkTree
	default:
		return ""
	}
}

// Resolve accepts one of:
//
//	https://github.com/{owner}/{repo}/blob/{ref}/{path}
//	{owner}/{repo} {path}
//	{local path inside a clone of a GitHub repository}
//
// A non-empty branch overrides the ref found in the arguments.
func (r *Resolver) Resolve(args []string, branch string) (domain.FetchRequest, RequestSource, error) {
	source := DetectSource(args)

	var req domain.FetchRequest
	switch source {
	case SourceURL:
		parsed, err := github.ParseFileURL(args[0])
		if err != nil {
			return req, source, err
		}
		req = parsed

	case SourceRepository:
		repo, err := github.ParseRepository(args[0])
		if err != nil {
			return req, source, err
		}
		req = domain.FetchRequest{Owner: repo.Owner, Repo: repo.Repo, Path: args[1]}

	case SourceWorkTree:
		local := args[0]
		if !filepath.IsAbs(local) {
			local = filepath.Join(r.workDir, local)
		}
		info, err := r.detect(filepath.Dir(local))
		if err != nil {
			return req, source, fmt.Errorf("cannot infer repository for %s: %w", args[0], err)
		}
		path, err := info.RepoPath(local)
		if err != nil {
			return req, source, err
		}
		req = domain.FetchRequest{Owner: info.Owner, Repo: info.Repo, Branch: info.Branch, Path: path}

	default:
		return req, source, domain.NewValidationError("args", "expected a file URL, owner/repo and a path, or a local path")
	}

	if strings.TrimSpace(branch) != "" {
		req.Branch = branch
	}
	if strings.Trim(req.Path, "/ ") == "" {
		return req, source, domain.NewValidationError("path", "path is required")
	}
	return req, source, nil
}
