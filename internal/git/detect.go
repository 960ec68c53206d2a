package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/quantmind-br/ghfetch/internal/github"
)

// DefaultRemote is the remote inspected for repository coordinates
const DefaultRemote = "origin"

var (
	// ErrNotRepository indicates dir is not inside a git working tree
	ErrNotRepository = errors.New("not inside a git repository")

	// ErrNoRemote indicates the repository has no usable remote
	ErrNoRemote = errors.New("repository has no origin remote")
)

// RepoInfo describes the GitHub repository backing a local checkout
type RepoInfo struct {
	Owner     string
	Repo      string
	Branch    string
	RemoteURL string
	Root      string
}

// Detector reads repository coordinates from local checkouts
type Detector struct {
	client Client
	remote string
}

// NewDetector creates a Detector. A nil client uses go-git directly.
func NewDetector(client Client) *Detector {
	if client == nil {
		client = NewClient()
	}
	return &Detector{client: client, remote: DefaultRemote}
}

// Detect opens the working tree enclosing dir and returns the GitHub
// repository of its origin remote and the current branch. Branch is empty on
// a detached HEAD.
func Detect(dir string) (*RepoInfo, error) {
	return NewDetector(nil).Detect(dir)
}

// Detect implements the package level Detect
func (d *Detector) Detect(dir string) (*RepoInfo, error) {
	repo, err := d.client.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, dir)
		}
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	remote, err := repo.Remote(d.remote)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return nil, ErrNoRemote
		}
		return nil, fmt.Errorf("failed to read remote: %w", err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return nil, ErrNoRemote
	}

	parsed, err := github.ParseRepository(urls[0])
	if err != nil {
		return nil, err
	}

	info := &RepoInfo{
		Owner:     parsed.Owner,
		Repo:      parsed.Repo,
		RemoteURL: urls[0],
		Branch:    currentBranch(repo),
	}

	if wt, err := repo.Worktree(); err == nil {
		info.Root = wt.Filesystem.Root()
	}

	return info, nil
}

// currentBranch resolves HEAD without following it so unborn branches
// still report their name
func currentBranch(repo *git.Repository) string {
	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return ""
	}
	if head.Type() == plumbing.SymbolicReference && head.Target().IsBranch() {
		return head.Target().Short()
	}
	return ""
}

// RepoPath converts a local file path inside the working tree into the
// slash separated path used by the repository
func (i *RepoInfo) RepoPath(localPath string) (string, error) {
	if i.Root == "" {
		return "", fmt.Errorf("repository root unknown")
	}

	abs, err := filepath.Abs(localPath)
	if err != nil {
		return "", err
	}
	root, err := filepath.Abs(i.Root)
	if err != nil {
		return "", err
	}
	// resolve symlinks on both sides so /tmp style aliases compare equal
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	if resolved, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		abs = filepath.Join(resolved, filepath.Base(abs))
	}

	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside repository %s", localPath, i.Root)
	}
	return filepath.ToSlash(rel), nil
}
