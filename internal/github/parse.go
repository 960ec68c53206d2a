package github

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/quantmind-br/ghfetch/internal/domain"
)

var (
	shorthandPattern = regexp.MustCompile(`^([A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?)/([A-Za-z0-9._-]+)$`)
	remotePattern    = regexp.MustCompile(`(?:^|[@/])(?:www\.)?github\.com[:/]([^/]+)/([^/]+?)(?:\.git)?/?$`)
)

// Repository identifies a GitHub repository
type Repository struct {
	Owner string
	Repo  string
}

// String returns "owner/repo"
func (r Repository) String() string {
	return r.Owner + "/" + r.Repo
}

// ParseRepository accepts "owner/repo", an https URL to the repository or an
// SSH remote such as git@github.com:owner/repo.git
func ParseRepository(s string) (Repository, error) {
	s = strings.TrimSpace(s)

	if m := shorthandPattern.FindStringSubmatch(s); m != nil {
		repo := strings.TrimSuffix(m[2], ".git")
		if repo == "" || repo == "." || repo == ".." {
			return Repository{}, fmt.Errorf("%w: %q", domain.ErrInvalidRepo, s)
		}
		return Repository{Owner: m[1], Repo: repo}, nil
	}

	if m := remotePattern.FindStringSubmatch(s); m != nil {
		return Repository{Owner: m[1], Repo: m[2]}, nil
	}

	return Repository{}, fmt.Errorf("%w: %q (expected owner/repo)", domain.ErrInvalidRepo, s)
}

// IsFileURL reports whether s looks like a GitHub file URL
func IsFileURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := strings.ToLower(u.Host)
	return host == "github.com" || host == "www.github.com" || host == "raw.githubusercontent.com"
}

// ParseFileURL extracts a FetchRequest from a GitHub blob or raw URL:
//
//	https://github.com/{owner}/{repo}/blob/{ref}/{path}
//	https://github.com/{owner}/{repo}/raw/{ref}/{path}
//	https://raw.githubusercontent.com/{owner}/{repo}/{ref}/{path}
//
// Refs containing "/" are ambiguous in these forms; the first segment is
// taken as the ref.
func ParseFileURL(s string) (domain.FetchRequest, error) {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return domain.FetchRequest{}, fmt.Errorf("invalid URL %q: %w", s, err)
	}

	segments := SplitPath(u.Path)
	host := strings.ToLower(u.Host)

	var owner, repo, ref string
	var rest []string

	switch host {
	case "github.com", "www.github.com":
		if len(segments) < 5 || (segments[2] != "blob" && segments[2] != "raw") {
			return domain.FetchRequest{}, fmt.Errorf("%w: %q is not a file URL", domain.ErrInvalidRepo, s)
		}
		owner, repo, ref, rest = segments[0], segments[1], segments[3], segments[4:]
	case "raw.githubusercontent.com":
		if len(segments) < 4 {
			return domain.FetchRequest{}, fmt.Errorf("%w: %q is not a file URL", domain.ErrInvalidRepo, s)
		}
		owner, repo, ref, rest = segments[0], segments[1], segments[2], segments[3:]
	default:
		return domain.FetchRequest{}, fmt.Errorf("%w: unsupported host %q", domain.ErrInvalidRepo, u.Host)
	}

	return domain.FetchRequest{
		Owner:  owner,
		Repo:   repo,
		Branch: ref,
		Path:   strings.Join(rest, "/"),
	}, nil
}
