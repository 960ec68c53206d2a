package manifest

import (
	"fmt"
	"strings"
	"time"

	"github.com/quantmind-br/ghfetch/internal/domain"
	"github.com/quantmind-br/ghfetch/internal/github"
)

// Config represents the complete manifest configuration
type Config struct {
	Files   []File  `yaml:"files" json:"files"`
	Options Options `yaml:"options" json:"options"`
}

// File is one repository file to fetch
type File struct {
	Repo       string `yaml:"repo" json:"repo"`
	Path       string `yaml:"path" json:"path"`
	Branch     string `yaml:"branch,omitempty" json:"branch,omitempty"`
	Output     string `yaml:"output,omitempty" json:"output,omitempty"`
	InspectPDF bool   `yaml:"inspect_pdf,omitempty" json:"inspect_pdf,omitempty"`
}

// Options represents global manifest options
type Options struct {
	ContinueOnError bool          `yaml:"continue_on_error" json:"continue_on_error"`
	Output          string        `yaml:"output,omitempty" json:"output,omitempty"`
	Branch          string        `yaml:"branch,omitempty" json:"branch,omitempty"`
	Concurrency     int           `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`
	CacheTTL        time.Duration `yaml:"cache_ttl,omitempty" json:"cache_ttl,omitempty"`
	Flat            bool          `yaml:"flat,omitempty" json:"flat,omitempty"`
}

// Coordinates splits Repo into owner and repository name
func (f File) Coordinates() (owner, repo string, err error) {
	r, err := github.ParseRepository(f.Repo)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidRepo, err)
	}
	return r.Owner, r.Repo, nil
}

// Request builds the fetch request for f, using defaultBranch when the entry
// sets none
func (f File) Request(defaultBranch string) (domain.FetchRequest, error) {
	owner, repo, err := f.Coordinates()
	if err != nil {
		return domain.FetchRequest{}, err
	}
	branch := f.Branch
	if branch == "" {
		branch = defaultBranch
	}
	return domain.FetchRequest{
		Owner:  owner,
		Repo:   repo,
		Branch: branch,
		Path:   f.Path,
	}, nil
}

// String returns "owner/repo:path"
func (f File) String() string {
	s := f.Repo
	if f.Branch != "" {
		s += "@" + f.Branch
	}
	return s + ":" + strings.Trim(f.Path, "/")
}

// Validate validates the manifest configuration
func (c *Config) Validate() error {
	if len(c.Files) == 0 {
		return ErrNoFiles
	}
	for i, file := range c.Files {
		if strings.TrimSpace(file.Repo) == "" {
			return fmt.Errorf("file %d: %w", i, ErrEmptyRepo)
		}
		if _, _, err := file.Coordinates(); err != nil {
			return fmt.Errorf("file %d: %w", i, err)
		}
		if strings.Trim(file.Path, "/ ") == "" {
			return fmt.Errorf("file %d: %w", i, ErrEmptyPath)
		}
	}
	return nil
}
