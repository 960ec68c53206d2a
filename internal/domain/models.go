package domain

import (
	"strings"
	"time"
)

// Fetch strategies
const (
	StrategyAPI = "api"
	StrategyRaw = "raw"
)

// FetchRequest identifies a single file in a repository at a given ref.
// Credential is optional and only ever supplied by the caller.
type FetchRequest struct {
	Owner      string `json:"owner"`
	Repo       string `json:"repo"`
	Branch     string `json:"branch"`
	Path       string `json:"path"`
	Credential string `json:"-"`
}

// FullName returns "owner/repo"
func (r FetchRequest) FullName() string {
	return r.Owner + "/" + r.Repo
}

// String returns a human readable form, never including the credential
func (r FetchRequest) String() string {
	s := r.FullName()
	if r.Branch != "" {
		s += "@" + r.Branch
	}
	return s + ":" + strings.Trim(r.Path, "/")
}

// FetchResult is the outcome of a successful fetch
type FetchResult struct {
	Owner     string    `json:"owner"`
	Repo      string    `json:"repo"`
	Branch    string    `json:"branch"`
	Path      string    `json:"path"`
	Content   []byte    `json:"content"`
	Strategy  string    `json:"strategy"`
	URL       string    `json:"url"`
	SHA       string    `json:"sha,omitempty"`
	Size      int64     `json:"size"`
	Name      string    `json:"name,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
	FromCache bool      `json:"-"`
}

// ToMetadata returns the sidecar metadata for a result
func (r *FetchResult) ToMetadata() *FileMetadata {
	return &FileMetadata{
		Repository: r.Owner + "/" + r.Repo,
		Branch:     r.Branch,
		Path:       r.Path,
		Strategy:   r.Strategy,
		SourceURL:  r.URL,
		SHA:        r.SHA,
		Size:       int64(len(r.Content)),
		FetchedAt:  r.FetchedAt,
	}
}

// FileMetadata is written next to saved files when JSON metadata is enabled
type FileMetadata struct {
	Repository string    `json:"repository"`
	Branch     string    `json:"branch"`
	Path       string    `json:"path"`
	Strategy   string    `json:"strategy"`
	SourceURL  string    `json:"source_url"`
	SHA        string    `json:"sha,omitempty"`
	Size       int64     `json:"size"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// PDFInfo holds page count and document metadata of a PDF
type PDFInfo struct {
	Pages    int               `json:"num_pages"`
	Metadata map[string]string `json:"metadata"`
}
