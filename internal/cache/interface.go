package cache

import (
	"time"

	"github.com/quantmind-br/ghfetch/internal/domain"
)

// Ensure BadgerCache implements domain.Cache
var _ domain.Cache = (*BadgerCache)(nil)

// Entry is the record stored for a fetched file
type Entry struct {
	Owner     string    `json:"owner"`
	Repo      string    `json:"repo"`
	Branch    string    `json:"branch"`
	Path      string    `json:"path"`
	Strategy  string    `json:"strategy"`
	URL       string    `json:"url"`
	SHA       string    `json:"sha,omitempty"`
	Size      int64     `json:"size"`
	Name      string    `json:"name,omitempty"`
	Content   []byte    `json:"content"`
	FetchedAt time.Time `json:"fetched_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewEntry builds an entry from a fetch result
func NewEntry(result *domain.FetchResult, ttl time.Duration) *Entry {
	return &Entry{
		Owner:     result.Owner,
		Repo:      result.Repo,
		Branch:    result.Branch,
		Path:      result.Path,
		Strategy:  result.Strategy,
		URL:       result.URL,
		SHA:       result.SHA,
		Size:      result.Size,
		Name:      result.Name,
		Content:   result.Content,
		FetchedAt: result.FetchedAt,
		ExpiresAt: result.FetchedAt.Add(ttl),
	}
}

// Result converts the entry back into a fetch result marked as cached
func (e *Entry) Result() *domain.FetchResult {
	return &domain.FetchResult{
		Owner:     e.Owner,
		Repo:      e.Repo,
		Branch:    e.Branch,
		Path:      e.Path,
		Content:   e.Content,
		Strategy:  e.Strategy,
		URL:       e.URL,
		SHA:       e.SHA,
		Size:      e.Size,
		Name:      e.Name,
		FetchedAt: e.FetchedAt,
		FromCache: true,
	}
}

// IsExpired returns true if the entry has expired
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// TTL returns the remaining time-to-live
func (e *Entry) TTL() time.Duration {
	remaining := time.Until(e.ExpiresAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Options contains cache configuration options
type Options struct {
	Directory string
	InMemory  bool
	Logger    bool
	// Compress stores values zstd-compressed
	Compress bool
}

// DefaultOptions returns default cache options
func DefaultOptions() Options {
	return Options{
		Directory: "",
		InMemory:  false,
		Logger:    false,
		Compress:  true,
	}
}
