package github

import (
	"context"
	"encoding/json"
	"time"

	"github.com/quantmind-br/ghfetch/internal/cache"
	"github.com/quantmind-br/ghfetch/internal/domain"
	"github.com/quantmind-br/ghfetch/internal/utils"
)

// DefaultCacheTTL is used when CacheOptions.TTL is not positive
const DefaultCacheTTL = time.Hour

// CachedFetcher serves repeated fetches of the same file from a cache
type CachedFetcher struct {
	next          FileFetcher
	cache         domain.Cache
	ttl           time.Duration
	refresh       bool
	defaultBranch string
	logger        *utils.Logger
}

// CacheOptions configures a CachedFetcher
type CacheOptions struct {
	TTL time.Duration
	// Refresh skips cache reads but still stores fresh results
	Refresh       bool
	DefaultBranch string
	Logger        *utils.Logger
}

var _ FileFetcher = (*CachedFetcher)(nil)

// NewCachedFetcher wraps next with c. A nil cache returns next unchanged.
func NewCachedFetcher(next FileFetcher, c domain.Cache, opts CacheOptions) FileFetcher {
	if c == nil {
		return next
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultCacheTTL
	}
	if opts.DefaultBranch == "" {
		opts.DefaultBranch = DefaultBranch
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}
	return &CachedFetcher{
		next:          next,
		cache:         c,
		ttl:           opts.TTL,
		refresh:       opts.Refresh,
		defaultBranch: opts.DefaultBranch,
		logger:        opts.Logger.WithComponent("cache"),
	}
}

// Fetch returns a cached result when one exists, otherwise delegates and
// stores the successful result
func (f *CachedFetcher) Fetch(ctx context.Context, req domain.FetchRequest) (*domain.FetchResult, error) {
	branch := req.Branch
	if branch == "" {
		branch = f.defaultBranch
	}
	key := cache.FileKey(req.Owner, req.Repo, branch, req.Path, req.Credential)

	if !f.refresh {
		if entry, ok := f.load(ctx, key); ok {
			f.logger.Debug().
				Str("file", req.String()).
				Dur("ttl_remaining", entry.TTL()).
				Msg("Cache hit")
			return entry.Result(), nil
		}
	}

	result, err := f.next.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	f.store(ctx, key, result)
	return result, nil
}

func (f *CachedFetcher) load(ctx context.Context, key string) (*cache.Entry, bool) {
	data, err := f.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	var entry cache.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		f.logger.Debug().Err(err).Msg("Discarding unreadable cache entry")
		_ = f.cache.Delete(ctx, key)
		return nil, false
	}
	if entry.IsExpired() {
		return nil, false
	}
	return &entry, true
}

func (f *CachedFetcher) store(ctx context.Context, key string, result *domain.FetchResult) {
	data, err := json.Marshal(cache.NewEntry(result, f.ttl))
	if err != nil {
		f.logger.Warn().Err(err).Msg("Failed to encode cache entry")
		return
	}
	if err := f.cache.Set(ctx, key, data, f.ttl); err != nil {
		f.logger.Warn().Err(err).Msg("Failed to write cache entry")
	}
}
