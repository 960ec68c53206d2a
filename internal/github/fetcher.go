package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/quantmind-br/ghfetch/internal/domain"
	"github.com/quantmind-br/ghfetch/internal/utils"
)

// Default endpoints and ref
const (
	DefaultAPIBaseURL = "https://api.github.com"
	DefaultRawBaseURL = "https://raw.githubusercontent.com"
	DefaultBranch     = "main"

	// AcceptContentsJSON selects the v3 JSON representation of the contents API
	AcceptContentsJSON = "application/vnd.github.v3+json"
)

// FileFetcher retrieves a single file from a repository
type FileFetcher interface {
	Fetch(ctx context.Context, req domain.FetchRequest) (*domain.FetchResult, error)
}

// Fetcher implements the API-first, raw-fallback file retrieval
type Fetcher struct {
	client        domain.HTTPClient
	apiBaseURL    string
	rawBaseURL    string
	defaultBranch string
	logger        *utils.Logger
	now           func() time.Time
}

// FetcherOptions contains options for creating a Fetcher
type FetcherOptions struct {
	Client        domain.HTTPClient
	APIBaseURL    string
	RawBaseURL    string
	DefaultBranch string
	Logger        *utils.Logger
}

// Ensure Fetcher implements FileFetcher
var _ FileFetcher = (*Fetcher)(nil)

// NewFetcher creates a new Fetcher
func NewFetcher(opts FetcherOptions) (*Fetcher, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if opts.APIBaseURL == "" {
		opts.APIBaseURL = DefaultAPIBaseURL
	}
	if opts.RawBaseURL == "" {
		opts.RawBaseURL = DefaultRawBaseURL
	}
	if opts.DefaultBranch == "" {
		opts.DefaultBranch = DefaultBranch
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}

	return &Fetcher{
		client:        opts.Client,
		apiBaseURL:    strings.TrimRight(opts.APIBaseURL, "/"),
		rawBaseURL:    strings.TrimRight(opts.RawBaseURL, "/"),
		defaultBranch: opts.DefaultBranch,
		logger:        opts.Logger.WithComponent("github"),
		now:           time.Now,
	}, nil
}

// DefaultBranch returns the branch used when a request leaves it empty
func (f *Fetcher) DefaultBranch() string {
	return f.defaultBranch
}

// ContentsURL builds the contents API URL for an already encoded path
func (f *Fetcher) ContentsURL(owner, repo, branch, encodedPath string) string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s",
		f.apiBaseURL, owner, repo, encodedPath, url.QueryEscape(branch))
}

// RawURL builds the raw content URL for an already encoded path
func (f *Fetcher) RawURL(owner, repo, branch, encodedPath string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s",
		f.rawBaseURL, owner, repo, EncodeSegment(branch), encodedPath)
}

// Fetch retrieves the file described by req
func (f *Fetcher) Fetch(ctx context.Context, req domain.FetchRequest) (*domain.FetchResult, error) {
	if req.Owner == "" {
		return nil, domain.NewValidationError("owner", "must not be empty")
	}
	if req.Repo == "" {
		return nil, domain.NewValidationError("repo", "must not be empty")
	}

	encodedPath, err := EncodePath(req.Path)
	if err != nil {
		return nil, err
	}

	branch := req.Branch
	if branch == "" {
		branch = f.defaultBranch
	}

	logger := f.logger.WithRepo(req.FullName())

	apiURL := f.ContentsURL(req.Owner, req.Repo, branch, encodedPath)
	apiHeaders := authHeaders(req.Credential)
	apiHeaders["Accept"] = AcceptContentsJSON

	apiLog := logger.WithStrategy(domain.StrategyAPI).WithURL(apiURL)
	apiLog.Debug().
		Bool("authenticated", req.Credential != "").
		Msg("Requesting file from contents API")

	apiResp, err := f.client.Get(ctx, apiURL, apiHeaders)
	if err != nil {
		return nil, domain.NewTransportError(domain.StrategyAPI, apiURL, err)
	}

	if apiResp.StatusCode == http.StatusOK {
		file, err := decodeContents(apiURL, apiResp.Body)
		if err != nil {
			return nil, err
		}
		if file.inline {
			apiLog.Debug().
				Int("bytes", len(file.data)).
				Str("sha", file.SHA).
				Msg("Fetched file from contents API")
			return f.newResult(req, branch, domain.StrategyAPI, apiURL, file), nil
		}
		apiLog.Debug().
			Int64("size", file.Size).
			Msg("Contents API did not inline the file, falling back to raw URL")
	} else {
		apiLog.Debug().
			Int("status", apiResp.StatusCode).
			Msg("Contents API lookup failed, falling back to raw URL")
	}

	rawURL := f.RawURL(req.Owner, req.Repo, branch, encodedPath)
	rawLog := logger.WithStrategy(domain.StrategyRaw).WithURL(rawURL)
	rawResp, err := f.client.Get(ctx, rawURL, authHeaders(req.Credential))
	if err != nil {
		return nil, domain.NewTransportError(domain.StrategyRaw, rawURL, err)
	}

	if rawResp.StatusCode == http.StatusOK {
		rawLog.Debug().
			Int("bytes", len(rawResp.Body)).
			Msg("Fetched file from raw URL")
		return f.newResult(req, branch, domain.StrategyRaw, rawURL, &contentsFile{data: rawResp.Body}), nil
	}

	return nil, &domain.NotFoundError{
		APIURL:    apiURL,
		APIStatus: apiResp.StatusCode,
		RawURL:    rawURL,
		RawStatus: rawResp.StatusCode,
	}
}

func (f *Fetcher) newResult(req domain.FetchRequest, branch, strategy, sourceURL string, file *contentsFile) *domain.FetchResult {
	cleaned := CleanPath(req.Path)

	name := file.Name
	if name == "" {
		name = path.Base(cleaned)
	}
	size := file.Size
	if size == 0 {
		size = int64(len(file.data))
	}

	return &domain.FetchResult{
		Owner:     req.Owner,
		Repo:      req.Repo,
		Branch:    branch,
		Path:      cleaned,
		Content:   file.data,
		Strategy:  strategy,
		URL:       sourceURL,
		SHA:       file.SHA,
		Size:      size,
		Name:      name,
		FetchedAt: f.now(),
	}
}

// authHeaders returns a fresh header map with the optional credential
func authHeaders(credential string) map[string]string {
	headers := make(map[string]string, 2)
	if credential != "" {
		headers["Authorization"] = "token " + credential
	}
	return headers
}
