package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/quantmind-br/ghfetch/internal/cache"
	"github.com/quantmind-br/ghfetch/internal/config"
	"github.com/quantmind-br/ghfetch/internal/domain"
	"github.com/quantmind-br/ghfetch/internal/fetcher"
	"github.com/quantmind-br/ghfetch/internal/github"
	"github.com/quantmind-br/ghfetch/internal/output"
	"github.com/quantmind-br/ghfetch/internal/pdf"
	"github.com/quantmind-br/ghfetch/internal/utils"
)

// Orchestrator coordinates fetching, saving and inspecting repository files
type Orchestrator struct {
	config     *config.Config
	opts       OrchestratorOptions
	client     domain.HTTPClient
	base       github.FileFetcher
	fetcher    github.FileFetcher
	cache      domain.Cache
	badger     *cache.BadgerCache
	writer     *output.Writer
	inspector  domain.PDFInspector
	logger     *utils.Logger
	credential string
	progress   io.Writer
}

// OrchestratorOptions contains options for creating an orchestrator
type OrchestratorOptions struct {
	domain.CommonOptions
	Config *config.Config
	// Token overrides github.token from the configuration
	Token        string
	NoCache      bool
	RefreshCache bool

	// Optional dependencies, created from Config when nil
	HTTPClient domain.HTTPClient
	Cache      domain.Cache
	Inspector  domain.PDFInspector
	Logger     *utils.Logger
	// Progress receives batch progress bars; nil means stderr
	Progress io.Writer
}

// GetOptions controls a single file retrieval
type GetOptions struct {
	// Target is an explicit destination file or directory
	Target string
	// Stdout receives the content instead of the filesystem when set
	Stdout     io.Writer
	InspectPDF bool
}

// GetResult describes the outcome of Get
type GetResult struct {
	Result *domain.FetchResult
	// Path is where the file was (or, on a dry run, would be) written
	Path    string
	Skipped bool
	PDF     *domain.PDFInfo
}

// NewOrchestrator creates a new orchestrator with the given configuration
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	cfg := opts.Config

	// Validate config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := opts.Logger
	if logger == nil {
		logLevel := "info"
		logFormat := "pretty"
		if cfg.Logging.Level != "" {
			logLevel = cfg.Logging.Level
		}
		if cfg.Logging.Format != "" {
			logFormat = cfg.Logging.Format
		}
		if opts.Verbose {
			logLevel = "debug"
		}
		logger = utils.NewLogger(utils.LoggerOptions{
			Level:   logLevel,
			Format:  logFormat,
			Verbose: opts.Verbose,
		})
	}

	client := opts.HTTPClient
	if client == nil {
		c, err := fetcher.NewClient(fetcher.ClientOptions{
			Timeout:   cfg.GitHub.Timeout,
			UserAgent: cfg.GitHub.UserAgent,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create http client: %w", err)
		}
		client = c
	}

	base, err := github.NewFetcher(github.FetcherOptions{
		Client:        client,
		APIBaseURL:    cfg.GitHub.APIURL,
		RawBaseURL:    cfg.GitHub.RawURL,
		DefaultBranch: cfg.GitHub.Branch,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fetcher: %w", err)
	}

	o := &Orchestrator{
		config:     cfg,
		opts:       opts,
		client:     client,
		base:       base,
		fetcher:    base,
		logger:     logger,
		credential: cfg.GitHub.Token,
		progress:   opts.Progress,
	}
	if opts.Token != "" {
		o.credential = opts.Token
	}
	if o.progress == nil {
		o.progress = os.Stderr
	}

	// Create cache if enabled
	if cfg.Cache.Enabled && !opts.NoCache {
		o.cache = opts.Cache
		if o.cache == nil {
			dir := cfg.Cache.Directory
			if dir == "" {
				dir = config.CacheDir()
			}
			bc, err := cache.NewBadgerCache(cache.Options{
				Directory: utils.ExpandPath(dir),
				Compress:  true,
			})
			if err != nil {
				o.closeClient()
				return nil, fmt.Errorf("failed to open cache: %w", err)
			}
			o.badger = bc
			o.cache = bc
		}
		o.fetcher = o.cachedFetcher(cfg.Cache.TTL)
	}

	o.writer = o.newWriter(cfg.Output.Directory, cfg.Output.Flat)

	o.inspector = opts.Inspector
	if o.inspector == nil {
		o.inspector = pdf.NewInspector()
	}

	return o, nil
}

// cachedFetcher wraps the base fetcher with the cache using ttl
func (o *Orchestrator) cachedFetcher(ttl time.Duration) github.FileFetcher {
	return github.NewCachedFetcher(o.base, o.cache, github.CacheOptions{
		TTL:           ttl,
		Refresh:       o.opts.RefreshCache,
		DefaultBranch: o.config.GitHub.Branch,
		Logger:        o.logger,
	})
}

func (o *Orchestrator) newWriter(dir string, flat bool) *output.Writer {
	return output.NewWriter(output.WriterOptions{
		BaseDir:      dir,
		Flat:         flat,
		JSONMetadata: o.config.Output.JSONMetadata,
		Force:        o.opts.Force || o.config.Output.Overwrite,
		DryRun:       o.opts.DryRun,
	})
}

// Fetch retrieves req, filling in the configured credential and branch
func (o *Orchestrator) Fetch(ctx context.Context, req domain.FetchRequest) (*domain.FetchResult, error) {
	return o.fetch(ctx, o.fetcher, req)
}

func (o *Orchestrator) fetch(ctx context.Context, f github.FileFetcher, req domain.FetchRequest) (*domain.FetchResult, error) {
	if req.Credential == "" {
		req.Credential = o.credential
	}
	if req.Branch == "" {
		req.Branch = o.config.GitHub.Branch
	}
	return f.Fetch(ctx, req)
}

// Get fetches a file and saves it to disk, or streams it to opts.Stdout.
// An existing destination is reported as skipped rather than failed.
func (o *Orchestrator) Get(ctx context.Context, req domain.FetchRequest, opts GetOptions) (*GetResult, error) {
	startTime := time.Now()
	logger := o.logger.WithRepo(req.FullName())

	result, err := o.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	out := &GetResult{Result: result}

	if opts.Stdout != nil {
		if _, err := opts.Stdout.Write(result.Content); err != nil {
			return out, fmt.Errorf("%w: stdout: %v", domain.ErrWriteFailed, err)
		}
	} else {
		path, err := o.writer.Write(ctx, result, opts.Target)
		out.Path = path
		switch {
		case errors.Is(err, output.ErrExists):
			out.Skipped = true
			logger.Info().Str("path", path).Msg("File exists, skipping (use --force to overwrite)")
		case err != nil:
			return out, err
		}
	}

	if opts.InspectPDF {
		info, err := o.inspector.Inspect(result.Content)
		if err != nil {
			return out, err
		}
		out.PDF = info
	}

	logger.Info().
		Str("path", req.Path).
		Str("strategy", result.Strategy).
		Bool("cached", result.FromCache).
		Int("bytes", len(result.Content)).
		Dur("duration", time.Since(startTime)).
		Msg("File retrieved")

	return out, nil
}

// InspectPDF fetches a PDF and returns its page count and metadata without
// saving it
func (o *Orchestrator) InspectPDF(ctx context.Context, req domain.FetchRequest) (*domain.PDFInfo, *domain.FetchResult, error) {
	result, err := o.Fetch(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	info, err := o.inspector.Inspect(result.Content)
	if err != nil {
		return nil, result, err
	}

	o.logger.Debug().
		Str("repo", req.FullName()).
		Str("path", req.Path).
		Int("pages", info.Pages).
		Msg("PDF inspected")

	return info, result, nil
}

// CacheEnabled reports whether fetches go through the cache
func (o *Orchestrator) CacheEnabled() bool {
	return o.cache != nil
}

// CacheStats returns statistics of the persistent cache, or nil when the
// cache is disabled or not Badger backed
func (o *Orchestrator) CacheStats() map[string]interface{} {
	if o.badger == nil {
		return nil
	}
	return o.badger.Stats()
}

// ClearCache removes every cached file
func (o *Orchestrator) ClearCache() error {
	if o.badger == nil {
		return fmt.Errorf("cache is disabled")
	}
	if err := o.badger.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	o.logger.Info().Str("directory", o.badger.Directory()).Msg("Cache cleared")
	return nil
}

// Close releases all resources held by the orchestrator
func (o *Orchestrator) Close() error {
	var err error
	if o.badger != nil {
		err = o.badger.Close()
	}
	if cerr := o.closeClient(); err == nil {
		err = cerr
	}
	return err
}

func (o *Orchestrator) closeClient() error {
	if c, ok := o.client.(io.Closer); ok && o.opts.HTTPClient == nil {
		return c.Close()
	}
	return nil
}
