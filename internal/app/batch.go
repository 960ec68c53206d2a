package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/quantmind-br/ghfetch/internal/domain"
	"github.com/quantmind-br/ghfetch/internal/github"
	"github.com/quantmind-br/ghfetch/internal/manifest"
	"github.com/quantmind-br/ghfetch/internal/output"
	"github.com/quantmind-br/ghfetch/internal/utils"
)

// BatchItem is the outcome of one manifest entry
type BatchItem struct {
	File     manifest.File
	Path     string
	Strategy string
	Size     int
	Cached   bool
	Skipped  bool
	PDF      *domain.PDFInfo
	Error    error
	Duration time.Duration
}

// Succeeded reports whether the entry was fetched and saved (or skipped)
func (i BatchItem) Succeeded() bool {
	return i.Error == nil
}

// BatchReport summarises a manifest run
type BatchReport struct {
	Items     []BatchItem
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
	// Cancelled counts entries never started because the run stopped early
	Cancelled int
	IndexPath string
	Duration  time.Duration
}

// Batch fetches every manifest entry in parallel. Unless continue_on_error
// is set the first failure cancels the remaining entries and is returned.
func (o *Orchestrator) Batch(ctx context.Context, m *manifest.Config) (*BatchReport, error) {
	if m == nil {
		return nil, fmt.Errorf("manifest is required")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	total := len(m.Files)
	mopts := m.Options

	outputDir := mopts.Output
	if outputDir == "" {
		outputDir = o.config.Output.Directory
	}
	outputDir = utils.ExpandPath(outputDir)

	branch := mopts.Branch
	if branch == "" {
		branch = o.config.GitHub.Branch
	}

	workers := mopts.Concurrency
	if workers <= 0 {
		workers = o.config.Concurrency.Workers
	}

	f := o.fetcher
	if o.cache != nil && mopts.CacheTTL > 0 {
		f = o.cachedFetcher(mopts.CacheTTL)
	}

	writer := o.newWriter(outputDir, mopts.Flat || o.config.Output.Flat)
	if err := writer.EnsureBaseDir(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
	}
	collector := output.NewMetadataCollector(output.CollectorOptions{
		BaseDir: outputDir,
		Enabled: o.config.Output.JSONMetadata && !o.opts.DryRun,
	})

	o.logger.Info().
		Int("files", total).
		Int("concurrency", workers).
		Bool("continue_on_error", mopts.ContinueOnError).
		Str("output", outputDir).
		Msg("Starting batch")

	report := &BatchReport{
		Items: make([]BatchItem, total),
		Total: total,
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type indexedFile struct {
		file  manifest.File
		index int
	}
	items := make([]indexedFile, total)
	for i, file := range m.Files {
		items[i] = indexedFile{file: file, index: i}
		report.Items[i].File = file
	}

	bar := utils.NewProgressBarTo(o.progress, total, utils.DescFetching)
	var barMu sync.Mutex

	var firstError error
	var firstErrorMu sync.Mutex

	errs := utils.ParallelForEach(runCtx, items, workers, func(ctx context.Context, it indexedFile) error {
		item := o.batchOne(ctx, f, writer, collector, it.file, branch, outputDir)
		report.Items[it.index] = item

		barMu.Lock()
		_ = bar.Add(1)
		barMu.Unlock()

		if item.Error != nil {
			o.logger.Error().
				Err(item.Error).
				Int("file_idx", it.index).
				Str("file", it.file.String()).
				Msg("Batch entry failed")

			firstErrorMu.Lock()
			if firstError == nil {
				firstError = fmt.Errorf("%s: %w", it.file.String(), item.Error)
			}
			firstErrorMu.Unlock()

			if !mopts.ContinueOnError {
				cancel()
			}
		}
		return item.Error
	})
	_ = bar.Finish()

	for i, err := range errs {
		item := &report.Items[i]
		switch {
		case err == nil:
			report.Succeeded++
			if item.Skipped {
				report.Skipped++
			}
		case errors.Is(err, context.Canceled):
			item.Error = err
			report.Cancelled++
		default:
			report.Failed++
		}
	}

	if collector.IsEnabled() && collector.Count() > 0 {
		if err := collector.Flush(); err != nil {
			o.logger.Warn().Err(err).Msg("Failed to write metadata index")
		} else {
			report.IndexPath = collector.Path()
		}
	}

	report.Duration = time.Since(startTime)

	o.logger.Info().
		Dur("total_duration", report.Duration).
		Int("total", report.Total).
		Int("success", report.Succeeded).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Int("cancelled", report.Cancelled).
		Msg("Batch completed")

	if ctx.Err() != nil {
		return report, ctx.Err()
	}

	if firstError != nil {
		if !mopts.ContinueOnError {
			o.logger.Warn().Msg("Stopping batch (continue_on_error=false)")
			return report, firstError
		}
		return report, fmt.Errorf("batch completed with %d/%d failures: %w",
			report.Failed, report.Total, firstError)
	}

	return report, nil
}

// batchOne fetches, saves and optionally inspects a single manifest entry
func (o *Orchestrator) batchOne(
	ctx context.Context,
	f github.FileFetcher,
	writer *output.Writer,
	collector *output.MetadataCollector,
	file manifest.File,
	branch string,
	outputDir string,
) BatchItem {
	startTime := time.Now()
	item := BatchItem{File: file}

	req, err := file.Request(branch)
	if err != nil {
		item.Error = err
		item.Duration = time.Since(startTime)
		return item
	}

	result, err := o.fetch(ctx, f, req)
	if err != nil {
		item.Error = err
		item.Duration = time.Since(startTime)
		return item
	}
	item.Strategy = result.Strategy
	item.Size = len(result.Content)
	item.Cached = result.FromCache

	target := file.Output
	if target != "" && !filepath.IsAbs(utils.ExpandPath(target)) {
		dirTarget := strings.HasSuffix(target, "/")
		target = filepath.Join(outputDir, target)
		if dirTarget {
			target += string(filepath.Separator)
		}
	}

	path, err := writer.Write(ctx, result, target)
	item.Path = path
	switch {
	case errors.Is(err, output.ErrExists):
		item.Skipped = true
	case err != nil:
		item.Error = err
		item.Duration = time.Since(startTime)
		return item
	default:
		collector.Add(result, path)
	}

	if file.InspectPDF {
		info, err := o.inspector.Inspect(result.Content)
		if err != nil {
			item.Error = err
			item.Duration = time.Since(startTime)
			return item
		}
		item.PDF = info
	}

	item.Duration = time.Since(startTime)
	return item
}
