package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/quantmind-br/ghfetch/internal/app"
	"github.com/quantmind-br/ghfetch/internal/domain"
	"github.com/quantmind-br/ghfetch/internal/manifest"
	"github.com/spf13/cobra"
)

// resolver is replaced in tests
var resolver = app.NewResolver(nil, "")

var getCmd = &cobra.Command{
	Use:   "get [owner/repo] <path> | <github file URL>",
	Short: "Download a file from a GitHub repository",
	Long: `Download a single file. The file can be named as

  ghfetch get owner/repo path/to/file.pdf
  ghfetch get https://github.com/owner/repo/blob/main/path/to/file.pdf
  ghfetch get path/to/file.pdf        (inside a clone of the repository)`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runGet,
}

var pdfCmd = &cobra.Command{
	Use:   "pdf [owner/repo] <path> | <github file URL>",
	Short: "Print page count and metadata of a PDF stored on GitHub",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runPDF,
}

var batchCmd = &cobra.Command{
	Use:   "batch <manifest>",
	Short: "Download every file listed in a YAML or JSON manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatch,
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the local file cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached files",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	getCmd.Flags().StringP("branch", "b", "", "Branch, tag or commit (default from config)")
	getCmd.Flags().StringP("output", "o", "", "Destination file or directory (trailing / for a directory)")
	getCmd.Flags().Bool("stdout", false, "Write the file to stdout instead of disk")
	getCmd.Flags().Bool("pdf-info", false, "Print PDF page count and metadata after saving")

	pdfCmd.Flags().StringP("branch", "b", "", "Branch, tag or commit (default from config)")
	pdfCmd.Flags().Bool("json", false, "Print the result as JSON")

	batchCmd.Flags().StringP("output", "o", "", "Output directory (overrides the manifest)")
	batchCmd.Flags().IntP("concurrency", "j", 0, "Number of concurrent downloads (overrides the manifest)")
	batchCmd.Flags().Bool("continue-on-error", false, "Keep going after a failed entry")

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	branch, _ := cmd.Flags().GetString("branch")
	req, _, err := resolver.Resolve(args, branch)
	if err != nil {
		return err
	}

	orch, _, err := newOrchestrator(cmd)
	if err != nil {
		return err
	}
	defer orch.Close()

	ctx, cancel := signalContext()
	defer cancel()

	target, _ := cmd.Flags().GetString("output")
	toStdout, _ := cmd.Flags().GetBool("stdout")
	pdfInfo, _ := cmd.Flags().GetBool("pdf-info")

	opts := app.GetOptions{Target: target, InspectPDF: pdfInfo}
	if toStdout {
		opts.Stdout = cmd.OutOrStdout()
	}

	res, err := orch.Get(ctx, req, opts)
	if err != nil {
		return err
	}

	// With --stdout the content owns stdout; report on stderr
	out := cmd.OutOrStdout()
	if toStdout {
		out = cmd.ErrOrStderr()
	} else if res.Skipped {
		fmt.Fprintf(out, "Skipped %s (exists: %s)\n", req, res.Path)
	} else {
		fmt.Fprintf(out, "Saved %s -> %s (%s, %d bytes)\n",
			req, res.Path, res.Result.Strategy, len(res.Result.Content))
	}

	if res.PDF != nil {
		printPDFInfo(out, res.PDF)
	}
	return nil
}

func runPDF(cmd *cobra.Command, args []string) error {
	branch, _ := cmd.Flags().GetString("branch")
	req, _, err := resolver.Resolve(args, branch)
	if err != nil {
		return err
	}

	orch, _, err := newOrchestrator(cmd)
	if err != nil {
		return err
	}
	defer orch.Close()

	ctx, cancel := signalContext()
	defer cancel()

	info, result, err := orch.InspectPDF(ctx, req)
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			*domain.PDFInfo
			Source string `json:"source"`
			SHA    string `json:"sha,omitempty"`
		}{info, result.URL, result.SHA})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", req, result.URL)
	printPDFInfo(cmd.OutOrStdout(), info)
	return nil
}

func printPDFInfo(w io.Writer, info *domain.PDFInfo) {
	fmt.Fprintf(w, "Number of pages: %d\n", info.Pages)
	if len(info.Metadata) == 0 {
		return
	}
	fmt.Fprintln(w, "Metadata:")
	keys := make([]string, 0, len(info.Metadata))
	for k := range info.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, info.Metadata[k])
	}
}

func runBatch(cmd *cobra.Command, args []string) error {
	m, err := manifest.NewLoader().Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}

	if cmd.Flags().Changed("output") {
		m.Options.Output, _ = cmd.Flags().GetString("output")
	}
	if cmd.Flags().Changed("concurrency") {
		m.Options.Concurrency, _ = cmd.Flags().GetInt("concurrency")
	}
	if cmd.Flags().Changed("continue-on-error") {
		m.Options.ContinueOnError, _ = cmd.Flags().GetBool("continue-on-error")
	}

	orch, _, err := newOrchestrator(cmd)
	if err != nil {
		return err
	}
	defer orch.Close()

	ctx, cancel := signalContext()
	defer cancel()

	report, err := orch.Batch(ctx, m)
	if report != nil {
		printBatchReport(cmd.OutOrStdout(), report)
	}
	return err
}

func printBatchReport(w io.Writer, report *app.BatchReport) {
	for _, item := range report.Items {
		switch {
		case item.Error != nil:
			fmt.Fprintf(w, "  FAIL  %s: %v\n", item.File, item.Error)
		case item.Skipped:
			fmt.Fprintf(w, "  SKIP  %s -> %s\n", item.File, item.Path)
		default:
			fmt.Fprintf(w, "  OK    %s -> %s\n", item.File, item.Path)
		}
		if item.PDF != nil {
			fmt.Fprintf(w, "        %d pages\n", item.PDF.Pages)
		}
	}
	fmt.Fprintf(w, "%d files: %d ok, %d skipped, %d failed, %d cancelled (%s)\n",
		report.Total, report.Succeeded-report.Skipped, report.Skipped,
		report.Failed, report.Cancelled, report.Duration.Round(time.Millisecond))
	if report.IndexPath != "" {
		fmt.Fprintf(w, "Index written to %s\n", report.IndexPath)
	}
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	orch, cfg, err := newOrchestrator(cmd)
	if err != nil {
		return err
	}
	defer orch.Close()

	stats := orch.CacheStats()
	if !orch.CacheEnabled() || stats == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Cache is disabled")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "TTL: %s\n", cfg.Cache.TTL)
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", strings.ReplaceAll(k, "_", " "), stats[k])
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	orch, _, err := newOrchestrator(cmd)
	if err != nil {
		return err
	}
	defer orch.Close()

	if err := orch.ClearCache(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
	return nil
}
