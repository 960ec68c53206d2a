package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/quantmind-br/ghfetch/internal/app"
	"github.com/quantmind-br/ghfetch/internal/config"
	"github.com/quantmind-br/ghfetch/internal/domain"
	"github.com/quantmind-br/ghfetch/internal/utils"
	"github.com/quantmind-br/ghfetch/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	log     *utils.Logger

	// Dependencies for testing
	osStat     = os.Stat
	httpClient = &http.Client{Timeout: 5 * time.Second}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ghfetch",
	Short: "Fetch single files from GitHub repositories",
	Long: `ghfetch downloads individual files from GitHub repositories.

Each file is requested through the contents API first and, when the API does
not answer with the file, from the raw content host. Private repositories are
reached with a token from --token, GHFETCH_GITHUB_TOKEN, GITHUB_TOKEN or
GH_TOKEN.`,
	Version:           version.Short(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.ghfetch/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("token", "", "GitHub token (overrides environment)")
	rootCmd.PersistentFlags().Duration("timeout", config.DefaultTimeout, "Per-request timeout")

	// Cache flags
	rootCmd.PersistentFlags().Bool("no-cache", false, "Disable caching")
	rootCmd.PersistentFlags().Duration("cache-ttl", config.DefaultCacheTTL, "Cache TTL")
	rootCmd.PersistentFlags().Bool("refresh-cache", false, "Force cache refresh")

	// Output flags
	rootCmd.PersistentFlags().Bool("json-meta", false, "Write JSON metadata next to saved files")
	rootCmd.PersistentFlags().Bool("nofolders", false, "Flat output structure")
	rootCmd.PersistentFlags().Bool("force", false, "Overwrite existing files")
	rootCmd.PersistentFlags().Bool("dry-run", false, "Resolve destinations without writing files")

	// Bind flags to viper
	_ = viper.BindPFlag("github.token", rootCmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag("github.timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("cache.ttl", rootCmd.PersistentFlags().Lookup("cache-ttl"))
	_ = viper.BindPFlag("output.json_metadata", rootCmd.PersistentFlags().Lookup("json-meta"))
	_ = viper.BindPFlag("output.flat", rootCmd.PersistentFlags().Lookup("nofolders"))
	_ = viper.BindPFlag("output.overwrite", rootCmd.PersistentFlags().Lookup("force"))

	// Add subcommands
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(pdfCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// setup initialises the logger before any subcommand runs
func setup(cmd *cobra.Command, args []string) error {
	if verbose {
		log = utils.NewVerboseLogger()
	} else {
		log = utils.NewDefaultLogger()
	}
	return nil
}

// newOrchestrator loads the configuration and builds an orchestrator from
// the global flags
func newOrchestrator(cmd *cobra.Command) (*app.Orchestrator, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	noCache, _ := cmd.Flags().GetBool("no-cache")
	refresh, _ := cmd.Flags().GetBool("refresh-cache")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	force, _ := cmd.Flags().GetBool("force")

	orch, err := app.NewOrchestrator(app.OrchestratorOptions{
		CommonOptions: domain.CommonOptions{
			Verbose: verbose,
			DryRun:  dryRun,
			Force:   force,
		},
		Config:       cfg,
		NoCache:      noCache,
		RefreshCache: refresh,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}
	return orch, cfg, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			if log != nil {
				log.Info().Msg("Shutting down gracefully...")
			}
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// describeError turns fetch failures into messages for the terminal
func describeError(err error) string {
	var notFound *domain.NotFoundError
	var transport *domain.TransportError
	var protocol *domain.ProtocolError
	var validation *domain.ValidationError

	switch {
	case errors.As(err, &notFound):
		msg := fmt.Sprintf("Error: file not found\n  API: %s (HTTP %d)\n  raw: %s (HTTP %d)",
			notFound.APIURL, notFound.APIStatus, notFound.RawURL, notFound.RawStatus)
		if notFound.APIStatus == http.StatusNotFound || notFound.APIStatus == http.StatusUnauthorized {
			msg += "\n  If the repository is private, set GITHUB_TOKEN or pass --token."
		}
		return msg
	case errors.As(err, &transport):
		return fmt.Sprintf("Error: network failure contacting %s: %v", transport.URL, transport.Err)
	case errors.As(err, &protocol):
		return fmt.Sprintf("Error: unexpected response from %s: %s", protocol.URL, protocol.Reason)
	case errors.As(err, &validation):
		return fmt.Sprintf("Error: invalid %s: %s", validation.Field, validation.Message)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check connectivity and local setup",
	Long:  "Verifies that GitHub is reachable and that configuration, credentials and directories are usable.",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Checking setup...")
		allPassed := true

		cfg, cfgErr := config.Load()
		if cfg == nil {
			cfg = config.Default()
			_ = cfg.Validate()
		}

		// Check 1: GitHub API
		fmt.Fprint(out, "  GitHub API: ")
		if checkEndpoint(cfg.GitHub.APIURL) {
			fmt.Fprintf(out, "OK (%s)\n", cfg.GitHub.APIURL)
		} else {
			fmt.Fprintf(out, "FAILED (%s)\n", cfg.GitHub.APIURL)
			allPassed = false
		}

		// Check 2: raw host
		fmt.Fprint(out, "  Raw content host: ")
		if checkEndpoint(cfg.GitHub.RawURL) {
			fmt.Fprintf(out, "OK (%s)\n", cfg.GitHub.RawURL)
		} else {
			fmt.Fprintf(out, "FAILED (%s)\n", cfg.GitHub.RawURL)
			allPassed = false
		}

		// Check 3: token
		fmt.Fprint(out, "  GitHub token: ")
		if cfg.HasToken() {
			fmt.Fprintln(out, "OK")
		} else {
			fmt.Fprintln(out, "NOT SET (private repositories unavailable, lower rate limit)")
		}

		// Check 4: write permissions for output dir
		fmt.Fprint(out, "  Write permissions: ")
		if checkWritePermissions(cfg.Output.Directory) {
			fmt.Fprintln(out, "OK")
		} else {
			fmt.Fprintln(out, "FAILED")
			allPassed = false
		}

		// Check 5: config file
		fmt.Fprint(out, "  Config file: ")
		if cfgErr != nil {
			fmt.Fprintf(out, "WARN (%v)\n", cfgErr)
		} else {
			fmt.Fprintln(out, "OK")
		}

		// Check 6: cache directory
		fmt.Fprint(out, "  Cache directory: ")
		if checkCacheDir(cfg.Cache.Directory) {
			fmt.Fprintf(out, "OK (%s)\n", cfg.Cache.Directory)
		} else {
			fmt.Fprintln(out, "WARN (will be created on first use)")
		}

		fmt.Fprintln(out)
		if allPassed {
			fmt.Fprintln(out, "All critical checks passed!")
		} else {
			fmt.Fprintln(out, "Some checks failed. Please resolve the issues above.")
		}
		return nil
	},
}

// checkEndpoint reports whether baseURL answers at all; any HTTP status
// below 500 counts as reachable
func checkEndpoint(baseURL string) bool {
	if !utils.IsHTTPURL(baseURL) {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, baseURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// checkWritePermissions checks if we can write to dir
func checkWritePermissions(dir string) bool {
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, ".ghfetch_test_write")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}

// checkCacheDir checks if the cache directory exists
func checkCacheDir(path string) bool {
	info, err := osStat(filepath.Clean(path))
	if err != nil {
		return false
	}
	return info.IsDir()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Full())
	},
}
