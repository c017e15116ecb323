// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for bundlectl.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"bundlectl/internal/config"
	"bundlectl/internal/issue"
	"bundlectl/pkg/bundlefeed"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// staging routes feed requests to the staging CDN
	staging bool
	// bundleID overrides the bundle identifier
	bundleID string
	// versionRange overrides the version range constraint
	versionRange string

	// cfg is the loaded configuration, populated by initRootConfig.
	cfg = config.Default()

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "bundlectl",
		Short: "Resolve extension bundles for serverless function scaffolding",
		Long: TitleStyle.Render("bundlectl") + SubtitleStyle.Render(" - extension bundle feed resolver") + `

bundlectl answers which extension bundle version a scaffolding tool
should reference. It fetches the remote bundle feeds, selects the
maximum version satisfying a NuGet-style range such as "[1.*, 2.0.0)",
looks up template release manifests, and patches host.json files.

` + SubtitleStyle.Render("Examples:") + `
  bundlectl resolve                           Latest version in the feed's default range
  bundlectl resolve --version-range "[2.*, 3.0.0)"
  bundlectl feed                              Summarize the bundle feed
  bundlectl feed url --staging                Show which host would be queried
  bundlectl release 1.0.2184                  Print a v1 release manifest
  bundlectl host add-default-bundle host.json Reference the default bundle`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/bundlectl/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&staging, "staging", false, "use the staging template feed")
	rootCmd.PersistentFlags().StringVar(&bundleID, "bundle-id", "", "extension bundle id (default is the platform bundle)")
	rootCmd.PersistentFlags().StringVar(&versionRange, "version-range", "", `version range constraint, e.g. "[1.*, 2.0.0)"`)

	// Add subcommands
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(releaseCmd)
	rootCmd.AddCommand(hostCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig reads the config file and environment variables.
func initRootConfig() {
	loaded, err := config.Load(config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		// Surface config loading problems but keep going on defaults.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	} else {
		cfg = loaded
	}

	if cfg.Verbose {
		verbose = true
	}
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

// newResolver builds a bundle resolver from the loaded configuration and
// command-line overrides.
func newResolver() *bundlefeed.Resolver {
	opts := cfg.ResolverOptions()
	if staging {
		opts.Staging = true
	}
	log.Debug("creating resolver", "source_uri", opts.SourceURI, "staging", opts.Staging)
	return bundlefeed.NewResolver(opts)
}

// requestedMetadata merges config defaults with command-line overrides.
func requestedMetadata() bundlefeed.Metadata {
	meta := cfg.Metadata()
	if bundleID != "" {
		meta.ID = bundleID
	}
	if versionRange != "" {
		meta.Version = versionRange
	}
	return meta
}

// formatErrorForDisplay renders an error for terminal output, expanding
// actionable errors into their suggestion list.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
