// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"bundlectl/internal/issue"
	"bundlectl/pkg/bundlefeed"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the latest template version for a version range",
	Long: `Resolve the maximum known bundle version satisfying the requested
version range. Without --version-range the feed's current default
range is used.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver := newResolver()
		meta := requestedMetadata()
		log.Debug("resolving template version", "bundle_id", meta.BundleID(), "range", meta.Version)

		version, err := resolver.LatestTemplateVersion(cmd.Context(), meta)
		if err != nil {
			var nsv *bundlefeed.NoSatisfyingVersionError
			if errors.As(err, &nsv) {
				return issue.NewErrorContext().
					WithOperation("resolve template version").
					WithSuggestion("Widen the version range, e.g. --version-range \"[1.*, 3.0.0)\"").
					WithSuggestion("Run 'bundlectl feed' to list known bundle versions").
					Wrap(err).
					BuildError()
			}
			return issue.NewErrorContext().
				WithOperation("resolve template version").
				WithSuggestion("Check network connectivity").
				Wrap(err).
				BuildError()
		}

		fmt.Fprintln(cmd.OutOrStdout(), version)
		return nil
	},
}
