// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"sort"

	"bundlectl/internal/issue"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Fetch and summarize the bundle feed",
	Long: `Fetch the bundle feed for the selected bundle and print its default
version range, the known bundle versions, and the template versions
available per feed schema.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver := newResolver()
		meta := requestedMetadata()

		url := resolver.FeedURL(meta)
		log.Debug("fetching bundle feed", "url", url)

		doc, err := resolver.Feed(cmd.Context(), meta)
		if err != nil {
			return issue.NewErrorContext().
				WithOperation("fetch bundle feed").
				WithResource(url).
				WithSuggestion("Check network connectivity").
				WithSuggestion("Verify FUNCTIONS_EXTENSIONBUNDLE_SOURCE_URI if a feed mirror is configured").
				Wrap(err).
				BuildError()
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, TitleStyle.Render("Bundle feed"), SubtitleStyle.Render(url))
		fmt.Fprintln(out, "Default version range:", ValueStyle.Render(doc.DefaultVersionRange))

		if len(doc.BundleVersions) > 0 {
			fmt.Fprintln(out, "Bundle versions:")
			for _, v := range sortedKeys(doc.BundleVersions) {
				fmt.Fprintf(out, "  %s (templates %s)\n", v, doc.BundleVersions[v].Templates)
			}
		}

		if len(doc.Templates.V1) > 0 {
			fmt.Fprintln(out, "Template versions (v1):")
			for _, v := range sortedKeys(doc.Templates.V1) {
				fmt.Fprintf(out, "  %s\n", v)
			}
		}
		if len(doc.Templates.V2) > 0 {
			fmt.Fprintln(out, "Template versions (v2):")
			for _, v := range sortedKeys(doc.Templates.V2) {
				fmt.Fprintf(out, "  %s\n", v)
			}
		}
		return nil
	},
}

var feedURLCmd = &cobra.Command{
	Use:   "url",
	Short: "Print the resolved feed URL without fetching it",
	Long: `Print the feed URL the current configuration and flags would query.
The shorthand alias is used only for the default bundle on the
production feed with no source override; any other combination routes
to a constructed CDN URL.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), newResolver().FeedURL(requestedMetadata()))
		return nil
	},
}

func init() {
	feedCmd.AddCommand(feedURLCmd)
}

// sortedKeys returns the map's keys in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
