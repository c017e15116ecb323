// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"bundlectl/internal/issue"
	"bundlectl/pkg/bundlefeed"

	"github.com/spf13/cobra"
)

var (
	// releaseV2 selects the v2 manifest schema.
	releaseV2 bool
	// releaseLocale substitutes a locale into the resources URL template.
	releaseLocale string
)

var releaseCmd = &cobra.Command{
	Use:   "release <template-version>",
	Short: "Print the release manifest for a template version",
	Long: `Print the release manifest for a template version as JSON.

By default the v1 manifest is looked up in the bundle feed. With --v2
the manifest is constructed from the fixed CDN layout of the default
bundle instead; the feed's v2 index is no longer updated.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		templateVersion := args[0]

		var manifest bundlefeed.Release
		if releaseV2 {
			manifest = localizedV2(bundlefeed.ReleaseV2For(templateVersion))
		} else {
			rel, err := newResolver().Release(cmd.Context(), requestedMetadata(), templateVersion)
			if err != nil {
				return issue.NewErrorContext().
					WithOperation("fetch release manifest").
					WithResource(templateVersion).
					WithSuggestion("Check network connectivity").
					Wrap(err).
					BuildError()
			}
			if rel == (bundlefeed.ReleaseV1{}) {
				fmt.Fprintln(cmd.ErrOrStderr(), WarningStyle.Render("Warning: ")+
					"template version "+templateVersion+" is not in the feed's v1 index")
			}
			manifest = localizedV1(rel)
		}

		data, err := json.MarshalIndent(manifest, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding manifest: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	releaseCmd.Flags().BoolVar(&releaseV2, "v2", false, "construct the v2 manifest instead of querying the feed")
	releaseCmd.Flags().StringVar(&releaseLocale, "locale", "", `substitute a locale (e.g. "en-US") into the resources URL`)
}

func localizedV1(rel bundlefeed.ReleaseV1) bundlefeed.ReleaseV1 {
	rel.ResourcesURLTemplate = substituteLocale(rel.ResourcesURLTemplate)
	return rel
}

func localizedV2(rel bundlefeed.ReleaseV2) bundlefeed.ReleaseV2 {
	rel.ResourcesURLTemplate = substituteLocale(rel.ResourcesURLTemplate)
	return rel
}

// substituteLocale fills the {locale} placeholder when --locale is set.
func substituteLocale(urlTemplate string) string {
	if releaseLocale == "" {
		return urlTemplate
	}
	return strings.ReplaceAll(urlTemplate, "{locale}", releaseLocale)
}
