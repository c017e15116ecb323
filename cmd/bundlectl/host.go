// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"bundlectl/internal/issue"
	"bundlectl/pkg/bundlefeed"
	"bundlectl/pkg/hostjson"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// setVersionFrom is the range the entry must currently hold.
	setVersionFrom string
	// setVersionTo is the replacement range.
	setVersionTo string
)

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Patch extension bundle references in host.json files",
}

var hostAddDefaultBundleCmd = &cobra.Command{
	Use:   "add-default-bundle <host.json>",
	Short: "Write the default bundle reference into a host.json",
	Long: `Write the default extension bundle into a host.json, replacing any
existing extensionBundle entry. The version range comes from the live
feed; when the feed is unreachable the built-in default range is used,
so this command always produces a usable entry. A missing file is
created.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		doc, err := loadOrNewHostJSON(path)
		if err != nil {
			return err
		}

		newResolver().AddDefaultBundle(cmd.Context(), doc)
		log.Debug("writing default bundle", "id", doc.Bundle.ID, "version", doc.Bundle.Version)

		if err := saveHostJSON(doc, path); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("✓"),
			path, "now references", ValueStyle.Render(doc.Bundle.ID), doc.Bundle.Version)
		return nil
	},
}

var hostSetVersionCmd = &cobra.Command{
	Use:   "set-version <host.json>",
	Short: "Replace the bundle version range when it matches an expected value",
	Long: `Replace the extensionBundle version range with --to only when the
current value exactly equals --from. Any other state leaves the file
untouched; a stale expectation is not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		doc, err := hostjson.Load(path)
		if err != nil {
			return issue.NewErrorContext().
				WithOperation("load host.json").
				WithResource(path).
				WithSuggestion("Check that the file exists and contains valid JSON").
				Wrap(err).
				BuildError()
		}

		before := ""
		if doc.Bundle != nil {
			before = doc.Bundle.Version
		}
		bundlefeed.OverwriteExtensionBundleVersion(doc, setVersionFrom, setVersionTo)

		if doc.Bundle == nil || doc.Bundle.Version == before {
			fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("No change:"),
				"current version does not match", setVersionFrom)
			return nil
		}

		if err := saveHostJSON(doc, path); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("✓"),
			path, "version range set to", ValueStyle.Render(setVersionTo))
		return nil
	},
}

func init() {
	hostSetVersionCmd.Flags().StringVar(&setVersionFrom, "from", "", "version range the entry must currently hold")
	hostSetVersionCmd.Flags().StringVar(&setVersionTo, "to", "", "replacement version range")
	_ = hostSetVersionCmd.MarkFlagRequired("from")
	_ = hostSetVersionCmd.MarkFlagRequired("to")

	hostCmd.AddCommand(hostAddDefaultBundleCmd)
	hostCmd.AddCommand(hostSetVersionCmd)
}

// loadOrNewHostJSON loads a host.json, returning an empty document when the
// file does not exist yet.
func loadOrNewHostJSON(path string) (*hostjson.Document, error) {
	doc, err := hostjson.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return hostjson.New(), nil
		}
		return nil, issue.NewErrorContext().
			WithOperation("load host.json").
			WithResource(path).
			WithSuggestion("Check that the file contains valid JSON").
			Wrap(err).
			BuildError()
	}
	return doc, nil
}

// saveHostJSON validates and writes the document, warning on schema issues
// without blocking the patch.
func saveHostJSON(doc *hostjson.Document, path string) error {
	if err := doc.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+err.Error())
	}
	if err := doc.Save(path); err != nil {
		return issue.NewErrorContext().
			WithOperation("write host.json").
			WithResource(path).
			WithSuggestion("Check file permissions").
			Wrap(err).
			BuildError()
	}
	return nil
}
