// SPDX-License-Identifier: MPL-2.0

package bundlefeed

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"bundlectl/internal/feed"
	"bundlectl/pkg/nugetrange"
)

// Exported defaults for the platform bundle. DefaultVersionRange is the
// fallback written into host.json when the feed cannot be reached.
const (
	DefaultBundleID     = "Microsoft.Azure.Functions.ExtensionBundle"
	DefaultVersionRange = "[1.*, 2.0.0)"
)

// Well-known feed endpoints. The alias URLs are curated shortcuts maintained
// by the feed operator; the CDN bases are where constructed feed paths live.
const (
	LatestFeedAliasURL    = "https://aka.ms/AA66i2x"
	BundleVersionsFeedURL = "https://aka.ms/azFuncBundleVersions"
	CDNBaseURL            = "https://cdn.functions.azure.com/public"
	StagingCDNBaseURL     = "https://cdn-staging.functions.azure.com/public"
)

type (
	// Options is the explicit ambient configuration for a Resolver. Callers
	// populate it from the environment (see internal/config); the resolver
	// itself never reads process-wide state.
	Options struct {
		// SourceURI overrides the feed base URL. Populated from the
		// FUNCTIONS_EXTENSIONBUNDLE_SOURCE_URI environment variable.
		SourceURI string
		// Staging routes constructed feed URLs to the staging CDN.
		Staging bool
	}

	// Resolver answers which extension bundle version a scaffolding tool
	// should use. Every method is a single-shot call: no retries, no
	// caching, no shared mutable state.
	Resolver struct {
		client *feed.Client
		opts   Options

		// Endpoint fields default to the well-known constants and exist so
		// tests can point the resolver at a local server.
		aliasURL    string
		versionsURL string
		cdnBase     string
		stagingBase string
	}

	// ResolverOption configures a Resolver during construction.
	ResolverOption func(*Resolver)

	// NoSatisfyingVersionError reports that no known bundle version
	// satisfies the requested range.
	NoSatisfyingVersionError struct {
		// Range is the version range that had no match.
		Range string
	}
)

// Error implements the error interface.
func (e *NoSatisfyingVersionError) Error() string {
	return fmt.Sprintf("no extension bundle version satisfies range %q", e.Range)
}

// WithHTTPClient sets the HTTP client used for feed fetches.
func WithHTTPClient(c *http.Client) ResolverOption {
	return func(r *Resolver) {
		r.client = feed.NewClient(feed.WithHTTPClient(c))
	}
}

// WithFeedClient sets the feed client directly.
func WithFeedClient(c *feed.Client) ResolverOption {
	return func(r *Resolver) {
		r.client = c
	}
}

// WithLatestFeedAlias overrides the shorthand feed alias URL, primarily for
// test servers.
func WithLatestFeedAlias(url string) ResolverOption {
	return func(r *Resolver) {
		r.aliasURL = url
	}
}

// WithVersionsFeed overrides the version-list feed URL, primarily for test
// servers.
func WithVersionsFeed(url string) ResolverOption {
	return func(r *Resolver) {
		r.versionsURL = url
	}
}

// WithCDNBases overrides the production and staging CDN base URLs,
// primarily for test servers.
func WithCDNBases(production, staging string) ResolverOption {
	return func(r *Resolver) {
		r.cdnBase = production
		r.stagingBase = staging
	}
}

// NewResolver creates a Resolver with the given ambient options.
func NewResolver(opts Options, ropts ...ResolverOption) *Resolver {
	r := &Resolver{
		client:      feed.NewClient(),
		opts:        opts,
		aliasURL:    LatestFeedAliasURL,
		versionsURL: BundleVersionsFeedURL,
		cdnBase:     CDNBaseURL,
		stagingBase: StagingCDNBaseURL,
	}
	for _, opt := range ropts {
		opt(r)
	}
	return r
}

// FeedURL resolves the feed URL for the given bundle metadata.
//
// The shorthand alias is used only when all three of these hold: no source
// URI override, default bundle id, and not staging. Any single differing
// condition falls through to the constructed CDN URL. This truth table
// governs which hosts see feed requests and must not be collapsed.
func (r *Resolver) FeedURL(meta Metadata) string {
	bundleID := meta.BundleID()

	if r.opts.SourceURI == "" && bundleID == DefaultBundleID && !r.opts.Staging {
		return r.aliasURL
	}

	base := r.opts.SourceURI
	if base == "" {
		base = r.cdnBase
		if r.opts.Staging {
			base = r.stagingBase
		}
	}
	return fmt.Sprintf("%s/ExtensionBundles/%s/index-v2.json", strings.TrimRight(base, "/"), bundleID)
}

// Feed fetches and parses the bundle feed for the given metadata.
// Transport and parse failures propagate unchanged.
func (r *Resolver) Feed(ctx context.Context, meta Metadata) (*FeedDocument, error) {
	var doc FeedDocument
	if err := r.client.GetJSON(ctx, r.FeedURL(meta), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LatestVersionRange returns the default version range of a freshly fetched
// feed for the default bundle.
func (r *Resolver) LatestVersionRange(ctx context.Context) (string, error) {
	doc, err := r.Feed(ctx, Metadata{})
	if err != nil {
		return "", err
	}
	if doc.DefaultVersionRange == "" {
		return "", fmt.Errorf("feed at %s has no default version range", r.FeedURL(Metadata{}))
	}
	return doc.DefaultVersionRange, nil
}

// LatestTemplateVersion returns the maximum known bundle version satisfying
// the metadata's version range, or the feed's default range when the
// metadata carries none. Returns a NoSatisfyingVersionError when no valid
// version matches.
func (r *Resolver) LatestTemplateVersion(ctx context.Context, meta Metadata) (string, error) {
	var known []string
	if err := r.client.GetJSON(ctx, r.versionsURL, &known); err != nil {
		return "", err
	}

	candidates := make([]string, 0, len(known))
	for _, v := range known {
		if nugetrange.IsValidVersion(v) {
			candidates = append(candidates, v)
		}
	}

	versionRange := meta.Version
	if versionRange == "" {
		var err error
		versionRange, err = r.LatestVersionRange(ctx)
		if err != nil {
			return "", err
		}
	}

	if best, ok := nugetrange.TryGetMaxInRange(versionRange, candidates); ok {
		return best, nil
	}
	return "", &NoSatisfyingVersionError{Range: versionRange}
}

// Release returns the v1 release manifest for templateVersion.
//
// A template version absent from the feed's v1 index yields the zero
// ReleaseV1 with no error; callers probe the manifest URLs for emptiness.
func (r *Resolver) Release(ctx context.Context, meta Metadata, templateVersion string) (ReleaseV1, error) {
	doc, err := r.Feed(ctx, meta)
	if err != nil {
		return ReleaseV1{}, err
	}
	return doc.Templates.V1[templateVersion], nil
}

// ReleaseV2For builds the v2 release manifest for templateVersion without
// consulting the feed. The feed's v2 index is no longer updated, so v2
// manifests are constructed from the fixed CDN layout of the default
// bundle instead. Do not unify this with Release.
func ReleaseV2For(templateVersion string) ReleaseV2 {
	base := fmt.Sprintf("%s/ExtensionBundles/%s/%s/StaticContent/v2", CDNBaseURL, DefaultBundleID, templateVersion)
	userPrompts := base + "/bindings/userPrompts.json"
	return ReleaseV2{
		FunctionsURL:         base + "/templates/templates.json",
		UserPromptsURL:       userPrompts,
		BindingsURL:          userPrompts,
		ResourcesURLTemplate: base + "/resources/Resources.{locale}.json",
	}
}
