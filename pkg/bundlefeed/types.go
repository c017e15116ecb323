// SPDX-License-Identifier: MPL-2.0

package bundlefeed

type (
	// Metadata identifies which bundle and version constraint to resolve.
	// The zero value selects the platform default bundle with the feed's
	// current default version range.
	Metadata struct {
		// ID is the bundle identifier, e.g. "Microsoft.Azure.Functions.ExtensionBundle".
		ID string `json:"id,omitempty"`
		// Version is a version range constraint, not a pinned version.
		Version string `json:"version,omitempty"`
	}

	// FeedDocument is the parsed bundle feed.
	FeedDocument struct {
		// DefaultVersionRange is the range the feed operator currently
		// recommends for new projects.
		DefaultVersionRange string `json:"defaultVersionRange"`
		// BundleVersions maps bundle version strings to their template
		// resource references.
		BundleVersions map[string]BundleVersionEntry `json:"bundleVersions"`
		// Templates indexes release manifests by feed schema tag and
		// template version.
		Templates TemplateIndex `json:"templates"`
	}

	// BundleVersionEntry names the template release a bundle version ships.
	BundleVersionEntry struct {
		Templates string `json:"templates"`
	}

	// TemplateIndex holds the per-schema release manifest maps.
	TemplateIndex struct {
		V1 map[string]ReleaseV1 `json:"v1"`
		V2 map[string]ReleaseV2 `json:"v2"`
	}

	// SchemaVersion tags a release manifest with its feed schema generation.
	SchemaVersion string

	// Release is a template release manifest of either schema generation.
	// Callers type-switch on the concrete type after checking Schema.
	Release interface {
		Schema() SchemaVersion
	}

	// ReleaseV1 locates one template version's data under the v1 feed schema.
	ReleaseV1 struct {
		// FunctionsURL points at the functions-list JSON.
		FunctionsURL string `json:"functions"`
		// BindingsURL points at the bindings JSON.
		BindingsURL string `json:"bindings"`
		// ResourcesURLTemplate is a locale-templated resources URL
		// containing a "{locale}" placeholder.
		ResourcesURLTemplate string `json:"resources"`
	}

	// ReleaseV2 locates one template version's data under the v2 feed schema.
	ReleaseV2 struct {
		FunctionsURL string `json:"functions"`
		// UserPromptsURL points at the user prompts JSON, the v2 successor
		// of the v1 bindings file.
		UserPromptsURL string `json:"userPrompts"`
		// BindingsURL is the legacy alias of UserPromptsURL, kept for host
		// runtime generations that still expect the old field name.
		BindingsURL string `json:"bindings,omitempty"`
		// ResourcesURLTemplate is a locale-templated resources URL
		// containing a "{locale}" placeholder.
		ResourcesURLTemplate string `json:"resources"`
	}

	// Template is the subset of a scaffolding template bundlectl needs to
	// decide whether the template requires an extension bundle download.
	Template struct {
		ID             string
		IsHTTPTrigger  bool
		IsTimerTrigger bool
	}
)

// Feed schema generations.
const (
	SchemaV1 SchemaVersion = "v1"
	SchemaV2 SchemaVersion = "v2"
)

// Schema implements Release.
func (ReleaseV1) Schema() SchemaVersion { return SchemaV1 }

// Schema implements Release.
func (ReleaseV2) Schema() SchemaVersion { return SchemaV2 }

// BundleID returns the bundle identifier, falling back to the platform default.
func (m Metadata) BundleID() string {
	if m.ID != "" {
		return m.ID
	}
	return DefaultBundleID
}
