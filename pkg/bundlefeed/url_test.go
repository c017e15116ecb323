// SPDX-License-Identifier: MPL-2.0

package bundlefeed

import "testing"

func TestFeedURLTruthTable(t *testing.T) {
	t.Parallel()

	const override = "https://mirror.example.com/feeds"

	tests := []struct {
		name      string
		sourceURI string
		staging   bool
		bundleID  string
		want      string
	}{
		{
			name: "all defaults use the shorthand alias",
			want: LatestFeedAliasURL,
		},
		{
			name:      "source override alone routes to the override",
			sourceURI: override,
			want:      override + "/ExtensionBundles/" + DefaultBundleID + "/index-v2.json",
		},
		{
			name:    "staging alone routes to the staging CDN",
			staging: true,
			want:    StagingCDNBaseURL + "/ExtensionBundles/" + DefaultBundleID + "/index-v2.json",
		},
		{
			name:     "custom bundle id alone routes to the production CDN",
			bundleID: "My.Custom.Bundle",
			want:     CDNBaseURL + "/ExtensionBundles/My.Custom.Bundle/index-v2.json",
		},
		{
			name:      "override plus staging prefers the override",
			sourceURI: override,
			staging:   true,
			want:      override + "/ExtensionBundles/" + DefaultBundleID + "/index-v2.json",
		},
		{
			name:      "override plus custom bundle id prefers the override",
			sourceURI: override,
			bundleID:  "My.Custom.Bundle",
			want:      override + "/ExtensionBundles/My.Custom.Bundle/index-v2.json",
		},
		{
			name:     "staging plus custom bundle id routes to the staging CDN",
			staging:  true,
			bundleID: "My.Custom.Bundle",
			want:     StagingCDNBaseURL + "/ExtensionBundles/My.Custom.Bundle/index-v2.json",
		},
		{
			name:      "all three differing conditions still prefer the override",
			sourceURI: override,
			staging:   true,
			bundleID:  "My.Custom.Bundle",
			want:      override + "/ExtensionBundles/My.Custom.Bundle/index-v2.json",
		},
		{
			name:      "trailing slash on the override is trimmed",
			sourceURI: override + "/",
			want:      override + "/ExtensionBundles/" + DefaultBundleID + "/index-v2.json",
		},
		{
			name:     "explicit default bundle id still uses the alias",
			bundleID: DefaultBundleID,
			want:     LatestFeedAliasURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := NewResolver(Options{SourceURI: tt.sourceURI, Staging: tt.staging})
			got := r.FeedURL(Metadata{ID: tt.bundleID})
			if got != tt.want {
				t.Errorf("FeedURL:\n  got  %s\n  want %s", got, tt.want)
			}
		})
	}
}

func TestReleaseV2For(t *testing.T) {
	t.Parallel()

	rel := ReleaseV2For("4.115.0")

	base := CDNBaseURL + "/ExtensionBundles/" + DefaultBundleID + "/4.115.0/StaticContent/v2"
	if rel.FunctionsURL != base+"/templates/templates.json" {
		t.Errorf("functions URL: got %s", rel.FunctionsURL)
	}
	if rel.UserPromptsURL != base+"/bindings/userPrompts.json" {
		t.Errorf("user prompts URL: got %s", rel.UserPromptsURL)
	}
	// The legacy bindings field aliases the user prompts file.
	if rel.BindingsURL != rel.UserPromptsURL {
		t.Errorf("bindings URL should alias user prompts, got %s", rel.BindingsURL)
	}
	if rel.ResourcesURLTemplate != base+"/resources/Resources.{locale}.json" {
		t.Errorf("resources URL template: got %s", rel.ResourcesURLTemplate)
	}
	if rel.Schema() != SchemaV2 {
		t.Errorf("schema tag: got %s", rel.Schema())
	}
}
