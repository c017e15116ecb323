// SPDX-License-Identifier: MPL-2.0

package bundlefeed

import (
	"context"

	"bundlectl/pkg/hostjson"
)

// AddDefaultBundle writes the default bundle reference into host. The
// version range comes from the live feed when reachable; any failure along
// the way (transport, parse, missing field) silently falls back to
// DefaultVersionRange. This call never fails: the host config always ends
// up with a usable extensionBundle entry.
func (r *Resolver) AddDefaultBundle(ctx context.Context, host *hostjson.Document) {
	versionRange, err := r.LatestVersionRange(ctx)
	if err != nil {
		versionRange = DefaultVersionRange
	}
	host.Bundle = &hostjson.ExtensionBundle{
		ID:      DefaultBundleID,
		Version: versionRange,
	}
}

// OverwriteExtensionBundleVersion updates host's bundle version to updated
// only when a bundle entry is present and its version exactly equals
// expected. Any other state is a silent no-op; stale expectations are not
// an error.
func OverwriteExtensionBundleVersion(host *hostjson.Document, expected, updated string) {
	if host.Bundle == nil || host.Bundle.Version != expected {
		return
	}
	host.Bundle.Version = updated
}
