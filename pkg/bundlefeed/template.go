// SPDX-License-Identifier: MPL-2.0

package bundlefeed

import "strings"

// bundleTemplateTypes are template families that always require a bundle
// download, even when the template is also an HTTP or timer trigger.
var bundleTemplateTypes = []string{"durable", "signalr"}

// IsBundleTemplate reports whether a scaffolding template requires an
// extension bundle download. HTTP and timer triggers ship with the host
// runtime and need no bundle, except that durable and signalr templates
// always do; the substring check wins over the trigger-type exclusion.
func IsBundleTemplate(tmpl Template) bool {
	id := strings.ToLower(tmpl.ID)
	for _, t := range bundleTemplateTypes {
		if strings.Contains(id, t) {
			return true
		}
	}
	return !tmpl.IsHTTPTrigger && !tmpl.IsTimerTrigger
}
