// SPDX-License-Identifier: MPL-2.0

// Package bundlefeed resolves which extension bundle a scaffolding tool
// should reference when creating serverless functions.
//
// A bundle is a versioned collection of trigger and binding templates
// published through a small set of remote JSON feeds. The Resolver fetches
// those feeds, selects the maximum bundle version satisfying a NuGet-style
// version range, looks up template release manifests, and patches host.json
// documents to reference the chosen bundle.
//
// All resolver methods are single-shot: one or two sequential fetches, no
// retries, no caching, no shared mutable state. Callers wanting timeouts or
// retries wrap the context or the HTTP client. Ambient inputs (the source
// URI override and the staging flag) arrive explicitly through Options so
// the resolver stays pure and testable.
package bundlefeed
