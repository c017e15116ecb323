// SPDX-License-Identifier: MPL-2.0

// Package hostjson reads and patches function host configuration files.
//
// host.json files in the wild routinely carry comments and trailing commas,
// so parsing goes through a JSONC pass before standard JSON decoding. Only
// the extensionBundle entry is interpreted; every other top-level field is
// kept verbatim so a patch round-trips the rest of the file untouched
// (comments themselves are not preserved across a rewrite).
package hostjson

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/tidwall/jsonc"
)

// bundleKey is the top-level host.json field this package owns.
const bundleKey = "extensionBundle"

//go:embed schema.cue
var hostSchema string

type (
	// ExtensionBundle references the extension bundle the function host
	// should download. Version is a range, not a pinned version.
	ExtensionBundle struct {
		ID      string `json:"id"`
		Version string `json:"version"`
	}

	// Document is a parsed host.json. Bundle is nil when the file has no
	// extensionBundle entry. Mutations are the caller's responsibility to
	// synchronize; the document itself holds no locks.
	Document struct {
		// Bundle is the extensionBundle entry, mutated in place by patch
		// operations.
		Bundle *ExtensionBundle

		// rest holds all other top-level fields verbatim.
		rest map[string]json.RawMessage
	}
)

// New returns an empty document, for callers creating a host.json from scratch.
func New() *Document {
	return &Document{rest: map[string]json.RawMessage{}}
}

// Parse decodes host.json content, tolerating comments and trailing commas.
func Parse(data []byte) (*Document, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(data), &fields); err != nil {
		return nil, fmt.Errorf("parsing host.json: %w", err)
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}

	doc := &Document{rest: fields}
	if raw, ok := fields[bundleKey]; ok {
		var b ExtensionBundle
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("parsing host.json extensionBundle: %w", err)
		}
		doc.Bundle = &b
		delete(fields, bundleKey)
	}
	return doc, nil
}

// Load reads and parses the host.json file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Encode renders the document as indented JSON. Top-level keys are emitted
// in sorted order.
func (d *Document) Encode() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(d.rest)+1)
	for k, v := range d.rest {
		out[k] = v
	}
	if d.Bundle != nil {
		raw, err := json.Marshal(d.Bundle)
		if err != nil {
			return nil, fmt.Errorf("encoding extensionBundle: %w", err)
		}
		out[bundleKey] = raw
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding host.json: %w", err)
	}
	return append(data, '\n'), nil
}

// Save writes the document back to path.
func (d *Document) Save(path string) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Validate checks the document against the embedded host.json schema.
// The schema is open: unknown fields pass, but a present extensionBundle
// must carry non-empty id and version strings.
func (d *Document) Validate() error {
	data, err := d.Encode()
	if err != nil {
		return err
	}

	ctx := cuecontext.New()

	schema := ctx.CompileString(hostSchema)
	if schema.Err() != nil {
		return fmt.Errorf("internal error: failed to compile host.json schema: %w", schema.Err())
	}
	root := schema.LookupPath(cue.ParsePath("#HostJSON"))
	if root.Err() != nil {
		return fmt.Errorf("internal error: schema definition #HostJSON not found: %w", root.Err())
	}

	// JSON is a subset of CUE, so the encoded document compiles directly.
	doc := ctx.CompileBytes(data, cue.Filename("host.json"))
	if doc.Err() != nil {
		return fmt.Errorf("host.json is not valid JSON: %w", doc.Err())
	}

	if err := root.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("host.json does not match schema: %w", err)
	}
	return nil
}
