// SPDX-License-Identifier: MPL-2.0

package bundlefeed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestResolver wires a resolver against a local server that serves the
// version-list feed at /versions and the bundle feed everywhere else.
func newTestResolver(t *testing.T, versions any, feedDoc any, opts Options) *Resolver {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/versions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, versions)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, feedDoc)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return NewResolver(opts,
		WithLatestFeedAlias(srv.URL+"/feed.json"),
		WithVersionsFeed(srv.URL+"/versions"),
		WithCDNBases(srv.URL+"/cdn", srv.URL+"/cdn-staging"),
	)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encoding response: %v", err)
	}
}

func testFeed() *FeedDocument {
	return &FeedDocument{
		DefaultVersionRange: "[1.*, 2.0.0)",
		BundleVersions: map[string]BundleVersionEntry{
			"1.8.1": {Templates: "1.0.2184"},
			"2.1.0": {Templates: "1.0.2190"},
		},
		Templates: TemplateIndex{
			V1: map[string]ReleaseV1{
				"1.0.2184": {
					FunctionsURL:         "https://example.com/v1/functions.json",
					BindingsURL:          "https://example.com/v1/bindings.json",
					ResourcesURLTemplate: "https://example.com/v1/Resources.{locale}.json",
				},
			},
			V2: map[string]ReleaseV2{},
		},
	}
}

func TestLatestVersionRange(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, []string{}, testFeed(), Options{})
	got, err := r.LatestVersionRange(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "[1.*, 2.0.0)" {
		t.Errorf("got %q", got)
	}
}

func TestLatestVersionRangeMissingField(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, []string{}, map[string]any{}, Options{})
	_, err := r.LatestVersionRange(context.Background())
	if err == nil {
		t.Fatal("expected error when the feed has no default version range")
	}
}

func TestLatestTemplateVersionDefaultRange(t *testing.T) {
	t.Parallel()

	versions := []string{"1.0.0", "1.8.1", "2.1.0", "abc", "1.9"}
	r := newTestResolver(t, versions, testFeed(), Options{})

	got, err := r.LatestTemplateVersion(context.Background(), Metadata{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Maximum valid semver inside the feed's default range [1.*, 2.0.0):
	// 2.1.0 is above it, "abc" and "1.9" are not valid versions.
	if got != "1.8.1" {
		t.Errorf("got %q, want %q", got, "1.8.1")
	}
}

func TestLatestTemplateVersionMetadataRangeOverride(t *testing.T) {
	t.Parallel()

	versions := []string{"1.8.1", "2.1.0", "2.4.0"}
	r := newTestResolver(t, versions, testFeed(), Options{})

	got, err := r.LatestTemplateVersion(context.Background(), Metadata{Version: "[2.*, 3.0.0)"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2.4.0" {
		t.Errorf("got %q, want %q", got, "2.4.0")
	}
}

func TestLatestTemplateVersionNoSatisfyingVersion(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, []string{"1.0.0", "1.8.1"}, testFeed(), Options{})

	_, err := r.LatestTemplateVersion(context.Background(), Metadata{Version: "[9.*, 10.0.0)"})
	var nsv *NoSatisfyingVersionError
	if !errors.As(err, &nsv) {
		t.Fatalf("expected NoSatisfyingVersionError, got %v", err)
	}
	if nsv.Range != "[9.*, 10.0.0)" {
		t.Errorf("error range: got %q", nsv.Range)
	}
	if !strings.Contains(err.Error(), "[9.*, 10.0.0)") {
		t.Errorf("error message should carry the range: %v", err)
	}
}

func TestLatestTemplateVersionPropagatesFetchErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	r := NewResolver(Options{}, WithVersionsFeed(srv.URL+"/versions"))
	_, err := r.LatestTemplateVersion(context.Background(), Metadata{})
	if err == nil {
		t.Fatal("expected fetch error to propagate")
	}
	var nsv *NoSatisfyingVersionError
	if errors.As(err, &nsv) {
		t.Errorf("transport failure must not be reported as a range mismatch: %v", err)
	}
}

func TestFeedUsesConstructedURLForCustomBundle(t *testing.T) {
	t.Parallel()

	var requested string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		writeJSON(t, w, testFeed())
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	r := NewResolver(Options{SourceURI: srv.URL})
	if _, err := r.Feed(context.Background(), Metadata{ID: "My.Custom.Bundle"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requested != "/ExtensionBundles/My.Custom.Bundle/index-v2.json" {
		t.Errorf("requested path: got %s", requested)
	}
}

func TestRelease(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, []string{}, testFeed(), Options{})

	rel, err := r.Release(context.Background(), Metadata{}, "1.0.2184")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rel.FunctionsURL != "https://example.com/v1/functions.json" {
		t.Errorf("functions URL: got %s", rel.FunctionsURL)
	}
	if rel.Schema() != SchemaV1 {
		t.Errorf("schema tag: got %s", rel.Schema())
	}
}

func TestReleaseMissingTemplateVersionYieldsZeroManifest(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, []string{}, testFeed(), Options{})

	rel, err := r.Release(context.Background(), Metadata{}, "9.9.9999")
	if err != nil {
		t.Fatalf("missing template version must not error: %v", err)
	}
	if rel != (ReleaseV1{}) {
		t.Errorf("expected zero manifest, got %+v", rel)
	}
}

func TestReleasePropagatesFeedErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	t.Cleanup(srv.Close)

	r := NewResolver(Options{}, WithLatestFeedAlias(srv.URL+"/feed.json"))
	_, err := r.Release(context.Background(), Metadata{}, "1.0.2184")
	if err == nil {
		t.Fatal("expected parse error to propagate")
	}
}
