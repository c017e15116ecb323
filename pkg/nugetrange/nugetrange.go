// SPDX-License-Identifier: MPL-2.0

// Package nugetrange parses NuGet-style interval version ranges and matches
// them against semantic versions.
//
// Extension bundle feeds express version constraints in NuGet interval
// notation rather than npm-style ranges:
//
//	[1.*, 2.0.0)    >=1.0.0 and <2.0.0
//	[1.0.0, 2.0.0]  >=1.0.0 and <=2.0.0
//	(1.0.0, )       >1.0.0, no upper bound
//
// A bare version string (e.g. "1.2.0") is treated as an inclusive lower
// bound per NuGet convention. Wildcard components in a bound float to zero
// before comparison, so "[1.*, 2.0.0)" has the lower bound 1.0.0.
package nugetrange

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

type (
	// Range is a parsed interval version range.
	Range struct {
		// Lower is the lower bound, nil when unbounded.
		Lower *semver.Version
		// LowerInclusive reports whether the lower bound itself satisfies the range.
		LowerInclusive bool
		// Upper is the upper bound, nil when unbounded.
		Upper *semver.Version
		// UpperInclusive reports whether the upper bound itself satisfies the range.
		UpperInclusive bool
		// Original is the range string as supplied by the caller.
		Original string
	}
)

// Parse parses a NuGet interval range string.
func Parse(s string) (*Range, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, fmt.Errorf("empty version range")
	}

	r := &Range{Original: s}

	open := trimmed[0]
	if open != '[' && open != '(' {
		// Bare version: NuGet treats it as an inclusive minimum.
		v, err := parseBound(trimmed)
		if err != nil {
			return nil, fmt.Errorf("invalid version range %q: %w", s, err)
		}
		r.Lower = v
		r.LowerInclusive = true
		return r, nil
	}

	closeChar := trimmed[len(trimmed)-1]
	if closeChar != ']' && closeChar != ')' {
		return nil, fmt.Errorf("invalid version range %q: missing closing bracket", s)
	}

	inner := trimmed[1 : len(trimmed)-1]
	parts := strings.Split(inner, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid version range %q: expected two comma-separated bounds", s)
	}

	r.LowerInclusive = open == '['
	r.UpperInclusive = closeChar == ']'

	if lower := strings.TrimSpace(parts[0]); lower != "" {
		v, err := parseBound(lower)
		if err != nil {
			return nil, fmt.Errorf("invalid lower bound in range %q: %w", s, err)
		}
		r.Lower = v
	}

	if upper := strings.TrimSpace(parts[1]); upper != "" {
		v, err := parseBound(upper)
		if err != nil {
			return nil, fmt.Errorf("invalid upper bound in range %q: %w", s, err)
		}
		r.Upper = v
	}

	if r.Lower == nil && r.Upper == nil {
		return nil, fmt.Errorf("invalid version range %q: both bounds are empty", s)
	}

	return r, nil
}

// parseBound parses a single interval bound, floating wildcard components to zero.
func parseBound(s string) (*semver.Version, error) {
	normalized := strings.ReplaceAll(s, "*", "0")
	return semver.NewVersion(normalized)
}

// Contains reports whether v falls inside the range. Pre-release versions
// compare below their release per semver precedence, so a pre-release of the
// upper bound is still inside an exclusive upper bound.
func (r *Range) Contains(v *semver.Version) bool {
	if r.Lower != nil {
		cmp := v.Compare(r.Lower)
		if cmp < 0 || (cmp == 0 && !r.LowerInclusive) {
			return false
		}
	}
	if r.Upper != nil {
		cmp := v.Compare(r.Upper)
		if cmp > 0 || (cmp == 0 && !r.UpperInclusive) {
			return false
		}
	}
	return true
}

// String returns the original range string.
func (r *Range) String() string {
	return r.Original
}

// IsValidVersion reports whether s is a fully-specified semantic version
// (major.minor.patch with optional pre-release and build metadata).
func IsValidVersion(s string) bool {
	_, err := semver.StrictNewVersion(s)
	return err == nil
}

// TryGetMaxInRange returns the maximum version among candidates that
// satisfies the range. Candidates that are not valid semantic versions are
// skipped. The second return value is false when the range is malformed or
// no candidate satisfies it.
func TryGetMaxInRange(rangeStr string, candidates []string) (string, bool) {
	r, err := Parse(rangeStr)
	if err != nil {
		return "", false
	}

	var best *semver.Version
	var bestRaw string
	for _, raw := range candidates {
		v, err := semver.StrictNewVersion(raw)
		if err != nil {
			continue
		}
		if !r.Contains(v) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
			bestRaw = raw
		}
	}

	if best == nil {
		return "", false
	}
	return bestRaw, true
}
