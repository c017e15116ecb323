// SPDX-License-Identifier: MPL-2.0

// Package config loads bundlectl configuration from the config file and the
// environment, and converts the ambient inputs (feed source override,
// staging mode) into the explicit options the bundle resolver takes.
package config
