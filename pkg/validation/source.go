// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for security-critical operations.
//
// This package contains validators for user-provided inputs that end up in
// registry URLs, file paths, or generated Terraform identifiers. Using these
// validators prevents injection attacks (URL path injection, path traversal)
// before any network or filesystem access happens.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// segmentPattern matches one segment of a registry module address
// (namespace, name, or provider). Lowercase letters, digits, and
// hyphens, 1-64 characters, no leading or trailing hyphen.
var segmentPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,62}[a-z0-9])?$`)

// identifierPattern matches a valid Terraform identifier for generated
// module labels and variable names.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_-]{0,127}$`)

// ValidateSourceAddress validates a registry module source of the form
// "namespace/name/provider" before it is interpolated into a registry
// URL path.
//
// Valid addresses:
//   - Exactly three non-empty segments separated by "/"
//   - Each segment 1-64 lowercase alphanumeric characters or hyphens
//   - No leading/trailing hyphen in any segment
//
// Namespaces published with mixed case (e.g. "Azure") are accepted by
// lowercasing before the pattern check; the registry is case-insensitive
// on namespace.
//
// Returns an error describing the first violation found.
//
// Example:
//
//	if err := validation.ValidateSourceAddress(src); err != nil {
//	    return nil, fmt.Errorf("invalid module source: %w", err)
//	}
//	// Safe to build the registry URL
func ValidateSourceAddress(source string) error {
	if source == "" {
		return fmt.Errorf("module source cannot be empty")
	}

	parts := strings.Split(source, "/")
	if len(parts) != 3 {
		return fmt.Errorf("invalid module source %q: expected namespace/name/provider", source)
	}

	labels := [3]string{"namespace", "name", "provider"}
	for i, part := range parts {
		if part == "" {
			return fmt.Errorf("invalid module source %q: empty %s segment", source, labels[i])
		}
		if !segmentPattern.MatchString(strings.ToLower(part)) {
			return fmt.Errorf("invalid %s %q in module source (must be 1-64 alphanumeric chars or hyphens)", labels[i], part)
		}
	}
	return nil
}

// ValidateSourceAddresses validates multiple module sources.
// Returns an error listing all invalid sources if any fail validation.
func ValidateSourceAddresses(sources []string) error {
	var invalid []string
	for _, s := range sources {
		if err := ValidateSourceAddress(s); err != nil {
			invalid = append(invalid, s)
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("invalid module sources: %s", strings.Join(invalid, ", "))
	}
	return nil
}

// ValidateIdentifier validates a Terraform identifier used for generated
// module labels, variable names, and output names.
//
// Valid identifiers start with a letter or underscore and contain only
// letters, digits, underscores, and hyphens (max 128 characters).
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("identifier cannot be empty")
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid identifier %q (must start with a letter or underscore, max 128 chars)", name)
	}
	return nil
}
