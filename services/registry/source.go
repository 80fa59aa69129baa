// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package registry resolves Terraform module versions against the public
// registry, backed by a TTL'd file cache with stale fallback.
//
// The package has three layers:
//
//	Cache (cache.go, batch.go)  -> resolution policy: fresh/stale/refresh
//	Store (store.go)            -> persistent JSON cache file
//	Client (client.go)          -> one-shot registry HTTP calls
//
// Registry failures never escape the Cache layer; callers receive the
// cached value (possibly stale), or no value at all. The only errors a
// caller sees are broken-environment ones: an unusable cache file or an
// unparseable module source.
package registry

import (
	"fmt"
	"strings"

	"github.com/DriftwoodAI/TerraDraft/pkg/validation"
)

// ModuleSource identifies a module in the Terraform registry.
type ModuleSource struct {
	Namespace string
	Name      string
	Provider  string
}

// ParseSource splits a "namespace/name/provider" address into its parts.
// The address is validated before any network use; anything that is not
// exactly three well-formed segments is rejected.
func ParseSource(raw string) (ModuleSource, error) {
	if err := validation.ValidateSourceAddress(raw); err != nil {
		return ModuleSource{}, fmt.Errorf("parsing module source: %w", err)
	}
	parts := strings.Split(raw, "/")
	return ModuleSource{
		Namespace: parts[0],
		Name:      parts[1],
		Provider:  parts[2],
	}, nil
}

// String returns the canonical "namespace/name/provider" form.
func (s ModuleSource) String() string {
	return s.Namespace + "/" + s.Name + "/" + s.Provider
}
