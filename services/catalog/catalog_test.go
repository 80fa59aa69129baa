// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetKnownModule(t *testing.T) {
	c := New()

	m, ok := c.Get("virtual_machine")
	require.True(t, ok)
	assert.Equal(t, "Azure/avm-res-compute-virtualmachine/azurerm", m.Source)
	assert.Equal(t, "avm-res-compute-virtualmachine", m.RegistryName())
	assert.NotEmpty(t, m.FallbackVersion)

	_, ok = c.Get("no_such_module")
	assert.False(t, ok)
}

func TestByServiceExactAlias(t *testing.T) {
	c := New()

	tests := []struct {
		query string
		want  string
	}{
		{"vm", "virtual_machine"},
		{"aks", "kubernetes_cluster"},
		{"keyvault", "key_vault"},
		{"Key Vault", "key_vault"},
		{"acr", "container_registry"},
		{"law", "log_analytics_workspace"},
		{"postgres", "postgresql_flexible"},
		{"virtual-machine", "virtual_machine"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			m, ok := c.ByService(tt.query)
			require.True(t, ok, "expected a match for %q", tt.query)
			assert.Equal(t, tt.want, m.Key)
		})
	}
}

func TestByServicePartialMatch(t *testing.T) {
	c := New()

	m, ok := c.ByService("storage")
	require.True(t, ok)
	assert.Equal(t, "storage_account", m.Key)

	_, ok = c.ByService("mainframe emulator")
	assert.False(t, ok)

	_, ok = c.ByService("")
	assert.False(t, ok)
}

func TestSearch(t *testing.T) {
	c := New()

	results := c.Search("kubernetes")
	require.NotEmpty(t, results)
	assert.Equal(t, "kubernetes_cluster", results[0].Key)

	// Matches description text too.
	results = c.Search("secrets")
	require.NotEmpty(t, results)
	found := false
	for _, m := range results {
		if m.Key == "key_vault" {
			found = true
		}
	}
	assert.True(t, found, "key_vault should match a description search for secrets")

	assert.Empty(t, c.Search("zzzznothing"))
	assert.Empty(t, c.Search(""))
}

func TestCategories(t *testing.T) {
	c := New()

	cats := c.Categories()
	require.NotEmpty(t, cats)
	assert.Contains(t, cats, "compute")
	assert.Contains(t, cats, "networking")

	// Sorted.
	for i := 1; i < len(cats); i++ {
		assert.True(t, cats[i-1] < cats[i], "categories must be sorted")
	}
}

func TestByCategory(t *testing.T) {
	c := New()

	networking := c.ByCategory("networking")
	require.NotEmpty(t, networking)
	for _, m := range networking {
		assert.Equal(t, "networking", m.Category)
	}

	assert.Empty(t, c.ByCategory("does-not-exist"))
}

func TestSourcesUniqueAndSorted(t *testing.T) {
	c := New()

	sources := c.Sources()
	require.NotEmpty(t, sources)

	seen := make(map[string]bool)
	for i, s := range sources {
		assert.False(t, seen[s], "duplicate source %s", s)
		seen[s] = true
		assert.True(t, strings.Count(s, "/") == 2, "source %s must be namespace/name/provider", s)
		if i > 0 {
			assert.True(t, sources[i-1] < s)
		}
	}

	// web_app and function_app share avm-res-web-site; Sources must
	// collapse them.
	assert.Less(t, len(sources), c.Len())
}

func TestPublishedCensus(t *testing.T) {
	published := Published()
	assert.GreaterOrEqual(t, len(published), 100, "census should carry the full AVM index")

	byCat := PublishedByCategory()
	assert.NotEmpty(t, byCat["networking"])
	assert.NotEmpty(t, byCat["compute"])

	idx := publishedIndex()
	vm, ok := idx["avm-res-compute-virtualmachine"]
	require.True(t, ok)
	assert.Equal(t, "Virtual Machine", vm.Display)
	assert.Equal(t, "compute", vm.Category)
}
