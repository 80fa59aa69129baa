// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"avm-res-compute-virtualmachine", "compute"},
		{"avm-res-network-virtualnetwork", "networking"},
		{"avm-res-network-publicipaddress", "networking"},
		{"avm-res-storage-storageaccount", "storage"},
		{"avm-res-keyvault-vault", "security"},
		{"avm-res-containerregistry-registry", "containers"},
		{"avm-res-some-unknown-thingy", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.name))
		})
	}
}

func TestModuleKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"avm-res-compute-virtualmachine", "virtualmachine"},
		{"avm-res-network-virtualnetwork", "virtualnetwork"},
		{"avm-res-dbforpostgresql-flexibleserver", "flexibleserver"},
		{"avm-res-desktopvirtualization-hostpool", "hostpool"},
		{"avm-res-network-ddosprotectionplan", "ddosprotectionplan"},
		{"avm-res-insights-datacollection-rule", "datacollection_rule"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ModuleKey(tt.name))
		})
	}
}

func TestAzureServiceName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"avm-res-compute-virtualmachine", "Microsoft.Compute/Virtualmachine"},
		{"avm-res-network-virtualnetwork", "Microsoft.Network/Virtualnetwork"},
		{"avm-res-keyvault-vault", "Microsoft.Keyvault/Vault"},
		{"avm-res-web-site", "Microsoft.Web/Site"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AzureServiceName(tt.name))
		})
	}
}

func TestNewerVersion(t *testing.T) {
	assert.True(t, newerVersion("0.20.0", "0.19.2"))
	assert.False(t, newerVersion("0.19.2", "0.20.0"))
	assert.False(t, newerVersion("0.20.0", "0.20.0"))
	assert.False(t, newerVersion("garbage", "0.1.0"))
	assert.True(t, newerVersion("1.0.0", "garbage"))
}

// listingServer serves a two-page module listing with a mix of AVM and
// non-AVM modules.
func listingServer(t *testing.T) *httptest.Server {
	t.Helper()

	pageTwo := 100
	pages := map[string]listPage{}

	var p0 listPage
	p0.Meta.NextOffset = &pageTwo
	p0.Modules = []struct {
		Namespace   string `json:"namespace"`
		Name        string `json:"name"`
		Provider    string `json:"provider"`
		Version     string `json:"version"`
		Description string `json:"description"`
		Downloads   int    `json:"downloads"`
	}{
		{Namespace: "Azure", Name: "avm-res-compute-virtualmachine", Provider: "azurerm", Version: "0.21.0", Description: "Virtual machines", Downloads: 500000},
		{Namespace: "Azure", Name: "terraform-azurerm-caf", Provider: "azurerm", Version: "5.0.0"},
		{Namespace: "Azure", Name: "avm-res-compute-gallery", Provider: "azapi", Version: "0.2.0"},
	}
	pages["0"] = p0

	var p1 listPage
	p1.Modules = []struct {
		Namespace   string `json:"namespace"`
		Name        string `json:"name"`
		Provider    string `json:"provider"`
		Version     string `json:"version"`
		Description string `json:"description"`
		Downloads   int    `json:"downloads"`
	}{
		{Namespace: "Azure", Name: "avm-res-network-bastionhost", Provider: "azurerm", Version: "0.6.0", Description: "Bastion hosts"},
	}
	pages["100"] = p1

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/modules/Azure", r.URL.Path)
		page, ok := pages[r.URL.Query().Get("offset")]
		if !ok {
			http.Error(w, "no such page", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(page); err != nil {
			t.Errorf("encoding page: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestListAVMModulesPaginates(t *testing.T) {
	srv := listingServer(t)
	d := NewDiscoverer(WithDiscoveryBaseURL(srv.URL))

	found, err := d.ListAVMModules(context.Background())
	require.NoError(t, err)
	require.Len(t, found, 2, "only avm-res-* azurerm modules should survive the filter")

	assert.Equal(t, "avm-res-compute-virtualmachine", found[0].Name)
	assert.Equal(t, "Azure/avm-res-compute-virtualmachine/azurerm", found[0].Source)
	assert.Equal(t, "0.21.0", found[0].Version)
	assert.Equal(t, "avm-res-network-bastionhost", found[1].Name)
}

func TestListAVMModulesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	d := NewDiscoverer(WithDiscoveryBaseURL(srv.URL))
	_, err := d.ListAVMModules(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestSyncUpdatesAndAdds(t *testing.T) {
	srv := listingServer(t)
	c := New()

	before, ok := c.Get("virtual_machine")
	require.True(t, ok)
	require.NotEqual(t, "0.21.0", before.FallbackVersion)
	total := c.Len()

	d := NewDiscoverer(WithDiscoveryBaseURL(srv.URL))
	res, err := c.Sync(context.Background(), d)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Added, "bastionhost is new")
	assert.Equal(t, 1, res.Updated, "virtual_machine version bumped")
	assert.Equal(t, total+1, c.Len())

	// Curated detail survives the version bump.
	after, ok := c.Get("virtual_machine")
	require.True(t, ok)
	assert.Equal(t, "0.21.0", after.FallbackVersion)
	assert.Equal(t, before.RequiredVariables, after.RequiredVariables)
	assert.Equal(t, before.Aliases, after.Aliases)

	added, ok := c.Get("bastionhost")
	require.True(t, ok)
	assert.Equal(t, "Azure/avm-res-network-bastionhost/azurerm", added.Source)
	assert.Equal(t, "0.6.0", added.FallbackVersion)
	assert.Equal(t, "networking", added.Category)
	assert.Equal(t, "Microsoft.Network/Bastionhost", added.AzureService)
}

func TestSyncIsIdempotent(t *testing.T) {
	srv := listingServer(t)
	c := New()
	d := NewDiscoverer(WithDiscoveryBaseURL(srv.URL))

	_, err := c.Sync(context.Background(), d)
	require.NoError(t, err)
	total := c.Len()

	res, err := c.Sync(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{}, res)
	assert.Equal(t, total, c.Len())
}

func TestSyncSkipsInvalidDerivedKeys(t *testing.T) {
	// "avm-res-db-2ndgen" derives the key "2ndgen", which is not a
	// valid Terraform identifier and must never reach the catalog.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"modules": [
			{"namespace": "Azure", "name": "avm-res-db-2ndgen", "provider": "azurerm", "version": "0.1.0"},
			{"namespace": "Azure", "name": "avm-res-network-bastionhost", "provider": "azurerm", "version": "0.6.0"}
		], "meta": {}}`)
	}))
	t.Cleanup(srv.Close)

	c := New()
	total := c.Len()

	res, err := c.Sync(context.Background(), NewDiscoverer(WithDiscoveryBaseURL(srv.URL)))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Added, "only the valid module is added")
	assert.Equal(t, total+1, c.Len())

	_, ok := c.Get("2ndgen")
	assert.False(t, ok)
	_, ok = c.Get("bastionhost")
	assert.True(t, ok)
}

func TestSyncPropagatesListingFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "{not json")
	}))
	t.Cleanup(srv.Close)

	c := New()
	total := c.Len()
	d := NewDiscoverer(WithDiscoveryBaseURL(srv.URL))

	_, err := c.Sync(context.Background(), d)
	require.Error(t, err)
	assert.Equal(t, total, c.Len(), "a failed sync must not touch the catalog")
}
