// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package generator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DriftwoodAI/TerraDraft/services/catalog"
	"github.com/DriftwoodAI/TerraDraft/services/registry"
)

// stubClient serves canned versions, or fails every lookup when err is
// set.
type stubClient struct {
	versions map[string]string
	err      error
}

func (s *stubClient) ModuleVersion(_ context.Context, src registry.ModuleSource) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if v, ok := s.versions[src.String()]; ok {
		return v, nil
	}
	return "", registry.ErrNotFound
}

func newTestGenerator(t *testing.T, client registry.Client) *Generator {
	t.Helper()
	store, err := registry.NewStore(filepath.Join(t.TempDir(), "versions.json"))
	require.NoError(t, err)
	var cache *registry.Cache
	if client != nil {
		cache = registry.NewCache(store, client)
	}
	return New(catalog.New(), cache)
}

func fileByName(t *testing.T, res Result, name string) string {
	t.Helper()
	for _, f := range res.Files {
		if f.Name == name {
			return f.Content
		}
	}
	t.Fatalf("file %s not generated", name)
	return ""
}

func TestGenerateProducesAllFiles(t *testing.T) {
	client := &stubClient{versions: map[string]string{
		"Azure/avm-res-compute-virtualmachine/azurerm": "0.21.3",
		"Azure/avm-res-network-virtualnetwork/azurerm": "0.9.1",
	}}
	g := newTestGenerator(t, client)

	res, err := g.Generate(context.Background(), Request{
		ProjectName: "My Demo App",
		Services:    []string{"vm"},
	})
	require.NoError(t, err)
	require.Len(t, res.Files, 7)

	names := make([]string, len(res.Files))
	for i, f := range res.Files {
		names[i] = f.Name
	}
	assert.ElementsMatch(t, []string{
		"providers.tf", "variables.tf", "main.tf", "outputs.tf",
		"terraform.tfvars.example", ".gitignore", "README.md",
	}, names)

	main := fileByName(t, res, "main.tf")
	assert.Contains(t, main, `resource "azurerm_resource_group" "main"`)
	assert.Contains(t, main, `resource "random_string" "suffix"`)
	assert.Contains(t, main, `version = "~> 0.21"`)
	assert.Contains(t, main, `version = "~> 0.9"`)
	assert.Contains(t, main, "enable_telemetry = var.enable_telemetry")

	// The dependency (vnet) renders before the dependent (vm), and the
	// vm block declares the edge.
	vnetIdx := strings.Index(main, `module "virtual-network"`)
	vmIdx := strings.Index(main, `module "virtual-machine"`)
	require.GreaterOrEqual(t, vnetIdx, 0)
	require.GreaterOrEqual(t, vmIdx, 0)
	assert.Less(t, vnetIdx, vmIdx)
	assert.Contains(t, main, "depends_on = [module.virtual-network]")

	vars := fileByName(t, res, "variables.tf")
	assert.Contains(t, vars, `variable "enable_telemetry"`)
	assert.Contains(t, vars, `default     = "my-demo-app"`)

	providers := fileByName(t, res, "providers.tf")
	assert.Contains(t, providers, `required_version = ">= 1.9.0"`)
	assert.Contains(t, providers, "storage_use_azuread = true")

	outputs := fileByName(t, res, "outputs.tf")
	assert.Contains(t, outputs, `output "virtual_machine_resource_id"`)
	assert.Contains(t, outputs, "module.virtual-machine.resource_id")
}

func TestGenerateFallsBackWhenRegistryFails(t *testing.T) {
	client := &stubClient{err: &registry.TransportError{
		Source: "x", Err: context.DeadlineExceeded,
	}}
	g := newTestGenerator(t, client)

	res, err := g.Generate(context.Background(), Request{
		ProjectName: "demo",
		Services:    []string{"vm"},
	})
	require.NoError(t, err, "registry trouble must never fail generation")

	main := fileByName(t, res, "main.tf")
	// Catalog fallback versions: vm 0.20.0, vnet 0.8.0.
	assert.Contains(t, main, `version = "~> 0.20"`)
	assert.Contains(t, main, `version = "~> 0.8"`)
	assert.Equal(t, "0.20.0", res.Versions["Azure/avm-res-compute-virtualmachine/azurerm"])
}

func TestGenerateWithoutCache(t *testing.T) {
	g := newTestGenerator(t, nil)

	res, err := g.Generate(context.Background(), Request{
		ProjectName: "demo",
		Services:    []string{"storage"},
	})
	require.NoError(t, err)
	assert.Contains(t, fileByName(t, res, "main.tf"), `version = "~> 0.5"`)
}

func TestGenerateGloballyUniqueNames(t *testing.T) {
	g := newTestGenerator(t, nil)

	res, err := g.Generate(context.Background(), Request{
		ProjectName: "demo",
		Services:    []string{"storage", "keyvault", "acr"},
	})
	require.NoError(t, err)

	main := fileByName(t, res, "main.tf")
	assert.Contains(t, main, `substr("${lower(replace(var.project_name, "-", ""))}sa${local.name_suffix}", 0, 24)`)
	assert.Contains(t, main, `substr("${var.project_name}-kv-${local.name_suffix}", 0, 24)`)
	assert.Contains(t, main, `substr("${lower(replace(var.project_name, "-", ""))}cr${local.name_suffix}", 0, 50)`)
}

func TestGenerateUnknownService(t *testing.T) {
	g := newTestGenerator(t, nil)

	res, err := g.Generate(context.Background(), Request{
		ProjectName: "demo",
		Services:    []string{"vm", "quantum mainframe xyz"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"quantum mainframe xyz"}, res.NotFound)
	assert.Contains(t, res.Summary, "quantum mainframe xyz")
	assert.Contains(t, fileByName(t, res, "main.tf"), `module "virtual-machine"`)
}

func TestGenerateValidation(t *testing.T) {
	g := newTestGenerator(t, nil)

	_, err := g.Generate(context.Background(), Request{Services: []string{"vm"}})
	assert.Error(t, err)

	_, err = g.Generate(context.Background(), Request{ProjectName: "demo"})
	assert.Error(t, err)
}

func TestPessimisticConstraint(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{"0.19.2", "~> 0.19"},
		{"4.0.1", "~> 4.0"},
		{"v1.2.3", "~> 1.2"},
		{"2", "~> 2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pessimisticConstraint(tt.version))
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, `"eastus"`, formatValue("eastus"))
	assert.Equal(t, "var.project_name", formatValue("var.project_name"))
	assert.Equal(t, "data.azurerm_client_config.current.tenant_id",
		formatValue("data.azurerm_client_config.current.tenant_id"))
	assert.Equal(t, "true", formatValue(true))
	assert.Equal(t, "30", formatValue(30))
	assert.Equal(t, "null", formatValue(nil))

	list := formatValue([]any{"10.0.0.0/16"})
	assert.Contains(t, list, `"10.0.0.0/16"`)

	m := formatValue(map[string]any{"b": 2, "a": 1})
	assert.Less(t, strings.Index(m, "a = 1"), strings.Index(m, "b = 2"), "map keys must be sorted")
}

func TestNormalizeProjectName(t *testing.T) {
	assert.Equal(t, "my-demo-app", normalizeProjectName("My Demo App"))
	assert.Equal(t, "my-app", normalizeProjectName("my_app"))
}

func TestWriteFiles(t *testing.T) {
	g := newTestGenerator(t, nil)
	res, err := g.Generate(context.Background(), Request{
		ProjectName: "demo",
		Services:    []string{"vnet"},
	})
	require.NoError(t, err)

	dir := t.TempDir()
	written, err := WriteFiles(dir, res, false)
	require.NoError(t, err)
	assert.Len(t, written, len(res.Files))

	data, err := os.ReadFile(filepath.Join(dir, "main.tf"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `module "virtual-network"`)

	// Second run skips everything unless overwrite is set.
	written, err = WriteFiles(dir, res, false)
	require.NoError(t, err)
	assert.Empty(t, written)

	written, err = WriteFiles(dir, res, true)
	require.NoError(t, err)
	assert.Len(t, written, len(res.Files))
}
