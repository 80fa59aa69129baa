// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package generator renders complete Terraform projects built on Azure
// Verified Modules. Module versions are resolved through the registry
// version cache, with the catalog's pinned fallback version taking over
// whenever resolution comes up empty, so generation itself never fails
// on registry trouble.
package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DriftwoodAI/TerraDraft/pkg/logging"
	"github.com/DriftwoodAI/TerraDraft/services/catalog"
	"github.com/DriftwoodAI/TerraDraft/services/registry"
)

// Request describes the project to generate.
type Request struct {
	ProjectName       string            `json:"project_name" binding:"required" validate:"required"`
	Services          []string          `json:"services" binding:"required,min=1" validate:"required,min=1"`
	Location          string            `json:"location"`
	ResourceGroupName string            `json:"resource_group_name"`
	SubscriptionID    string            `json:"subscription_id"`
	Tags              map[string]string `json:"tags"`
}

// File is one generated project file.
type File struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// ModulePlan is one module instance scheduled for the project, with its
// version already resolved.
type ModulePlan struct {
	Instance  string
	Module    catalog.Module
	Version   string
	Variables map[string]any
	DependsOn []string
}

// Result is a generated project.
type Result struct {
	Files    []File            `json:"files"`
	Summary  string            `json:"summary"`
	Modules  []ModulePlan      `json:"-"`
	Versions map[string]string `json:"versions"`
	NotFound []string          `json:"not_found,omitempty"`
}

// Generator turns service lists into Terraform projects.
type Generator struct {
	catalog *catalog.Catalog
	cache   *registry.Cache
	log     *logging.Logger
}

// Option customizes a Generator.
type Option func(*Generator)

// WithGeneratorLogger sets the logger.
func WithGeneratorLogger(log *logging.Logger) Option {
	return func(g *Generator) { g.log = log }
}

// New builds a Generator. The cache may be nil, in which case every
// module pins its fallback version.
func New(cat *catalog.Catalog, cache *registry.Cache, opts ...Option) *Generator {
	g := &Generator{
		catalog: cat,
		cache:   cache,
		log:     logging.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

const defaultLocation = "eastus"

// Generate renders a full project for the requested services.
func (g *Generator) Generate(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.ProjectName) == "" {
		return Result{}, fmt.Errorf("project name is required")
	}
	if len(req.Services) == 0 {
		return Result{}, fmt.Errorf("at least one service is required")
	}

	project := normalizeProjectName(req.ProjectName)
	location := req.Location
	if location == "" {
		location = defaultLocation
	}
	rgName := req.ResourceGroupName
	if rgName == "" {
		rgName = "rg-" + project
	}

	modules, notFound := g.selectModules(req.Services)
	versions := g.resolveVersions(ctx, modules)

	plans := make([]ModulePlan, 0, len(modules))
	selected := make(map[string]bool, len(modules))
	for _, m := range modules {
		selected[m.Key] = true
	}
	for _, m := range modules {
		version := versions[m.Source]
		if version == "" {
			version = m.FallbackVersion
			versions[m.Source] = version
		}
		var dependsOn []string
		for _, dep := range m.Dependencies {
			if selected[dep] {
				dependsOn = append(dependsOn, instanceName(dep))
			}
		}
		plans = append(plans, ModulePlan{
			Instance:  instanceName(m.Key),
			Module:    m,
			Version:   version,
			Variables: defaultVariables(m.Key),
			DependsOn: dependsOn,
		})
	}

	cfg := projectConfig{
		Project:        project,
		Location:       location,
		ResourceGroup:  rgName,
		SubscriptionID: req.SubscriptionID,
		Tags:           req.Tags,
	}

	files := []File{
		{Name: "providers.tf", Content: renderProviders(cfg)},
		{Name: "variables.tf", Content: renderVariables(cfg)},
		{Name: "main.tf", Content: renderMain(cfg, plans)},
		{Name: "outputs.tf", Content: renderOutputs(plans)},
		{Name: "terraform.tfvars.example", Content: renderTfvarsExample(cfg)},
		{Name: ".gitignore", Content: renderGitignore()},
		{Name: "README.md", Content: renderReadme(cfg, plans)},
	}

	g.log.Info("terraform project generated",
		"project", project, "modules", len(plans), "not_found", len(notFound))

	return Result{
		Files:    files,
		Summary:  renderSummary(req.ProjectName, plans, notFound),
		Modules:  plans,
		Versions: versions,
		NotFound: notFound,
	}, nil
}

// selectModules resolves each service to a catalog module and pulls in
// transitive dependencies, dependencies first.
func (g *Generator) selectModules(services []string) ([]catalog.Module, []string) {
	var ordered []catalog.Module
	var notFound []string
	seen := make(map[string]bool)

	for _, service := range services {
		m, ok := g.catalog.ByService(service)
		if !ok {
			g.log.Warn("no catalog module for service", "service", service)
			notFound = append(notFound, service)
			continue
		}
		for _, entry := range g.catalog.DependencyClosure(m.Key) {
			if !seen[entry.Key] {
				seen[entry.Key] = true
				ordered = append(ordered, entry)
			}
		}
	}
	return ordered, notFound
}

// resolveVersions fetches the latest versions for the selected modules
// through the cache. Failures are logged and absorbed; callers fall
// back per module.
func (g *Generator) resolveVersions(ctx context.Context, modules []catalog.Module) map[string]string {
	if g.cache == nil {
		return make(map[string]string)
	}

	seen := make(map[string]bool, len(modules))
	sources := make([]string, 0, len(modules))
	for _, m := range modules {
		if !seen[m.Source] {
			seen[m.Source] = true
			sources = append(sources, m.Source)
		}
	}

	versions, err := g.cache.GetVersions(ctx, sources, registry.BatchOptions{})
	if err != nil {
		g.log.Warn("version resolution degraded, using fallback versions", "error", err.Error())
	}
	if versions == nil {
		versions = make(map[string]string)
	}
	return versions
}

func normalizeProjectName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "-")
	return strings.ReplaceAll(name, "_", "-")
}

func instanceName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// defaultVariables pre-fills sensible values for the modules that need
// more than name/location/resource group to produce a planable config.
func defaultVariables(key string) map[string]any {
	switch key {
	case "virtual_network":
		return map[string]any{
			"address_space": []any{"10.0.0.0/16"},
			"subnets": map[string]any{
				"default": map[string]any{
					"name":             "snet-default",
					"address_prefixes": []any{"10.0.1.0/24"},
				},
			},
		}
	case "virtual_machine":
		return map[string]any{
			"virtualmachine_os_type":  "Linux",
			"virtualmachine_sku_size": "Standard_D2s_v3",
		}
	case "storage_account":
		return map[string]any{
			"account_tier":             "Standard",
			"account_replication_type": "LRS",
		}
	case "key_vault":
		return map[string]any{
			"tenant_id": "data.azurerm_client_config.current.tenant_id",
			"sku_name":  "standard",
		}
	case "log_analytics_workspace":
		return map[string]any{
			"sku":               "PerGB2018",
			"retention_in_days": 30,
		}
	default:
		return map[string]any{}
	}
}

// WriteFiles writes a generated project to dir. Existing files are
// skipped unless overwrite is set; the returned slice lists the files
// actually written.
func WriteFiles(dir string, res Result, overwrite bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var written []string
	for _, f := range res.Files {
		path := filepath.Join(dir, f.Name)
		if !overwrite {
			if _, err := os.Stat(path); err == nil {
				continue
			}
		}
		if err := os.WriteFile(path, []byte(f.Content), 0640); err != nil {
			return written, fmt.Errorf("writing %s: %w", f.Name, err)
		}
		written = append(written, f.Name)
	}
	return written, nil
}
