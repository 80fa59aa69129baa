// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Rendering helpers produce the markdown the chat assistant hands to
// the model (and the CLI prints directly). They are pure functions of
// catalog state.

// deployOrder is the category order used for recommendations, roughly
// matching deployment dependencies: platform first, workloads later.
var deployOrder = []string{
	"security", "networking", "storage", "database", "compute",
	"containers", "web", "messaging", "monitoring", "integration",
	"analytics", "ai", "management",
}

// RenderList renders every module grouped by category.
func (c *Catalog) RenderList() string {
	var b strings.Builder
	b.WriteString("# Available Azure Verified Modules\n")

	for _, cat := range c.Categories() {
		fmt.Fprintf(&b, "\n## %s\n", title(cat))
		for _, m := range c.ByCategory(cat) {
			fmt.Fprintf(&b, "- **%s**: %s (`%s`)\n", m.Key, m.Description, m.Source)
		}
	}
	return b.String()
}

// RenderSearch renders search results for a query.
func (c *Catalog) RenderSearch(query string) string {
	results := c.Search(query)
	if len(results) == 0 {
		return fmt.Sprintf("No AVM modules found matching %q.\n", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Modules matching %q\n\n", query)
	for _, m := range results {
		fmt.Fprintf(&b, "- **%s** (%s): %s\n  - Source: `%s`\n", m.Key, m.Category, m.Description, m.Source)
	}
	return b.String()
}

// RenderModuleInfo renders full detail for one module, with version
// resolved by the caller (pinned from cache, or the fallback).
func (c *Catalog) RenderModuleInfo(m Module, version string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", m.Key)
	fmt.Fprintf(&b, "%s\n\n", m.Description)
	fmt.Fprintf(&b, "- Source: `%s`\n", m.Source)
	fmt.Fprintf(&b, "- Version: `%s`\n", version)
	fmt.Fprintf(&b, "- Category: %s\n", m.Category)
	fmt.Fprintf(&b, "- Azure service: `%s`\n", m.AzureService)

	if len(m.RequiredVariables) > 0 {
		b.WriteString("\n## Required variables\n")
		for _, v := range m.RequiredVariables {
			fmt.Fprintf(&b, "- `%s` (%s): %s\n", v.Name, v.Type, v.Description)
		}
	}
	if len(m.OptionalVariables) > 0 {
		b.WriteString("\n## Optional variables\n")
		for _, v := range m.OptionalVariables {
			if v.Default != nil {
				fmt.Fprintf(&b, "- `%s` (%s): %s (default: `%v`)\n", v.Name, v.Type, v.Description, v.Default)
			} else {
				fmt.Fprintf(&b, "- `%s` (%s): %s\n", v.Name, v.Type, v.Description)
			}
		}
	}
	if len(m.Outputs) > 0 {
		b.WriteString("\n## Outputs\n")
		for _, o := range m.Outputs {
			fmt.Fprintf(&b, "- `%s`\n", o)
		}
	}
	if len(m.Dependencies) > 0 {
		b.WriteString("\n## Depends on\n")
		for _, d := range m.Dependencies {
			fmt.Fprintf(&b, "- %s\n", d)
		}
	}
	if m.ExampleConfig != "" {
		b.WriteString("\n## Example\n\n```hcl\n")
		b.WriteString(strings.TrimSpace(m.ExampleConfig))
		b.WriteString("\n```\n")
	}
	return b.String()
}

// RenderDependencies renders the transitive dependency closure of a
// module in deployment order (dependencies first).
func (c *Catalog) RenderDependencies(key string) string {
	m, ok := c.Get(key)
	if !ok {
		return fmt.Sprintf("Unknown module %q.\n", key)
	}

	closure := c.DependencyClosure(key)
	var b strings.Builder
	fmt.Fprintf(&b, "# Dependencies for %s\n\n", m.Key)
	if len(closure) <= 1 {
		b.WriteString("No module dependencies; only a resource group is required.\n")
		return b.String()
	}
	b.WriteString("Deploy in this order:\n\n")
	for i, dep := range closure {
		fmt.Fprintf(&b, "%d. **%s** (`%s`)\n", i+1, dep.Key, dep.Source)
	}
	return b.String()
}

// RenderRecommendations resolves each requested service to a module
// (including its dependencies) and renders the set in deployment order.
func (c *Catalog) RenderRecommendations(services []string) string {
	picked := make(map[string]Module)
	var notFound []string

	for _, service := range services {
		m, ok := c.ByService(service)
		if !ok {
			if results := c.Search(service); len(results) > 0 {
				m, ok = results[0], true
			}
		}
		if !ok {
			notFound = append(notFound, service)
			continue
		}
		picked[m.Key] = m
		for _, dep := range c.DependencyClosure(m.Key) {
			picked[dep.Key] = dep
		}
	}

	var b strings.Builder
	b.WriteString("# Recommended AVM Modules\n")

	byCategory := make(map[string][]Module)
	for _, m := range picked {
		byCategory[m.Category] = append(byCategory[m.Category], m)
	}
	for _, mods := range byCategory {
		sort.Slice(mods, func(i, j int) bool { return mods[i].Key < mods[j].Key })
	}

	categories := append([]string{}, deployOrder...)
	for cat := range byCategory {
		if !contains(categories, cat) {
			categories = append(categories, cat)
		}
	}

	for _, cat := range categories {
		mods, ok := byCategory[cat]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n", title(cat))
		for _, m := range mods {
			fmt.Fprintf(&b, "\n### %s\n", m.Key)
			fmt.Fprintf(&b, "- Source: `%s`\n", m.Source)
			fmt.Fprintf(&b, "- Description: %s\n", m.Description)
		}
	}

	if len(notFound) > 0 {
		b.WriteString("\n## Services Not Found\n")
		for _, s := range notFound {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}
	return b.String()
}

// DependencyClosure returns key's transitive dependencies followed by
// the module itself, dependencies first. Unknown dependency keys are
// skipped; cycles terminate via the visited set.
func (c *Catalog) DependencyClosure(key string) []Module {
	var order []Module
	visited := make(map[string]bool)

	var visit func(k string)
	visit = func(k string) {
		if visited[k] {
			return
		}
		visited[k] = true
		m, ok := c.Get(k)
		if !ok {
			return
		}
		for _, dep := range m.Dependencies {
			visit(dep)
		}
		order = append(order, m)
	}
	visit(key)
	return order
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
