// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package catalog is the knowledge base of Azure Verified Modules.
//
// It holds two layers of data: a curated table of well-described modules
// (variables, outputs, aliases, dependencies, example config) in data.go,
// and the full published-module census in published.go. Lookup never
// touches the network; Sync (discovery.go) merges registry discoveries
// into the curated table at runtime.
package catalog

import (
	"sort"
	"strings"
	"sync"

	"github.com/DriftwoodAI/TerraDraft/pkg/logging"
)

// Variable describes one input of a module.
type Variable struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Default     any    `json:"default,omitempty"`
	Example     string `json:"example,omitempty"`
}

// Module is one catalog entry. FallbackVersion is the version the
// generator pins when the registry cannot be reached and nothing is
// cached; it must always be a real published version.
type Module struct {
	Key               string     `json:"key"`
	Source            string     `json:"source"`
	FallbackVersion   string     `json:"fallback_version"`
	Description       string     `json:"description"`
	Category          string     `json:"category"`
	AzureService      string     `json:"azure_service"`
	RequiredVariables []Variable `json:"required_variables,omitempty"`
	OptionalVariables []Variable `json:"optional_variables,omitempty"`
	Outputs           []string   `json:"outputs,omitempty"`
	Aliases           []string   `json:"aliases,omitempty"`
	Dependencies      []string   `json:"dependencies,omitempty"`
	ExampleConfig     string     `json:"example_config,omitempty"`
}

// RegistryName extracts the AVM module name from the source, e.g.
// "avm-res-compute-virtualmachine" from
// "Azure/avm-res-compute-virtualmachine/azurerm".
func (m Module) RegistryName() string {
	parts := strings.Split(m.Source, "/")
	if len(parts) >= 2 {
		return parts[1]
	}
	return m.Key
}

// Catalog is a threadsafe module table keyed by friendly name
// ("virtual_machine", "key_vault", ...). Construct with New.
type Catalog struct {
	mu      sync.RWMutex
	modules map[string]Module
	log     *logging.Logger
}

// Option customizes a Catalog.
type Option func(*Catalog)

// WithCatalogLogger sets the logger.
func WithCatalogLogger(log *logging.Logger) Option {
	return func(c *Catalog) { c.log = log }
}

// New returns a Catalog seeded with the curated module table.
func New(opts ...Option) *Catalog {
	c := &Catalog{
		modules: make(map[string]Module, len(builtinModules)),
		log:     logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, m := range builtinModules {
		c.modules[m.Key] = m
	}
	return c
}

// Get returns the module stored under exactly this key.
func (c *Catalog) Get(key string) (Module, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.modules[key]
	return m, ok
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.modules)
}

// normalizeQuery folds a service name the way users type it ("Key
// Vault", "key-vault") into key form ("key_vault").
func normalizeQuery(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	q = strings.ReplaceAll(q, " ", "_")
	q = strings.ReplaceAll(q, "-", "_")
	return q
}

// ByService resolves a human service name to a module: exact key match
// first, then exact alias match, then substring match against keys and
// aliases. Returns false when nothing plausibly matches.
func (c *Catalog) ByService(service string) (Module, bool) {
	query := normalizeQuery(service)
	if query == "" {
		return Module{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if m, ok := c.modules[query]; ok {
		return m, true
	}

	for _, m := range c.sortedLocked() {
		for _, alias := range m.Aliases {
			if normalizeQuery(alias) == query {
				return m, true
			}
		}
	}

	for _, m := range c.sortedLocked() {
		if strings.Contains(m.Key, query) || strings.Contains(query, m.Key) {
			return m, true
		}
		for _, alias := range m.Aliases {
			a := normalizeQuery(alias)
			if strings.Contains(a, query) || strings.Contains(query, a) {
				return m, true
			}
		}
	}

	return Module{}, false
}

// Search returns every module whose key, description, aliases, or
// Azure service path contains the query, case-insensitively.
func (c *Catalog) Search(query string) []Module {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var results []Module
	for _, m := range c.sortedLocked() {
		if strings.Contains(strings.ToLower(m.Key), q) ||
			strings.Contains(strings.ToLower(m.Description), q) ||
			strings.Contains(strings.ToLower(m.AzureService), q) ||
			anyAliasContains(m.Aliases, q) {
			results = append(results, m)
		}
	}
	return results
}

func anyAliasContains(aliases []string, q string) bool {
	for _, a := range aliases {
		if strings.Contains(strings.ToLower(a), q) {
			return true
		}
	}
	return false
}

// Categories returns the sorted set of categories present.
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, m := range c.modules {
		seen[m.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for cat := range seen {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// ByCategory returns all modules in a category, sorted by key.
func (c *Catalog) ByCategory(category string) []Module {
	cat := strings.ToLower(strings.TrimSpace(category))

	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Module
	for _, m := range c.sortedLocked() {
		if m.Category == cat {
			out = append(out, m)
		}
	}
	return out
}

// All returns every module, sorted by key.
func (c *Catalog) All() []Module {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sortedLocked()
}

// Sources returns the unique registry sources of all entries, sorted.
// This is the input set for a bulk version refresh.
func (c *Catalog) Sources() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, m := range c.modules {
		seen[m.Source] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// put inserts or replaces an entry. Used by Sync.
func (c *Catalog) put(m Module) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modules[m.Key] = m
}

// sortedLocked returns modules ordered by key. Callers hold c.mu.
func (c *Catalog) sortedLocked() []Module {
	out := make([]Module, 0, len(c.modules))
	for _, m := range c.modules {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
