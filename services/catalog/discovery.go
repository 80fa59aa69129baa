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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/DriftwoodAI/TerraDraft/pkg/logging"
	"github.com/DriftwoodAI/TerraDraft/pkg/validation"
	"github.com/DriftwoodAI/TerraDraft/services/registry"
	"golang.org/x/mod/semver"
)

const (
	discoveryPageSize = 100

	// discoveryMaxPages caps pagination in case the registry keeps
	// handing out next offsets.
	discoveryMaxPages = 20
)

// categoryKeywords maps resource-type keywords to categories. Order is
// not significant; first containing match wins within a category scan.
var categoryKeywords = map[string][]string{
	"compute": {
		"virtualmachine", "virtualmachinescaleset", "disk", "gallery", "hostgroup",
		"proximityplacementgroup", "sshpublickey", "capacityreservationgroup",
		"diskencryptionset",
	},
	"containers": {
		"containerapp", "managedenvironment", "containergroup", "registry",
		"managedcluster", "job",
	},
	"networking": {
		"virtualnetwork", "subnet", "networkinterface", "networksecuritygroup",
		"publicipaddress", "publicipprefix", "loadbalancer", "applicationgateway",
		"azurefirewall", "firewallpolicy", "bastionhost", "dnszone", "privatednszone",
		"privateendpoint", "routetable", "natgateway", "ddosprotectionplan",
		"expressroutecircuit", "connection", "localnetworkgateway", "dnsresolver",
		"networkwatcher", "ipgroup", "networkmanager", "applicationsecuritygroup",
		"webapplicationfirewallpolicy", "frontdoorwebapplicationfirewallpolicy",
	},
	"storage":  {"storageaccount", "netappaccount"},
	"database": {"databaseaccount", "mongocluster", "flexibleserver", "server", "managedinstance", "cluster"},
	"security": {"vault", "userassignedidentity", "roleassignment", "certificateorder"},
	"messaging": {
		"namespace", "topic", "domain", "eventhub", "servicebus", "relay",
	},
	"monitoring": {"workspace", "component", "datacollectionendpoint", "autoscalesetting", "query"},
	"ai":         {"cognitiveservices", "machinelearningservices", "searchservice"},
	"web":        {"site", "serverfarm", "hostingenvironment", "staticsite", "workflow"},
	"management": {
		"resourcegroup", "servicegroup", "automationaccount", "maintenanceconfiguration",
		"backupvault", "resourceguard", "dashboard",
	},
	"integration": {"datafactory", "apimanagement", "appconfiguration"},
	"analytics":   {"databricks", "kusto", "operationalinsights"},
	"avd":         {"hostpool", "applicationgroup", "scalingplan", "desktopvirtualization"},
	"hybrid": {
		"azurestackhci", "privatecloud", "openshiftcluster", "oracledatabase",
		"hybridcontainerservice", "arcsite",
	},
}

var avmPrefix = regexp.MustCompile(`^avm-res-`)

// Categorize buckets a module name ("avm-res-compute-virtualmachine")
// into a catalog category, falling back to "other".
func Categorize(name string) string {
	lower := strings.ToLower(name)

	resourceType := lower
	if parts := strings.Split(lower, "-"); len(parts) >= 4 {
		resourceType = strings.Join(parts[3:], "-")
	}

	for category, keywords := range categoryKeywords {
		for _, kw := range keywords {
			if strings.Contains(resourceType, kw) || strings.Contains(lower, kw) {
				return category
			}
		}
	}
	return "other"
}

// ModuleKey derives a friendly key from a registry name:
// "avm-res-compute-virtualmachine" -> "virtualmachine".
func ModuleKey(name string) string {
	key := avmPrefix.ReplaceAllString(strings.ToLower(name), "")
	parts := strings.Split(key, "-")
	if len(parts) > 1 {
		key = strings.Join(parts[1:], "_")
	}
	return strings.ReplaceAll(key, "-", "_")
}

// AzureServiceName derives the ARM service path:
// "avm-res-compute-virtualmachine" -> "Microsoft.Compute/Virtualmachine".
func AzureServiceName(name string) string {
	stripped := avmPrefix.ReplaceAllString(strings.ToLower(name), "")
	parts := strings.Split(stripped, "-")
	if len(parts) >= 2 {
		var resource strings.Builder
		for _, p := range parts[1:] {
			resource.WriteString(title(p))
		}
		return fmt.Sprintf("Microsoft.%s/%s", title(parts[0]), resource.String())
	}
	return "Microsoft.Resources/" + name
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Discovered is one module found in the registry listing.
type Discovered struct {
	Name        string
	Source      string
	Version     string
	Description string
	Downloads   int
}

// Discoverer pages through the registry's Azure namespace listing and
// filters it down to AVM resource modules for the azurerm provider.
type Discoverer struct {
	baseURL   string
	namespace string
	provider  string
	http      registry.HTTPClient
	log       *logging.Logger
}

// DiscovererOption customizes a Discoverer.
type DiscovererOption func(*Discoverer)

// WithDiscoveryBaseURL overrides the registry endpoint.
func WithDiscoveryBaseURL(url string) DiscovererOption {
	return func(d *Discoverer) { d.baseURL = url }
}

// WithDiscoveryHTTPClient injects the HTTP transport.
func WithDiscoveryHTTPClient(hc registry.HTTPClient) DiscovererOption {
	return func(d *Discoverer) { d.http = hc }
}

// WithDiscoveryLogger sets the logger.
func WithDiscoveryLogger(log *logging.Logger) DiscovererOption {
	return func(d *Discoverer) { d.log = log }
}

// NewDiscoverer builds a Discoverer for the Azure/azurerm namespace.
func NewDiscoverer(opts ...DiscovererOption) *Discoverer {
	d := &Discoverer{
		baseURL:   registry.DefaultBaseURL,
		namespace: "Azure",
		provider:  "azurerm",
		http:      &http.Client{},
		log:       logging.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// listPage is the registry module-listing payload.
type listPage struct {
	Meta struct {
		Limit         int    `json:"limit"`
		CurrentOffset int    `json:"current_offset"`
		NextOffset    *int   `json:"next_offset"`
		NextURL       string `json:"next_url"`
	} `json:"meta"`
	Modules []struct {
		Namespace   string `json:"namespace"`
		Name        string `json:"name"`
		Provider    string `json:"provider"`
		Version     string `json:"version"`
		Description string `json:"description"`
		Downloads   int    `json:"downloads"`
	} `json:"modules"`
}

// ListAVMModules walks the namespace listing and returns all avm-res-*
// modules for the configured provider.
func (d *Discoverer) ListAVMModules(ctx context.Context) ([]Discovered, error) {
	var out []Discovered
	offset := 0

	for page := 0; page < discoveryMaxPages; page++ {
		url := fmt.Sprintf("%s/v1/modules/%s?offset=%d&limit=%d",
			d.baseURL, d.namespace, offset, discoveryPageSize)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return out, fmt.Errorf("building discovery request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := d.http.Do(req)
		if err != nil {
			return out, fmt.Errorf("listing registry modules: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return out, fmt.Errorf("registry listing returned status %d", resp.StatusCode)
		}

		var pageData listPage
		err = json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&pageData)
		resp.Body.Close()
		if err != nil {
			return out, fmt.Errorf("decoding registry listing: %w", err)
		}
		if len(pageData.Modules) == 0 {
			break
		}

		for _, m := range pageData.Modules {
			if !strings.HasPrefix(m.Name, "avm-res-") || m.Provider != d.provider {
				continue
			}
			out = append(out, Discovered{
				Name:        m.Name,
				Source:      fmt.Sprintf("%s/%s/%s", m.Namespace, m.Name, m.Provider),
				Version:     m.Version,
				Description: m.Description,
				Downloads:   m.Downloads,
			})
		}

		if pageData.Meta.NextOffset == nil {
			break
		}
		offset = *pageData.Meta.NextOffset
	}

	d.log.Info("registry discovery complete", "modules", len(out))
	return out, nil
}

// SyncResult summarizes a catalog sync.
type SyncResult struct {
	Added   int
	Updated int
}

// Sync merges discovered modules into the catalog.
//
// Existing curated entries keep their variable and output detail; only
// the fallback version (when the registry has a newer release) and the
// census category are refreshed. Unknown modules are added with
// derived key, category, and service path.
func (c *Catalog) Sync(ctx context.Context, d *Discoverer) (SyncResult, error) {
	discovered, err := d.ListAVMModules(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("syncing catalog: %w", err)
	}

	census := publishedIndex()

	byRegistryName := make(map[string]Module)
	for _, m := range c.All() {
		if _, ok := byRegistryName[m.RegistryName()]; !ok {
			byRegistryName[m.RegistryName()] = m
		}
	}

	var res SyncResult
	for _, disc := range discovered {
		info, inCensus := census[disc.Name]
		category := "other"
		if inCensus {
			category = info.Category
		} else {
			category = Categorize(disc.Name)
		}

		if existing, ok := byRegistryName[disc.Name]; ok {
			changed := false
			if newerVersion(disc.Version, existing.FallbackVersion) {
				existing.FallbackVersion = disc.Version
				changed = true
			}
			if existing.Category != category {
				existing.Category = category
				changed = true
			}
			if changed {
				c.put(existing)
				res.Updated++
			}
			continue
		}

		key := ModuleKey(disc.Name)
		if _, taken := c.Get(key); taken {
			key = disc.Name
		}
		// Keys become module instance labels in generated HCL, so a
		// registry name that derives an invalid identifier is skipped.
		if err := validation.ValidateIdentifier(key); err != nil {
			c.log.Warn("skipping discovered module", "name", disc.Name, "error", err.Error())
			continue
		}

		description := disc.Description
		if description == "" && inCensus {
			description = info.Display
		}
		if description == "" {
			description = "Azure Verified Module " + disc.Name
		}

		version := disc.Version
		if version == "" || version == "latest" {
			version = "0.1.0"
		}

		c.put(Module{
			Key:             key,
			Source:          disc.Source,
			FallbackVersion: version,
			Description:     description,
			Category:        category,
			AzureService:    AzureServiceName(disc.Name),
			Aliases:         []string{avmPrefix.ReplaceAllString(disc.Name, "")},
		})
		byRegistryName[disc.Name] = Module{Key: key, Source: disc.Source}
		res.Added++
	}

	c.log.Info("catalog sync finished", "added", res.Added, "updated", res.Updated, "total", c.Len())
	return res, nil
}

// newerVersion reports whether a is a strictly newer semver than b.
// Unparseable versions never win.
func newerVersion(a, b string) bool {
	va, vb := "v"+strings.TrimPrefix(a, "v"), "v"+strings.TrimPrefix(b, "v")
	if !semver.IsValid(va) {
		return false
	}
	if !semver.IsValid(vb) {
		return true
	}
	return semver.Compare(va, vb) > 0
}
