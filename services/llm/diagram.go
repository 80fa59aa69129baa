// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

const diagramPrompt = `Analyze this Azure architecture diagram and identify all the Azure services and components shown.

For each component you identify, provide:
1. The service name as labeled in the diagram
2. The type of Azure service it represents
3. Any visible connections to other components
4. Any visible configuration details (SKUs, sizes, counts)

Also identify:
- Azure regions shown
- Resource group boundaries
- The networking topology (VNets, subnets, peering)
- Security components (firewalls, NSGs, private endpoints)

Focus on identifying Azure services that can be deployed using Terraform Azure Verified Modules (AVM). Common services include: Virtual Machines, AKS, App Service, Azure Functions, Container Apps, Storage Accounts, SQL Database, Cosmos DB, PostgreSQL, Redis Cache, Key Vault, Virtual Networks, Load Balancers, Application Gateway, Front Door, API Management, Service Bus, Event Hubs, Log Analytics, Application Insights.

Respond with JSON in exactly this format:
{
  "description": "Brief overall description of the architecture",
  "components": [
    {
      "name": "Component name as shown in diagram",
      "service_type": "Type of Azure service in snake_case (e.g., virtual_machine, storage_account, key_vault)",
      "connections": ["names of connected components"],
      "properties": {"any": "visible configuration"}
    }
  ],
  "regions": ["regions shown"],
  "resource_groups": ["resource group names if visible"],
  "networking_topology": "Description of the network layout",
  "security_components": ["security elements identified"]
}`

// DiagramComponent is one service identified in an architecture
// diagram.
type DiagramComponent struct {
	Name        string            `json:"name"`
	ServiceType string            `json:"service_type"`
	Connections []string          `json:"connections,omitempty"`
	Properties  map[string]string `json:"properties,omitempty"`
}

// DiagramAnalysis is the structured result of analyzing an
// architecture diagram. RawAnalysis always carries the model's full
// response; the structured fields are empty when the model did not
// answer in the requested format.
type DiagramAnalysis struct {
	Description        string             `json:"description"`
	Components         []DiagramComponent `json:"components,omitempty"`
	Regions            []string           `json:"regions,omitempty"`
	ResourceGroups     []string           `json:"resource_groups,omitempty"`
	NetworkingTopology string             `json:"networking_topology,omitempty"`
	SecurityComponents []string           `json:"security_components,omitempty"`
	RawAnalysis        string             `json:"raw_analysis,omitempty"`
}

// ServiceTypes returns the distinct service types of the identified
// components, sorted.
func (a DiagramAnalysis) ServiceTypes() []string {
	seen := make(map[string]bool, len(a.Components))
	var types []string
	for _, c := range a.Components {
		st := strings.TrimSpace(c.ServiceType)
		if st == "" || seen[st] {
			continue
		}
		seen[st] = true
		types = append(types, st)
	}
	sort.Strings(types)
	return types
}

var diagramMediaTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// MediaTypeForFile maps a diagram filename to its image MIME type.
// Only raster formats vision models accept are supported.
func MediaTypeForFile(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if mt, ok := diagramMediaTypes[ext]; ok {
		return mt, nil
	}
	exts := make([]string, 0, len(diagramMediaTypes))
	for e := range diagramMediaTypes {
		exts = append(exts, e)
	}
	sort.Strings(exts)
	return "", fmt.Errorf("unsupported diagram format %q (supported: %s)", ext, strings.Join(exts, ", "))
}

// AnalyzeDiagram asks a vision-capable backend to identify the Azure
// services in an architecture diagram.
func AnalyzeDiagram(ctx context.Context, v Vision, image []byte, mediaType string) (DiagramAnalysis, error) {
	raw, err := v.ChatVision(ctx, diagramPrompt, image, mediaType)
	if err != nil {
		return DiagramAnalysis{}, fmt.Errorf("analyzing diagram: %w", err)
	}
	return parseDiagramAnalysis(raw), nil
}

// parseDiagramAnalysis extracts the JSON object from a model response.
// Models often wrap the JSON in prose or a code fence; everything from
// the first "{" to the last "}" is treated as the payload. An answer
// with no parseable JSON degrades to the raw text.
func parseDiagramAnalysis(raw string) DiagramAnalysis {
	analysis := DiagramAnalysis{RawAnalysis: raw}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		analysis.Description = "Could not parse structured response"
		return analysis
	}

	var parsed DiagramAnalysis
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		analysis.Description = "Could not parse structured response"
		return analysis
	}
	parsed.RawAnalysis = raw
	return parsed
}
