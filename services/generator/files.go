// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package generator

import (
	"fmt"
	"sort"
	"strings"
)

// projectConfig carries the resolved project-level settings shared by
// the file renderers.
type projectConfig struct {
	Project        string
	Location       string
	ResourceGroup  string
	SubscriptionID string
	Tags           map[string]string
}

const (
	minTerraformVersion = "1.9.0"
	azurermConstraint   = "~> 4.0"
)

func renderProviders(cfg projectConfig) string {
	var lines []string
	section(&lines, "Terraform Configuration",
		"AVM Best Practice: Use pessimistic version constraints (~> X.0)")
	lines = append(lines,
		"",
		"terraform {",
		fmt.Sprintf("  required_version = %q", ">= "+minTerraformVersion),
		"",
		"  required_providers {",
		"    azurerm = {",
		`      source  = "hashicorp/azurerm"`,
		fmt.Sprintf("      version = %q", azurermConstraint),
		"    }",
		"    random = {",
		`      source  = "hashicorp/random"`,
		`      version = "~> 3.0"`,
		"    }",
		"  }",
		"}",
		"",
	)
	section(&lines, "AzureRM Provider Configuration")
	lines = append(lines,
		"",
		`provider "azurerm" {`,
		"  features {",
		"    key_vault {",
		"      purge_soft_delete_on_destroy = false",
		"    }",
		"    resource_group {",
		"      prevent_deletion_if_contains_resources = false",
		"    }",
		"  }",
	)
	if cfg.SubscriptionID != "" {
		lines = append(lines, fmt.Sprintf("  subscription_id = %q", cfg.SubscriptionID))
	}
	lines = append(lines,
		"",
		"  # AVM Best Practice: Use Azure AD for storage authentication",
		"  storage_use_azuread = true",
		"}",
	)
	return strings.Join(lines, "\n") + "\n"
}

func renderVariables(cfg projectConfig) string {
	var lines []string
	section(&lines, "Required Variables")
	lines = append(lines,
		"",
		`variable "location" {`,
		`  description = "The Azure region for resource deployment."`,
		"  type        = string",
		fmt.Sprintf("  default     = %q", cfg.Location),
		"",
		"  validation {",
		"    condition     = length(var.location) > 0",
		`    error_message = "Location must not be empty."`,
		"  }",
		"}",
		"",
		`variable "resource_group_name" {`,
		`  description = "The name of the resource group."`,
		"  type        = string",
		fmt.Sprintf("  default     = %q", cfg.ResourceGroup),
		"}",
		"",
		`variable "project_name" {`,
		`  description = "The name of the project (used for naming resources)."`,
		"  type        = string",
		fmt.Sprintf("  default     = %q", cfg.Project),
		"",
		"  validation {",
		`    condition     = can(regex("^[a-z0-9-]+$", var.project_name))`,
		`    error_message = "Project name must contain only lowercase letters, numbers, and hyphens."`,
		"  }",
		"}",
		"",
	)
	section(&lines, "Optional Variables")
	lines = append(lines,
		"",
		`variable "environment" {`,
		`  description = "The environment (dev, staging, prod)."`,
		"  type        = string",
		`  default     = "dev"`,
		"",
		"  validation {",
		`    condition     = contains(["dev", "staging", "prod"], var.environment)`,
		`    error_message = "Environment must be one of: dev, staging, prod."`,
		"  }",
		"}",
		"",
		"# AVM Best Practice: Enable telemetry for module usage tracking",
		`variable "enable_telemetry" {`,
		`  description = "Enable or disable telemetry for AVM modules."`,
		"  type        = bool",
		"  default     = true",
		"}",
		"",
		`variable "tags" {`,
		`  description = "Tags to apply to all resources."`,
		"  type        = map(string)",
		"  default = {",
	)

	tags := map[string]string{
		"project":    cfg.Project,
		"managed_by": "terraform",
	}
	for k, v := range cfg.Tags {
		tags[k] = v
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("    %s = %q", k, tags[k]))
	}

	lines = append(lines, "  }", "}")
	return strings.Join(lines, "\n") + "\n"
}

func renderMain(cfg projectConfig, plans []ModulePlan) string {
	var lines []string
	section(&lines, "Data Sources")
	lines = append(lines,
		"",
		`data "azurerm_client_config" "current" {}`,
		"",
	)
	section(&lines, "Random suffix for globally unique names")
	lines = append(lines,
		"",
		`resource "random_string" "suffix" {`,
		"  length  = 6",
		"  special = false",
		"  upper   = false",
		"}",
		"",
	)
	section(&lines, "Local values")
	lines = append(lines,
		"",
		"locals {",
		"  name_suffix         = random_string.suffix.result",
		`  resource_group_name = var.resource_group_name != "" ? var.resource_group_name : "${var.project_name}-rg-${local.name_suffix}"`,
		"  tags                = merge(var.tags, { environment = var.environment })",
		"}",
		"",
	)
	section(&lines, "Resource Group")
	lines = append(lines,
		"",
		`resource "azurerm_resource_group" "main" {`,
		"  name     = local.resource_group_name",
		"  location = var.location",
		"  tags     = local.tags",
		"}",
		"",
	)
	section(&lines, "AVM Modules")

	for _, p := range plans {
		lines = append(lines, "", "# "+p.Module.Description, moduleBlock(p))
	}
	return strings.Join(lines, "\n") + "\n"
}

func renderOutputs(plans []ModulePlan) string {
	var lines []string
	section(&lines, "Resource Group Outputs")
	lines = append(lines,
		"",
		`output "resource_group_name" {`,
		`  description = "The name of the resource group."`,
		"  value       = azurerm_resource_group.main.name",
		"}",
		"",
		`output "resource_group_id" {`,
		`  description = "The ID of the resource group."`,
		"  value       = azurerm_resource_group.main.id",
		"}",
		"",
		`output "resource_group_location" {`,
		`  description = "The location of the resource group."`,
		"  value       = azurerm_resource_group.main.location",
		"}",
		"",
	)
	section(&lines, "Module Outputs",
		"AVM Best Practice: Expose resource_id as the primary output")

	for _, p := range plans {
		name := strings.ReplaceAll(p.Instance, "-", "_")
		lines = append(lines,
			"",
			fmt.Sprintf("output %q {", name+"_resource_id"),
			fmt.Sprintf("  description = \"The resource ID of %s.\"", p.Instance),
			fmt.Sprintf("  value       = module.%s.resource_id", p.Instance),
			"}",
		)
		for _, out := range p.Module.Outputs {
			if out == "name" {
				lines = append(lines,
					"",
					fmt.Sprintf("output %q {", name+"_name"),
					fmt.Sprintf("  description = \"The name of %s.\"", p.Instance),
					fmt.Sprintf("  value       = module.%s.name", p.Instance),
					"}",
				)
			}
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

func renderTfvarsExample(cfg projectConfig) string {
	return fmt.Sprintf(`# Example Terraform variables file
# Copy this to terraform.tfvars and customize the values

location            = %q
resource_group_name = %q
project_name        = %q
environment         = "dev"

tags = {
  project     = %q
  environment = "dev"
  managed_by  = "terraform"
}
`, cfg.Location, cfg.ResourceGroup, cfg.Project, cfg.Project)
}

func renderGitignore() string {
	return `# Terraform files
*.tfstate
*.tfstate.*
*.tfstate.backup
.terraform/
.terraform.lock.hcl

# Sensitive files
*.tfvars
!*.tfvars.example
secrets.auto.tfvars

# IDE
.idea/
.vscode/
*.swp
*.swo

# OS
.DS_Store
Thumbs.db

# Crash logs
crash.log
crash.*.log

# Override files
override.tf
override.tf.json
*_override.tf
*_override.tf.json
`
}

func renderReadme(cfg projectConfig, plans []ModulePlan) string {
	var modules strings.Builder
	for _, p := range plans {
		fmt.Fprintf(&modules, "- **%s**: `%s` (version `%s`)\n", p.Instance, p.Module.Source, p.Version)
	}

	return fmt.Sprintf(`# %s

Terraform project generated using Azure Verified Modules (AVM).

## Overview

This project deploys the following Azure resources:

%s
## Prerequisites

- [Terraform](https://www.terraform.io/downloads.html) >= %s
- [Azure CLI](https://docs.microsoft.com/en-us/cli/azure/install-azure-cli) >= 2.50.0
- An Azure subscription

## Usage

1. **Authenticate with Azure:**

   `+"```bash"+`
   az login
   az account set --subscription "<subscription-id>"
   `+"```"+`

2. **Initialize Terraform:**

   `+"```bash"+`
   terraform init
   `+"```"+`

3. **Configure variables:**

   `+"```bash"+`
   cp terraform.tfvars.example terraform.tfvars
   # Edit terraform.tfvars with your values
   `+"```"+`

4. **Plan and apply:**

   `+"```bash"+`
   terraform plan
   terraform apply
   `+"```"+`

## Configuration

| Variable | Description | Default |
|----------|-------------|---------|
| `+"`location`"+` | Azure region | `+"`%s`"+` |
| `+"`resource_group_name`"+` | Resource group name | `+"`%s`"+` |
| `+"`project_name`"+` | Project name | `+"`%s`"+` |
| `+"`environment`"+` | Environment (dev/staging/prod) | `+"`dev`"+` |
| `+"`tags`"+` | Resource tags | See variables.tf |

## Modules

This project uses [Azure Verified Modules (AVM)](https://aka.ms/AVM) for Terraform.

## Clean Up

To destroy all resources:

`+"```bash"+`
terraform destroy
`+"```"+`
`, cfg.Project, modules.String(), minTerraformVersion, cfg.Location, cfg.ResourceGroup, cfg.Project)
}

func renderSummary(projectName string, plans []ModulePlan, notFound []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Terraform project %q generated.\n\nModules included:\n", projectName)
	for _, p := range plans {
		fmt.Fprintf(&b, "  - %s (%s @ %s)\n", p.Instance, p.Module.Key, p.Version)
	}
	if len(notFound) > 0 {
		b.WriteString("\nNo AVM module found for:\n")
		for _, s := range notFound {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
	}
	b.WriteString(`
Next steps:
  1. Review and customize the generated code
  2. Copy terraform.tfvars.example to terraform.tfvars and set your values
  3. Run 'terraform init', 'terraform plan', 'terraform apply'
`)
	return b.String()
}
