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
	"strconv"
	"strings"

	"github.com/DriftwoodAI/TerraDraft/services/catalog"
)

// referencePrefixes mark strings that are Terraform expressions rather
// than literals and must not be quoted.
var referencePrefixes = []string{"module.", "var.", "data.", "azurerm_", "local.", "random_string."}

func isReference(s string) bool {
	for _, p := range referencePrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// formatValue renders a Go value as HCL. Maps are rendered with sorted
// keys so output is deterministic.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		if isReference(t) {
			return t
		}
		return strconv.Quote(t)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []string:
		items := make([]any, len(t))
		for i, s := range t {
			items[i] = s
		}
		return formatValue(items)
	case []any:
		if len(t) == 0 {
			return "[]"
		}
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = formatValue(item)
		}
		return "[\n    " + strings.Join(parts, ",\n    ") + "\n  ]"
	case map[string]any:
		if len(t) == 0 {
			return "{}"
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString("{\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "    %s = %s\n", k, formatValue(t[k]))
		}
		b.WriteString("  }")
		return b.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// pessimisticConstraint turns a resolved version into a "~> MAJOR.MINOR"
// constraint, e.g. "0.19.2" -> "~> 0.19".
func pessimisticConstraint(version string) string {
	parts := strings.SplitN(strings.TrimPrefix(version, "v"), ".", 3)
	if len(parts) >= 2 {
		return fmt.Sprintf("~> %s.%s", parts[0], parts[1])
	}
	return "~> " + version
}

// section renders the dashed section header used throughout the
// generated files.
func section(lines *[]string, heading ...string) {
	rule := "# " + strings.Repeat("-", 77)
	*lines = append(*lines, rule)
	for _, h := range heading {
		*lines = append(*lines, "# "+h)
	}
	*lines = append(*lines, rule)
}

// moduleBlock renders one module instance as HCL.
func moduleBlock(p ModulePlan) string {
	lines := []string{
		fmt.Sprintf("module %q {", p.Instance),
		fmt.Sprintf("  source  = %q", p.Module.Source),
		fmt.Sprintf("  version = %q", pessimisticConstraint(p.Version)),
		"",
		"  # AVM Best Practice: Enable telemetry for module usage tracking",
		"  enable_telemetry = var.enable_telemetry",
		"",
	}

	for _, v := range p.Module.RequiredVariables {
		if value, ok := p.Variables[v.Name]; ok {
			lines = append(lines, fmt.Sprintf("  %s = %s", v.Name, formatValue(value)))
			continue
		}
		switch {
		case v.Name == "resource_group_name":
			lines = append(lines, "  resource_group_name = azurerm_resource_group.main.name")
		case v.Name == "location":
			lines = append(lines, "  location = azurerm_resource_group.main.location")
		case v.Name == "name":
			lines = append(lines, "  name = "+resourceName(p))
		case v.Example != "":
			lines = append(lines, fmt.Sprintf("  %s = %s # Example value - customize as needed", v.Name, exampleValue(v.Example)))
		case v.Default != nil:
			lines = append(lines, fmt.Sprintf("  %s = %s", v.Name, formatValue(v.Default)))
		default:
			lines = append(lines, fmt.Sprintf("  # %s = <%s>  # Required: %s", v.Name, v.Type, v.Description))
		}
	}

	extras := make([]string, 0, len(p.Variables))
	for name := range p.Variables {
		if !isRequiredVariable(p.Module, name) {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	for _, name := range extras {
		lines = append(lines, fmt.Sprintf("  %s = %s", name, formatValue(p.Variables[name])))
	}

	if len(p.DependsOn) > 0 {
		refs := make([]string, len(p.DependsOn))
		for i, dep := range p.DependsOn {
			refs[i] = "module." + dep
		}
		lines = append(lines, "", fmt.Sprintf("  depends_on = [%s]", strings.Join(refs, ", ")))
	}

	lines = append(lines, "}")
	return strings.Join(lines, "\n")
}

// exampleValue passes through examples that are already HCL
// (collections, references) and quotes bare literals.
func exampleValue(example string) string {
	if strings.HasPrefix(example, "[") || strings.HasPrefix(example, "{") ||
		strings.HasPrefix(example, `"`) || isReference(example) {
		return example
	}
	return strconv.Quote(example)
}

func isRequiredVariable(m catalog.Module, name string) bool {
	for _, v := range m.RequiredVariables {
		if v.Name == name {
			return true
		}
	}
	return false
}

// resourceName renders the name expression for a module instance.
// Globally unique resource types get a random suffix and their naming
// restrictions applied (storage accounts are lowercase alphanumeric
// capped at 24 chars, key vaults allow hyphens at 24, registries are
// alphanumeric at 50).
func resourceName(p ModulePlan) string {
	switch p.Module.Key {
	case "storage_account":
		return `substr("${lower(replace(var.project_name, "-", ""))}sa${local.name_suffix}", 0, 24)`
	case "key_vault":
		return `substr("${var.project_name}-kv-${local.name_suffix}", 0, 24)`
	case "container_registry":
		return `substr("${lower(replace(var.project_name, "-", ""))}cr${local.name_suffix}", 0, 50)`
	default:
		return strconv.Quote(p.Instance)
	}
}
