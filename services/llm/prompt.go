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
	"fmt"
	"strings"

	"github.com/DriftwoodAI/TerraDraft/services/catalog"
)

const systemPromptHeader = `You are a Terraform Infrastructure Expert specializing in Azure Verified Modules (AVM).

Your role is to help users generate Terraform code for deploying Azure infrastructure using Azure Verified Modules. You can:

1. **Accept Service Lists**: When given a list of Azure services, recommend appropriate AVM modules and generate Terraform code.
2. **Generate Terraform Projects**: Create complete Terraform projects (providers.tf, variables.tf, main.tf, outputs.tf, README.md).
3. **Lookup AVM Modules**: Search and retrieve information about available Azure Verified Modules.

Guidelines:
- Always use Azure Verified Modules (AVM) when available instead of raw azurerm resources.
- Use pessimistic version constraints (~> MAJOR.MINOR) for providers and modules.
- Include proper dependencies between modules and set enable_telemetry = var.enable_telemetry.
- Consider security best practices (private endpoints, network rules, managed identities).`

// SystemPrompt builds the assistant's system prompt, embedding the
// current catalog so the model recommends modules that actually exist.
func SystemPrompt(cat *catalog.Catalog) Message {
	var b strings.Builder
	b.WriteString(systemPromptHeader)
	b.WriteString("\n\nAvailable AVM modules by category:\n")

	for _, category := range cat.Categories() {
		fmt.Fprintf(&b, "\n%s:", category)
		for _, m := range cat.ByCategory(category) {
			fmt.Fprintf(&b, " %s", m.Key)
		}
	}
	b.WriteString("\n\nWhen the user asks for infrastructure, map each service to one of the modules above and describe the plan before generating code.")

	return Message{Role: RoleSystem, Content: b.String()}
}
