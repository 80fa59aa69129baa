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

// builtinModules is the curated table. Entries carry enough detail for
// code generation; the published census in published.go covers the
// rest of the AVM index. Fallback versions track the last release
// verified by hand and are only used when the registry is unreachable
// with a cold cache.
var builtinModules = []Module{
	{
		Key:             "virtual_machine",
		Source:          "Azure/avm-res-compute-virtualmachine/azurerm",
		FallbackVersion: "0.20.0",
		Description:     "Deploy Azure Virtual Machines with best practices including availability zones and managed disks",
		Category:        "compute",
		AzureService:    "Microsoft.Compute/virtualMachines",
		RequiredVariables: []Variable{
			{Name: "name", Type: "string", Description: "The name of the virtual machine", Required: true},
			{Name: "resource_group_name", Type: "string", Description: "The name of the resource group", Required: true},
			{Name: "location", Type: "string", Description: "The Azure region for deployment", Required: true},
			{Name: "virtualmachine_sku_size", Type: "string", Description: "The SKU size of the virtual machine", Required: true, Example: "Standard_D2s_v3"},
			{Name: "virtualmachine_os_type", Type: "string", Description: "The OS type (Windows or Linux)", Required: true},
		},
		OptionalVariables: []Variable{
			{Name: "zone", Type: "number", Description: "The availability zone", Default: 1},
			{Name: "admin_username", Type: "string", Description: "Admin username", Default: "azureuser"},
			{Name: "disable_password_authentication", Type: "bool", Description: "Disable password auth for Linux", Default: true},
		},
		Outputs:      []string{"resource_id", "name", "private_ip_address", "public_ip_address"},
		Aliases:      []string{"vm", "virtual-machine", "compute", "server"},
		Dependencies: []string{"virtual_network"},
	},
	{
		Key:             "virtual_network",
		Source:          "Azure/avm-res-network-virtualnetwork/azurerm",
		FallbackVersion: "0.8.0",
		Description:     "Deploy Azure Virtual Networks with subnets and service endpoints",
		Category:        "networking",
		AzureService:    "Microsoft.Network/virtualNetworks",
		RequiredVariables: []Variable{
			{Name: "name", Type: "string", Description: "The name of the virtual network", Required: true},
			{Name: "resource_group_name", Type: "string", Description: "The name of the resource group", Required: true},
			{Name: "location", Type: "string", Description: "The Azure region for deployment", Required: true},
			{Name: "address_space", Type: "list(string)", Description: "The address space for the VNet", Required: true, Example: `["10.0.0.0/16"]`},
		},
		OptionalVariables: []Variable{
			{Name: "subnets", Type: "map(object)", Description: "Map of subnets to create"},
		},
		Outputs: []string{"resource_id", "name", "subnets"},
		Aliases: []string{"vnet", "network", "virtual-network"},
	},
	{
		Key:             "network_security_group",
		Source:          "Azure/avm-res-network-networksecuritygroup/azurerm",
		FallbackVersion: "0.4.0",
		Description:     "Deploy Azure Network Security Groups with security rules",
		Category:        "networking",
		AzureService:    "Microsoft.Network/networkSecurityGroups",
		RequiredVariables: []Variable{
			{Name: "name", Type: "string", Description: "The name of the network security group", Required: true},
			{Name: "resource_group_name", Type: "string", Description: "The name of the resource group", Required: true},
			{Name: "location", Type: "string", Description: "The Azure region for deployment", Required: true},
		},
		Outputs: []string{"resource_id", "name"},
		Aliases: []string{"nsg", "security-group", "firewall-rules"},
	},
	{
		Key:             "public_ip",
		Source:          "Azure/avm-res-network-publicipaddress/azurerm",
		FallbackVersion: "0.2.0",
		Description:     "Deploy Azure Public IP addresses",
		Category:        "networking",
		AzureService:    "Microsoft.Network/publicIPAddresses",
		RequiredVariables: []Variable{
			{Name: "name", Type: "string", Description: "The name of the public IP", Required: true},
			{Name: "resource_group_name", Type: "string", Description: "The name of the resource group", Required: true},
			{Name: "location", Type: "string", Description: "The Azure region for deployment", Required: true},
		},
		Outputs: []string{"resource_id", "name", "ip_address"},
		Aliases: []string{"pip", "public-ip", "external-ip"},
	},
	{
		Key:             "storage_account",
		Source:          "Azure/avm-res-storage-storageaccount/azurerm",
		FallbackVersion: "0.5.0",
		Description:     "Deploy Azure Storage Accounts with containers, queues, tables, and file shares",
		Category:        "storage",
		AzureService:    "Microsoft.Storage/storageAccounts",
		RequiredVariables: []Variable{
			{Name: "name", Type: "string", Description: "The name of the storage account", Required: true},
			{Name: "resource_group_name", Type: "string", Description: "The name of the resource group", Required: true},
			{Name: "location", Type: "string", Description: "The Azure region for deployment", Required: true},
		},
		OptionalVariables: []Variable{
			{Name: "account_tier", Type: "string", Description: "Account tier", Default: "Standard"},
			{Name: "account_replication_type", Type: "string", Description: "Replication type", Default: "LRS"},
		},
		Outputs: []string{"resource_id", "name", "primary_access_key", "primary_connection_string", "primary_blob_endpoint"},
		Aliases: []string{"storage", "blob", "files", "queue", "table"},
	},
	{
		Key:             "key_vault",
		Source:          "Azure/avm-res-keyvault-vault/azurerm",
		FallbackVersion: "0.10.0",
		Description:     "Deploy Azure Key Vault for secrets, keys, and certificates management",
		Category:        "security",
		AzureService:    "Microsoft.KeyVault/vaults",
		RequiredVariables: []Variable{
			{Name: "name", Type: "string", Description: "The name of the Key Vault", Required: true},
			{Name: "resource_group_name", Type: "string", Description: "The name of the resource group", Required: true},
			{Name: "location", Type: "string", Description: "The Azure region for deployment", Required: true},
			{Name: "tenant_id", Type: "string", Description: "The Azure AD tenant ID", Required: true},
		},
		OptionalVariables: []Variable{
			{Name: "sku_name", Type: "string", Description: "SKU name", Default: "standard"},
			{Name: "soft_delete_retention_days", Type: "number", Description: "Soft delete retention days", Default: 90},
		},
		Outputs: []string{"resource_id", "name", "vault_uri"},
		Aliases: []string{"keyvault", "vault", "secrets"},
	},
	{
		Key:             "managed_identity",
		Source:          "Azure/avm-res-managedidentity-userassignedidentity/azurerm",
		FallbackVersion: "0.4.0",
		Description:     "Deploy Azure User Assigned Managed Identity",
		Category:        "security",
		AzureService:    "Microsoft.ManagedIdentity/userAssignedIdentities",
		RequiredVariables: []Variable{
			{Name: "name", Type: "string", Description: "The name of the managed identity", Required: true},
			{Name: "resource_group_name", Type: "string", Description: "The name of the resource group", Required: true},
			{Name: "location", Type: "string", Description: "The Azure region for deployment", Required: true},
		},
		Outputs: []string{"resource_id", "name", "client_id", "principal_id", "tenant_id"},
		Aliases: []string{"identity", "uami", "user-assigned-identity"},
	},
	{
		Key:             "container_registry",
		Source:          "Azure/avm-res-containerregistry-registry/azurerm",
		FallbackVersion: "0.5.0",
		Description:     "Deploy Azure Container Registry for Docker and OCI images",
		Category:        "containers",
		AzureService:    "Microsoft.ContainerRegistry/registries",
		RequiredVariables: []Variable{
			{Name: "name", Type: "string", Description: "The name of the container registry", Required: true},
			{Name: "resource_group_name", Type: "string", Description: "The name of the resource group", Required: true},
			{Name: "location", Type: "string", Description: "The Azure region for deployment", Required: true},
		},
		OptionalVariables: []Variable{
			{Name: "sku", Type: "string", Description: "Registry SKU", Default: "Standard"},
		},
		Outputs: []string{"resource_id", "name", "login_server"},
		Aliases: []string{"acr", "container-registry", "docker-registry"},
	},
	{
		Key:             "kubernetes_cluster",
		Source:          "Azure/avm-res-containerservice-managedcluster/azurerm",
		FallbackVersion: "0.5.0",
		Description:     "Deploy Azure Kubernetes Service (AKS) managed clusters",
		Category:        "containers",
		AzureService:    "Microsoft.ContainerService/managedClusters",
		RequiredVariables: []Variable{
			{Name: "name", Type: "string", Description: "The name of the AKS cluster", Required: true},
			{Name: "resource_group_name", Type: "string", Description: "The name of the resource group", Required: true},
			{Name: "location", Type: "string", Description: "The Azure region for deployment", Required: true},
		},
		Outputs:      []string{"resource_id", "name", "kube_config", "host"},
		Aliases:      []string{"aks", "kubernetes", "k8s"},
		Dependencies: []string{"virtual_network"},
	},
	{
		Key:             "web_app",
		Source:          "Azure/avm-res-web-site/azurerm",
		FallbackVersion: "0.17.0",
		Description:     "Deploy Azure Web Apps (App Service)",
		Category:        "web",
		AzureService:    "Microsoft.Web/sites",
		RequiredVariables: []Variable{
			{Name: "name", Type: "string", Description: "The name of the web app", Required: true},
			{Name: "resource_group_name", Type: "string", Description: "The name of the resource group", Required: true},
			{Name: "location", Type: "string", Description: "The Azure region for deployment", Required: true},
			{Name: "service_plan_resource_id", Type: "string", Description: "The App Service Plan resource ID", Required: true},
			{Name: "kind", Type: "string", Description: "The kind of app (app, functionapp)", Required: true},
			{Name: "os_type", Type: "string", Description: "The OS type (Linux or Windows)", Required: true},
		},
		Outputs:      []string{"resource_id", "name", "default_hostname"},
		Aliases:      []string{"webapp", "app-service", "web"},
		Dependencies: []string{"app_service_plan"},
	},
	{
		Key:             "function_app",
		Source:          "Azure/avm-res-web-site/azurerm",
		FallbackVersion: "0.17.0",
		Description:     "Deploy Azure Function Apps for serverless workloads",
		Category:        "web",
		AzureService:    "Microsoft.Web/sites",
		RequiredVariables: []Variable{
			{Name: "name", Type: "string", Description: "The name of the function app", Required: true},
			{Name: "resource_group_name", Type: "string", Description: "The name of the resource group", Required: true},
			{Name: "location", Type: "string", Description: "The Azure region for deployment", Required: true},
			{Name: "service_plan_resource_id", Type: "string", Description: "The App Service Plan resource ID", Required: true},
			{Name: "kind", Type: "string", Description: "The kind of app", Required: true, Example: "functionapp"},
			{Name: "os_type", Type: "string", Description: "The OS type (Linux or Windows)", Required: true},
		},
		Outputs:      []string{"resource_id", "name", "default_hostname"},
		Aliases:      []string{"function", "functions", "azure-function", "serverless"},
		Dependencies: []string{"app_service_plan", "storage_account"},
	},
	{
		Key:             "app_service_plan",
		Source:          "Azure/avm-res-web-serverfarm/azurerm",
		FallbackVersion: "0.4.0",
		Description:     "Deploy Azure App Service Plans",
		Category:        "web",
		AzureService:    "Microsoft.Web/serverFarms",
		RequiredVariables: []Variable{
			{Name: "name", Type: "string", Description: "The name of the App Service Plan", Required: true},
			{Name: "resource_group_name", Type: "string", Description: "The name of the resource group", Required: true},
			{Name: "location", Type: "string", Description: "The Azure region for deployment", Required: true},
			{Name: "os_type", Type: "string", Description: "The OS type (Linux or Windows)", Required: true},
		},
		OptionalVariables: []Variable{
			{Name: "sku_name", Type: "string", Description: "Plan SKU", Default: "P1v3"},
		},
		Outputs: []string{"resource_id", "name"},
		Aliases: []string{"asp", "service-plan"},
	},
	{
		Key:             "sql_server",
		Source:          "Azure/avm-res-sql-server/azurerm",
		FallbackVersion: "0.3.0",
		Description:     "Deploy Azure SQL Server logical servers with databases",
		Category:        "database",
		AzureService:    "Microsoft.Sql/servers",
		RequiredVariables: []Variable{
			{Name: "name", Type: "string", Description: "The name of the SQL server", Required: true},
			{Name: "resource_group_name", Type: "string", Description: "The name of the resource group", Required: true},
			{Name: "location", Type: "string", Description: "The Azure region for deployment", Required: true},
			{Name: "server_version", Type: "string", Description: "SQL server version", Required: true, Example: "12.0"},
		},
		Outputs: []string{"resource_id", "name", "fully_qualified_domain_name"},
		Aliases: []string{"mssql", "sql", "azure-sql"},
	},
	{
		Key:             "postgresql_flexible",
		Source:          "Azure/avm-res-dbforpostgresql-flexibleserver/azurerm",
		FallbackVersion: "0.4.0",
		Description:     "Deploy Azure Database for PostgreSQL Flexible Server",
		Category:        "database",
		AzureService:    "Microsoft.DBforPostgreSQL/flexibleServers",
		RequiredVariables: []Variable{
			{Name: "name", Type: "string", Description: "The name of the PostgreSQL server", Required: true},
			{Name: "resource_group_name", Type: "string", Description: "The name of the resource group", Required: true},
			{Name: "location", Type: "string", Description: "The Azure region for deployment", Required: true},
		},
		OptionalVariables: []Variable{
			{Name: "server_version", Type: "string", Description: "PostgreSQL version", Default: "16"},
			{Name: "sku_name", Type: "string", Description: "Server SKU", Default: "GP_Standard_D2s_v3"},
		},
		Outputs:      []string{"resource_id", "name", "fqdn"},
		Aliases:      []string{"postgres", "postgresql", "pg"},
		Dependencies: []string{"virtual_network"},
	},
	{
		Key:             "redis",
		Source:          "Azure/avm-res-cache-redis/azurerm",
		FallbackVersion: "0.4.0",
		Description:     "Deploy Azure Cache for Redis",
		Category:        "database",
		AzureService:    "Microsoft.Cache/redis",
		RequiredVariables: []Variable{
			{Name: "name", Type: "string", Description: "The name of the Redis cache", Required: true},
			{Name: "resource_group_name", Type: "string", Description: "The name of the resource group", Required: true},
			{Name: "location", Type: "string", Description: "The Azure region for deployment", Required: true},
		},
		Outputs: []string{"resource_id", "name", "hostname", "primary_access_key"},
		Aliases: []string{"cache", "redis-cache"},
	},
	{
		Key:             "log_analytics_workspace",
		Source:          "Azure/avm-res-operationalinsights-workspace/azurerm",
		FallbackVersion: "0.5.0",
		Description:     "Deploy Azure Log Analytics Workspace",
		Category:        "monitoring",
		AzureService:    "Microsoft.OperationalInsights/workspaces",
		RequiredVariables: []Variable{
			{Name: "name", Type: "string", Description: "The name of the Log Analytics workspace", Required: true},
			{Name: "resource_group_name", Type: "string", Description: "The name of the resource group", Required: true},
			{Name: "location", Type: "string", Description: "The Azure region for deployment", Required: true},
		},
		OptionalVariables: []Variable{
			{Name: "sku", Type: "string", Description: "SKU name", Default: "PerGB2018"},
			{Name: "retention_in_days", Type: "number", Description: "Log retention days", Default: 30},
		},
		Outputs: []string{"resource_id", "name", "workspace_id", "primary_shared_key"},
		Aliases: []string{"log-analytics", "logs", "workspace", "law"},
	},
	{
		Key:             "application_insights",
		Source:          "Azure/avm-res-insights-component/azurerm",
		FallbackVersion: "0.2.0",
		Description:     "Deploy Azure Application Insights for application monitoring",
		Category:        "monitoring",
		AzureService:    "Microsoft.Insights/components",
		RequiredVariables: []Variable{
			{Name: "name", Type: "string", Description: "The name of Application Insights", Required: true},
			{Name: "resource_group_name", Type: "string", Description: "The name of the resource group", Required: true},
			{Name: "location", Type: "string", Description: "The Azure region for deployment", Required: true},
			{Name: "workspace_resource_id", Type: "string", Description: "The Log Analytics workspace resource ID", Required: true},
		},
		OptionalVariables: []Variable{
			{Name: "application_type", Type: "string", Description: "Application type", Default: "web"},
		},
		Outputs:      []string{"resource_id", "name", "instrumentation_key", "connection_string"},
		Aliases:      []string{"appinsights", "app-insights", "apm"},
		Dependencies: []string{"log_analytics_workspace"},
	},
	{
		Key:             "cognitive_services",
		Source:          "Azure/avm-res-cognitiveservices-account/azurerm",
		FallbackVersion: "0.8.0",
		Description:     "Deploy Azure Cognitive Services / Azure AI Services accounts",
		Category:        "ai",
		AzureService:    "Microsoft.CognitiveServices/accounts",
		RequiredVariables: []Variable{
			{Name: "name", Type: "string", Description: "The name of the Cognitive Services account", Required: true},
			{Name: "resource_group_name", Type: "string", Description: "The name of the resource group", Required: true},
			{Name: "location", Type: "string", Description: "The Azure region for deployment", Required: true},
			{Name: "kind", Type: "string", Description: "The kind of Cognitive Service", Required: true, Example: "OpenAI"},
		},
		OptionalVariables: []Variable{
			{Name: "sku_name", Type: "string", Description: "SKU name", Default: "S0"},
		},
		Outputs: []string{"resource_id", "name", "endpoint", "primary_access_key"},
		Aliases: []string{"cognitive", "ai-services", "openai", "azure-openai"},
	},
}
