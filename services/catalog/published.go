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

import "sort"

// PublishedModule is one row of the AVM census: the registry module
// name, a display label, and its category.
type PublishedModule struct {
	Name     string `json:"name"`
	Display  string `json:"display"`
	Category string `json:"category"`
}

// publishedModules mirrors the published AVM resource-module index at
// https://azure.github.io/Azure-Verified-Modules/indexes/terraform/tf-resource-modules/
// (snapshot January 2026).
var publishedModules = []PublishedModule{
	{"avm-res-apimanagement-service", "API Management Service", "integration"},
	{"avm-res-app-containerapp", "Container App", "containers"},
	{"avm-res-app-job", "App Job", "containers"},
	{"avm-res-app-managedenvironment", "App Managed Environment", "containers"},
	{"avm-res-appconfiguration-configurationstore", "App Configuration Store", "integration"},
	{"avm-res-authorization-roleassignment", "Role Assignment", "security"},
	{"avm-res-automation-automationaccount", "Automation Account", "management"},
	{"avm-res-avs-privatecloud", "AVS Private Cloud", "hybrid"},
	{"avm-res-azurestackhci-cluster", "Azure Stack HCI Cluster", "hybrid"},
	{"avm-res-azurestackhci-logicalnetwork", "AzureStackHCI Logical Network", "hybrid"},
	{"avm-res-azurestackhci-virtualmachineinstance", "Stack HCI Virtual Machine Instance", "hybrid"},
	{"avm-res-batch-batchaccount", "Batch Account", "compute"},
	{"avm-res-cache-redis", "Redis Cache", "database"},
	{"avm-res-cdn-profile", "CDN Profile", "networking"},
	{"avm-res-certificateregistration-certificateorder", "Certificate Orders", "security"},
	{"avm-res-cognitiveservices-account", "Cognitive Service", "ai"},
	{"avm-res-communication-emailservice", "Email Communication Service", "messaging"},
	{"avm-res-compute-capacityreservationgroup", "Capacity Reservation Group", "compute"},
	{"avm-res-compute-disk", "Compute Disk", "compute"},
	{"avm-res-compute-diskencryptionset", "Disk Encryption Set", "compute"},
	{"avm-res-compute-gallery", "Azure Compute Gallery", "compute"},
	{"avm-res-compute-hostgroup", "Host Groups", "compute"},
	{"avm-res-compute-proximityplacementgroup", "Proximity Placement Group", "compute"},
	{"avm-res-compute-sshpublickey", "Public SSH Key", "compute"},
	{"avm-res-compute-virtualmachine", "Virtual Machine", "compute"},
	{"avm-res-compute-virtualmachinescaleset", "Virtual Machine Scale Set", "compute"},
	{"avm-res-containerinstance-containergroup", "Container Instance", "containers"},
	{"avm-res-containerregistry-registry", "Azure Container Registry (ACR)", "containers"},
	{"avm-res-containerservice-managedcluster", "AKS Managed Cluster", "containers"},
	{"avm-res-databricks-workspace", "Azure Databricks Workspace", "analytics"},
	{"avm-res-datafactory-factory", "Data Factory", "analytics"},
	{"avm-res-dataprotection-backupvault", "Data Protection Backup Vault", "management"},
	{"avm-res-dataprotection-resourceguard", "Data Protection Resource Guard", "management"},
	{"avm-res-dbformysql-flexibleserver", "DB for MySQL Flexible Server", "database"},
	{"avm-res-dbforpostgresql-flexibleserver", "DB for PostgreSQL Flexible Server", "database"},
	{"avm-res-desktopvirtualization-applicationgroup", "Azure Virtual Desktop (AVD) Application Group", "avd"},
	{"avm-res-desktopvirtualization-hostpool", "Azure Virtual Desktop (AVD) Host Pool", "avd"},
	{"avm-res-desktopvirtualization-scalingplan", "Azure Virtual Desktop (AVD) Scaling Plan", "avd"},
	{"avm-res-desktopvirtualization-workspace", "Azure Virtual Desktop (AVD) Workspace", "avd"},
	{"avm-res-devcenter-devcenter", "Dev Center", "developer"},
	{"avm-res-devopsinfrastructure-pool", "DevOps Pools", "developer"},
	{"avm-res-documentdb-databaseaccount", "CosmosDB Database Account", "database"},
	{"avm-res-documentdb-mongocluster", "Cosmos DB for MongoDB (vCore)", "database"},
	{"avm-res-edge-site", "Azure Arc Site Manager", "hybrid"},
	{"avm-res-eventgrid-domain", "Event Grid Domain", "messaging"},
	{"avm-res-eventgrid-topic", "Event Grid Topic", "messaging"},
	{"avm-res-eventhub-namespace", "Event Hub Namespace", "messaging"},
	{"avm-res-features-feature", "Azure Feature Exposure Control (AFEC)", "management"},
	{"avm-res-hybridcontainerservice-provisionedclusterinstance", "AKS Arc", "hybrid"},
	{"avm-res-insights-autoscalesetting", "Auto Scale Settings", "monitoring"},
	{"avm-res-insights-component", "Application Insight", "monitoring"},
	{"avm-res-insights-datacollectionendpoint", "Data Collection Endpoint", "monitoring"},
	{"avm-res-keyvault-vault", "Key Vault", "security"},
	{"avm-res-kusto-cluster", "Kusto Clusters", "analytics"},
	{"avm-res-logic-workflow", "Logic Apps (Workflow)", "integration"},
	{"avm-res-machinelearningservices-workspace", "Machine Learning Services Workspace", "ai"},
	{"avm-res-maintenance-maintenanceconfiguration", "Maintenance Configuration", "management"},
	{"avm-res-managedidentity-userassignedidentity", "User Assigned Identity", "security"},
	{"avm-res-management-servicegroup", "Management Service Groups", "management"},
	{"avm-res-netapp-netappaccount", "Azure NetApp File", "storage"},
	{"avm-res-network-applicationgateway", "Application Gateway", "networking"},
	{"avm-res-network-applicationgatewaywebapplicationfirewallpolicy", "Application Gateway WAF Policy", "networking"},
	{"avm-res-network-applicationsecuritygroup", "Application Security Group (ASG)", "networking"},
	{"avm-res-network-azurefirewall", "Azure Firewall", "networking"},
	{"avm-res-network-bastionhost", "Bastion Host", "networking"},
	{"avm-res-network-connection", "Virtual Network Gateway Connection", "networking"},
	{"avm-res-network-ddosprotectionplan", "DDoS Protection", "networking"},
	{"avm-res-network-dnsresolver", "DNS Resolver", "networking"},
	{"avm-res-network-dnszone", "Public DNS Zone", "networking"},
	{"avm-res-network-expressroutecircuit", "ExpressRoute Circuit", "networking"},
	{"avm-res-network-firewallpolicy", "Azure Firewall Policy", "networking"},
	{"avm-res-network-frontdoorwebapplicationfirewallpolicy", "Front Door WAF Policy", "networking"},
	{"avm-res-network-ipgroup", "IP Group", "networking"},
	{"avm-res-network-loadbalancer", "Loadbalancer", "networking"},
	{"avm-res-network-localnetworkgateway", "Local Network Gateway", "networking"},
	{"avm-res-network-natgateway", "NAT Gateway", "networking"},
	{"avm-res-network-networkinterface", "Network Interface", "networking"},
	{"avm-res-network-networkmanager", "Azure Virtual Network Manager", "networking"},
	{"avm-res-network-networksecuritygroup", "Network Security Group", "networking"},
	{"avm-res-network-networkwatcher", "Azure Network Watcher", "networking"},
	{"avm-res-network-privatednszone", "Private DNS Zone", "networking"},
	{"avm-res-network-privateendpoint", "Private Endpoint", "networking"},
	{"avm-res-network-publicipaddress", "Public IP Address", "networking"},
	{"avm-res-network-publicipprefix", "Public IP Prefix", "networking"},
	{"avm-res-network-routetable", "Route Table", "networking"},
	{"avm-res-network-virtualnetwork", "Virtual Network", "networking"},
	{"avm-res-operationalinsights-workspace", "Log Analytics Workspace", "monitoring"},
	{"avm-res-oracledatabase-cloudexadatainfrastructure", "Oracle Exadata Infrastructure", "database"},
	{"avm-res-oracledatabase-cloudvmcluster", "Oracle VM Cluster", "database"},
	{"avm-res-portal-dashboard", "Azure Portal Dashboard", "management"},
	{"avm-res-recoveryservices-vault", "Recovery Services Vault", "management"},
	{"avm-res-redhatopenshift-openshiftcluster", "OpenShift Cluster", "containers"},
	{"avm-res-relay-namespace", "Relay Namespace", "messaging"},
	{"avm-res-resourcegraph-query", "Resource Graph Query", "management"},
	{"avm-res-resources-resourcegroup", "Resource Group", "management"},
	{"avm-res-search-searchservice", "Search Service", "ai"},
	{"avm-res-servicebus-namespace", "Service Bus Namespace", "messaging"},
	{"avm-res-sql-managedinstance", "SQL Managed Instance", "database"},
	{"avm-res-sql-server", "Azure SQL Server", "database"},
	{"avm-res-storage-storageaccount", "Storage Account", "storage"},
	{"avm-res-web-connection", "API Connection", "web"},
	{"avm-res-web-hostingenvironment", "App Service Environment", "web"},
	{"avm-res-web-serverfarm", "App Service Plan", "web"},
	{"avm-res-web-site", "Web/Function App", "web"},
	{"avm-res-web-staticsite", "Static Web App", "web"},
}

// Published returns the full census, sorted by name.
func Published() []PublishedModule {
	out := make([]PublishedModule, len(publishedModules))
	copy(out, publishedModules)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// PublishedByCategory groups the census by category.
func PublishedByCategory() map[string][]PublishedModule {
	out := make(map[string][]PublishedModule)
	for _, m := range publishedModules {
		out[m.Category] = append(out[m.Category], m)
	}
	return out
}

// publishedIndex maps registry name to its census row.
func publishedIndex() map[string]PublishedModule {
	idx := make(map[string]PublishedModule, len(publishedModules))
	for _, m := range publishedModules {
		idx[m.Name] = m
	}
	return idx
}
