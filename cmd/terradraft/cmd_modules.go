// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DriftwoodAI/TerraDraft/pkg/ux"
	"github.com/DriftwoodAI/TerraDraft/services/catalog"
	"github.com/DriftwoodAI/TerraDraft/services/registry"
)

var (
	modulesCmd = &cobra.Command{
		Use:   "modules",
		Short: "Browse the Azure Verified Module catalog",
	}

	modulesListCmd = &cobra.Command{
		Use:   "list",
		Short: "List all known modules grouped by category",
		Run: func(cmd *cobra.Command, args []string) {
			cat := catalog.New(catalog.WithCatalogLogger(appLog))
			fmt.Print(cat.RenderList())
		},
	}

	modulesSearchCmd = &cobra.Command{
		Use:   "search [query]",
		Short: "Search modules by name, alias, or description",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cat := catalog.New(catalog.WithCatalogLogger(appLog))
			fmt.Print(cat.RenderSearch(strings.Join(args, " ")))
		},
	}

	modulesInfoCmd = &cobra.Command{
		Use:   "info [name]",
		Short: "Show details, variables, and the current version of a module",
		Args:  cobra.ExactArgs(1),
		RunE:  runModuleInfo,
	}

	modulesCategoriesCmd = &cobra.Command{
		Use:   "categories",
		Short: "List module categories",
		Run: func(cmd *cobra.Command, args []string) {
			cat := catalog.New(catalog.WithCatalogLogger(appLog))
			for _, c := range cat.Categories() {
				fmt.Println(c)
			}
		},
	}

	modulesSyncCmd = &cobra.Command{
		Use:   "sync",
		Short: "Discover new AVM modules from the Terraform Registry",
		RunE:  runModuleSync,
	}
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Discover new AVM modules from the Terraform Registry",
	RunE:  runModuleSync,
}

func init() {
	modulesCmd.AddCommand(modulesListCmd, modulesSearchCmd, modulesInfoCmd, modulesCategoriesCmd, modulesSyncCmd)
	rootCmd.AddCommand(modulesCmd, syncCmd)
}

func runModuleInfo(cmd *cobra.Command, args []string) error {
	cat := catalog.New(catalog.WithCatalogLogger(appLog))

	m, ok := cat.Get(args[0])
	if !ok {
		m, ok = cat.ByService(args[0])
	}
	if !ok {
		return fmt.Errorf("no module matching %q, try 'terradraft modules search %s'", args[0], args[0])
	}

	version := m.FallbackVersion
	if cache := newVersionCache(); cache != nil {
		if v, resolved, _ := cache.GetVersion(cmd.Context(), m.Source, registry.GetOptions{}); resolved {
			version = v
		}
	}

	fmt.Print(cat.RenderModuleInfo(m, version))
	return nil
}

func runModuleSync(cmd *cobra.Command, args []string) error {
	cat := catalog.New(catalog.WithCatalogLogger(appLog))
	d := catalog.NewDiscoverer(catalog.WithDiscoveryLogger(appLog))

	spin := ux.NewSpinner("Discovering AVM modules from the Terraform Registry")
	spin.Start()
	res, err := cat.Sync(cmd.Context(), d)
	spin.Stop()
	if err != nil {
		return err
	}

	ux.Success(fmt.Sprintf("catalog synced: %d added, %d updated, %d total", res.Added, res.Updated, cat.Len()))
	return nil
}
