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
	"sort"

	"github.com/spf13/cobra"

	"github.com/DriftwoodAI/TerraDraft/pkg/ux"
	"github.com/DriftwoodAI/TerraDraft/pkg/validation"
	"github.com/DriftwoodAI/TerraDraft/services/catalog"
	"github.com/DriftwoodAI/TerraDraft/services/registry"
)

var (
	versionsForce bool

	versionsCmd = &cobra.Command{
		Use:   "versions",
		Short: "Manage the local module version cache",
	}

	versionsRefreshCmd = &cobra.Command{
		Use:   "refresh [source ...]",
		Short: "Resolve current versions for every catalog module",
		Long: `Fetches the latest version of every module in the catalog from the
Terraform Registry and stores the results in the local version cache.
Pass one or more registry source addresses (e.g.
Azure/avm-res-storage-storageaccount/azurerm) to refresh just those.
Use --force to bypass cache freshness and refetch everything.`,
		RunE: runVersionsRefresh,
	}
)

func init() {
	versionsRefreshCmd.Flags().BoolVar(&versionsForce, "force", false, "refetch even fresh cache entries")
	versionsCmd.AddCommand(versionsRefreshCmd)
	rootCmd.AddCommand(versionsCmd)
}

func runVersionsRefresh(cmd *cobra.Command, args []string) error {
	cache := newVersionCache()
	if cache == nil {
		return fmt.Errorf("version cache unavailable")
	}

	var sources []string
	if len(args) > 0 {
		if err := validation.ValidateSourceAddresses(args); err != nil {
			return err
		}
		sources = args
	} else {
		cat := catalog.New(catalog.WithCatalogLogger(appLog))
		sources = cat.Sources()
	}

	spin := ux.NewSpinner(fmt.Sprintf("Refreshing %d module versions", len(sources)))
	spin.Start()
	versions, err := cache.GetVersions(cmd.Context(), sources, registry.BatchOptions{
		ForceRefresh: versionsForce,
	})
	spin.Stop()
	if err != nil {
		return err
	}

	resolved := 0
	keys := make([]string, 0, len(versions))
	for src := range versions {
		keys = append(keys, src)
	}
	sort.Strings(keys)

	for _, src := range keys {
		if v := versions[src]; v != "" {
			resolved++
			fmt.Printf("%s %s %s\n", ux.IconSuccess.Render(), src, ux.Styles.Highlight.Render(v))
		} else {
			fmt.Printf("%s %s %s\n", ux.IconWarning.Render(), src, ux.Styles.Muted.Render("unresolved"))
		}
	}

	if resolved < len(sources) {
		ux.Warning(fmt.Sprintf("resolved %d of %d module versions", resolved, len(sources)))
	} else {
		ux.Success(fmt.Sprintf("resolved all %d module versions", resolved))
	}
	return nil
}
