// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package main is the TerraDraft CLI: generate Azure Verified Module
// Terraform projects, browse the module catalog, and chat with the
// assistant from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DriftwoodAI/TerraDraft/pkg/logging"
	"github.com/DriftwoodAI/TerraDraft/pkg/ux"
	"github.com/DriftwoodAI/TerraDraft/services/assistant/config"
	"github.com/DriftwoodAI/TerraDraft/services/catalog"
	"github.com/DriftwoodAI/TerraDraft/services/generator"
	"github.com/DriftwoodAI/TerraDraft/services/registry"
)

var (
	cfgPath   string
	plainOut  bool
	appConfig config.Config
	appLog    *logging.Logger

	rootCmd = &cobra.Command{
		Use:   "terradraft",
		Short: "A CLI for generating Azure Terraform projects from Azure Verified Modules",
		Long: `TerraDraft scaffolds production-ready Terraform for Azure using
Azure Verified Modules (AVM), with module versions resolved live from
the Terraform Registry and cached locally.`,
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default $TERRADRAFT_CONFIG, then built-in defaults)")
	rootCmd.PersistentFlags().BoolVar(&plainOut, "plain", false, "disable styled output")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if plainOut {
			ux.SetPlain(true)
		}

		path := cfgPath
		if path == "" {
			path = os.Getenv("TERRADRAFT_CONFIG")
		}

		var err error
		appConfig, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		appLog = logging.New(logging.Config{
			Level:   logging.ParseLevel(appConfig.Log.Level),
			LogDir:  appConfig.Log.Dir,
			Service: "terradraft-cli",
		})
		return nil
	}
}

// newVersionCache builds the registry client and file-backed version
// cache from the loaded config. A broken cache directory degrades to
// nil; every caller falls back to pinned versions.
func newVersionCache() *registry.Cache {
	path := appConfig.Registry.CachePath
	if path == "" {
		var err error
		path, err = registry.DefaultCachePath()
		if err != nil {
			appLog.Warn("no usable cache location, version pinning disabled", "error", err.Error())
			return nil
		}
	}

	store, err := registry.NewStore(path)
	if err != nil {
		appLog.Warn("opening version cache failed, version pinning disabled",
			"path", path, "error", err.Error())
		return nil
	}

	var clientOpts []registry.ClientOption
	if appConfig.Registry.BaseURL != "" {
		clientOpts = append(clientOpts, registry.WithBaseURL(appConfig.Registry.BaseURL))
	}
	client := registry.NewAPIClient(clientOpts...)

	return registry.NewCache(store, client,
		registry.WithTTL(appConfig.TTL()),
		registry.WithLogger(appLog),
	)
}

func newGenerator(cat *catalog.Catalog, cache *registry.Cache) *generator.Generator {
	return generator.New(cat, cache, generator.WithGeneratorLogger(appLog))
}
