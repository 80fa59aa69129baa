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
	"runtime/debug"

	"github.com/spf13/cobra"
)

// buildVersion is set via -ldflags at release time.
var buildVersion = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the TerraDraft version",
	Run: func(cmd *cobra.Command, args []string) {
		v := buildVersion
		if v == "dev" {
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
				v = info.Main.Version
			}
		}
		fmt.Printf("terradraft %s\n", v)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
