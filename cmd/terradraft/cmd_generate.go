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
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/DriftwoodAI/TerraDraft/pkg/ux"
	"github.com/DriftwoodAI/TerraDraft/services/catalog"
	"github.com/DriftwoodAI/TerraDraft/services/generator"
	"github.com/DriftwoodAI/TerraDraft/services/llm"
)

var (
	genProject   string
	genServices  []string
	genDiagram   string
	genLocation  string
	genRGName    string
	genOutDir    string
	genOverwrite bool
	genDryRun    bool

	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate a Terraform project from Azure Verified Modules",
		Long: `Generates providers.tf, variables.tf, main.tf, outputs.tf and
supporting files for the requested Azure services. Module versions are
resolved from the Terraform Registry and pinned with pessimistic
constraints; when the registry is unreachable, known-good versions are
used instead.

Run without flags in a terminal for an interactive form.`,
		RunE: runGenerate,
	}
)

func init() {
	generateCmd.Flags().StringVarP(&genProject, "project", "p", "", "project name (e.g. my-web-app)")
	generateCmd.Flags().StringSliceVarP(&genServices, "services", "s", nil, "Azure services to include (e.g. vm,aks,storage)")
	generateCmd.Flags().StringVarP(&genDiagram, "diagram", "d", "", "architecture diagram image to derive services from")
	generateCmd.Flags().StringVarP(&genLocation, "location", "l", "", "Azure region (default eastus)")
	generateCmd.Flags().StringVar(&genRGName, "resource-group", "", "resource group name (default rg-<project>)")
	generateCmd.Flags().StringVarP(&genOutDir, "out", "o", ".", "output directory")
	generateCmd.Flags().BoolVar(&genOverwrite, "force", false, "overwrite existing files")
	generateCmd.Flags().BoolVar(&genDryRun, "dry-run", false, "print generated files instead of writing them")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cat := catalog.New(catalog.WithCatalogLogger(appLog))

	if genDiagram != "" && len(genServices) > 0 {
		ux.Warning("both --services and --diagram provided, using --services")
		genDiagram = ""
	}

	if genProject == "" || (len(genServices) == 0 && genDiagram == "") {
		if !isatty.IsTerminal(os.Stdin.Fd()) {
			return fmt.Errorf("--project and either --services or --diagram are required in non-interactive mode")
		}
		if err := promptGenerateForm(cat); err != nil {
			return err
		}
	}

	if len(genServices) == 0 && genDiagram != "" {
		services, err := diagramServices(cmd.Context())
		if err != nil {
			return err
		}
		genServices = services
	}

	cache := newVersionCache()
	gen := newGenerator(cat, cache)

	spin := ux.NewSpinner("Resolving module versions from the Terraform Registry")
	spin.Start()
	res, err := gen.Generate(cmd.Context(), generator.Request{
		ProjectName:       genProject,
		Services:          genServices,
		Location:          genLocation,
		ResourceGroupName: genRGName,
	})
	spin.Stop()
	if err != nil {
		return err
	}

	for _, svc := range res.NotFound {
		ux.Warning(fmt.Sprintf("no Azure Verified Module found for %q, skipped", svc))
	}
	if len(res.Modules) == 0 {
		return fmt.Errorf("nothing to generate: no Azure Verified Modules matched the requested services")
	}

	if genDryRun {
		for _, f := range res.Files {
			ux.Title("# " + f.Name)
			fmt.Println(f.Content)
		}
		return nil
	}

	written, err := generator.WriteFiles(genOutDir, res, genOverwrite)
	if err != nil {
		return err
	}
	for _, path := range written {
		ux.Success("wrote " + path)
	}
	if skipped := len(res.Files) - len(written); skipped > 0 {
		ux.Warning(fmt.Sprintf("%d file(s) already exist, use --force to overwrite", skipped))
	}

	fmt.Println()
	ux.Box(res.Summary)
	return nil
}

// diagramServices analyzes the architecture diagram named by --diagram
// and returns the identified Azure service types.
func diagramServices(ctx context.Context) ([]string, error) {
	image, err := os.ReadFile(genDiagram)
	if err != nil {
		return nil, fmt.Errorf("reading diagram: %w", err)
	}
	mediaType, err := llm.MediaTypeForFile(genDiagram)
	if err != nil {
		return nil, err
	}

	client, err := llm.NewOpenAIClient(llm.OpenAIConfig{
		APIKey:  appConfig.LLM.APIKey,
		BaseURL: appConfig.LLM.Endpoint,
		Model:   appConfig.LLM.Model,
		Logger:  appLog,
	})
	if err != nil {
		return nil, fmt.Errorf("diagram analysis needs a vision-capable backend: %w", err)
	}

	spin := ux.NewSpinner("Analyzing architecture diagram")
	spin.Start()
	analysis, err := llm.AnalyzeDiagram(ctx, client, image, mediaType)
	spin.Stop()
	if err != nil {
		return nil, err
	}

	if analysis.Description != "" {
		ux.Info(analysis.Description)
	}
	services := analysis.ServiceTypes()
	if len(services) == 0 {
		return nil, fmt.Errorf("no Azure services identified in %s", genDiagram)
	}
	ux.Success(fmt.Sprintf("identified %d service(s): %s", len(services), strings.Join(services, ", ")))
	return services, nil
}

// promptGenerateForm fills the missing generate inputs interactively.
func promptGenerateForm(cat *catalog.Catalog) error {
	options := make([]huh.Option[string], 0, cat.Len())
	for _, m := range cat.All() {
		label := fmt.Sprintf("%s — %s", m.Key, m.Description)
		options = append(options, huh.NewOption(label, m.Key))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Placeholder("my-web-app").
				Value(&genProject).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("project name is required")
					}
					return nil
				}),
			huh.NewMultiSelect[string]().
				Title("Azure services").
				Options(options...).
				Value(&genServices).
				Validate(func(sel []string) error {
					if len(sel) == 0 {
						return fmt.Errorf("pick at least one service")
					}
					return nil
				}),
			huh.NewInput().
				Title("Azure region").
				Placeholder("eastus").
				Value(&genLocation),
		),
	)
	return form.Run()
}
