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
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/DriftwoodAI/TerraDraft/pkg/ux"
	"github.com/DriftwoodAI/TerraDraft/services/catalog"
	"github.com/DriftwoodAI/TerraDraft/services/llm"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the Terraform assistant",
	Long: `Starts an interactive chat session with the TerraDraft assistant.
The assistant knows the Azure Verified Module catalog and answers
questions about module selection, variables, and Terraform patterns.

Requires an OpenAI-compatible backend: set OPENAI_API_KEY, or point
TERRADRAFT_LLM_ENDPOINT at a local server such as Ollama.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	client, err := llm.NewOpenAIClient(llm.OpenAIConfig{
		APIKey:  appConfig.LLM.APIKey,
		BaseURL: appConfig.LLM.Endpoint,
		Model:   appConfig.LLM.Model,
		Logger:  appLog,
	})
	if err != nil {
		return fmt.Errorf("no chat backend: %w", err)
	}

	cat := catalog.New(catalog.WithCatalogLogger(appLog))
	messages := []llm.Message{llm.SystemPrompt(cat)}

	interactive := isatty.IsTerminal(os.Stdin.Fd())
	reader := ux.NewPromptReader(os.Stdin, interactive)

	if interactive {
		ux.Title("TerraDraft assistant")
		ux.Muted("Ask about Azure Verified Modules. Type 'exit' to quit.")
		fmt.Println()
	}

	for {
		line, err := reader.ReadLine("you> ")
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}
		if ux.IsExit(line) {
			return nil
		}

		messages = append(messages, llm.Message{Role: llm.RoleUser, Content: line})

		answer, err := streamAnswer(cmd.Context(), client, messages)
		if err != nil {
			ux.Error(err.Error())
			// Drop the failed turn so a retry does not double it.
			messages = messages[:len(messages)-1]
			continue
		}
		messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: answer})
	}
}

func streamAnswer(ctx context.Context, client llm.Client, messages []llm.Message) (string, error) {
	var full []byte
	err := client.ChatStream(ctx, messages, func(chunk string) error {
		full = append(full, chunk...)
		fmt.Print(chunk)
		return nil
	})
	fmt.Println()
	return string(full), err
}
