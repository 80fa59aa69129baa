// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DriftwoodAI/TerraDraft/services/catalog"
)

func TestNewOpenAIClientRequiresKeyOrEndpoint(t *testing.T) {
	_, err := NewOpenAIClient(OpenAIConfig{})
	assert.Error(t, err)

	c, err := NewOpenAIClient(OpenAIConfig{BaseURL: "http://localhost:11434"})
	require.NoError(t, err)
	assert.NotNil(t, c)

	c, err = NewOpenAIClient(OpenAIConfig{APIKey: "sk-test"})
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func completionServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if req.Stream {
			w.Header().Set("Content-Type", "text/event-stream")
			flusher := w.(http.Flusher)
			for _, chunk := range []string{"module ", `"vm" `, "{}"} {
				resp := openai.ChatCompletionStreamResponse{
					Choices: []openai.ChatCompletionStreamChoice{
						{Delta: openai.ChatCompletionStreamChoiceDelta{Content: chunk}},
					},
				}
				data, err := json.Marshal(resp)
				require.NoError(t, err)
				fmt.Fprintf(w, "data: %s\n\n", data)
				flusher.Flush()
			}
			fmt.Fprint(w, "data: [DONE]\n\n")
			return
		}

		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: "Here is your Terraform plan.",
				}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestChat(t *testing.T) {
	srv := completionServer(t)
	c, err := NewOpenAIClient(OpenAIConfig{BaseURL: srv.URL, Model: "test-model"})
	require.NoError(t, err)

	out, err := c.Chat(context.Background(), []Message{
		{Role: RoleUser, Content: "I need a VM"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Here is your Terraform plan.", out)
}

func TestChatStream(t *testing.T) {
	srv := completionServer(t)
	c, err := NewOpenAIClient(OpenAIConfig{BaseURL: srv.URL, Model: "test-model"})
	require.NoError(t, err)

	var chunks []string
	err = c.ChatStream(context.Background(), []Message{
		{Role: RoleUser, Content: "I need a VM"},
	}, func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, `module "vm" {}`, strings.Join(chunks, ""))
}

func TestChatStreamCallbackAborts(t *testing.T) {
	srv := completionServer(t)
	c, err := NewOpenAIClient(OpenAIConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	abort := fmt.Errorf("client went away")
	err = c.ChatStream(context.Background(), []Message{
		{Role: RoleUser, Content: "hi"},
	}, func(string) error {
		return abort
	})
	assert.ErrorIs(t, err, abort)
}

func TestSystemPromptCarriesCatalog(t *testing.T) {
	prompt := SystemPrompt(catalog.New())

	assert.Equal(t, RoleSystem, prompt.Role)
	assert.Contains(t, prompt.Content, "Azure Verified Modules")
	assert.Contains(t, prompt.Content, "virtual_machine")
	assert.Contains(t, prompt.Content, "networking:")
	assert.Contains(t, prompt.Content, "~> MAJOR.MINOR")
}
