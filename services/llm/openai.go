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
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/DriftwoodAI/TerraDraft/pkg/logging"
)

var tracer = otel.Tracer("terradraft.llm")

const defaultModel = "gpt-4o-mini"

// OpenAIConfig configures the chat client. BaseURL may point at any
// OpenAI-compatible endpoint; leave it empty for api.openai.com.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Logger      *logging.Logger
}

// OpenAIClient implements Client over the OpenAI chat-completions API.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	log         *logging.Logger
}

var (
	_ Client = (*OpenAIClient)(nil)
	_ Vision = (*OpenAIClient)(nil)
)

// NewOpenAIClient builds a chat client. An API key is required unless
// BaseURL points at a local server.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, errors.New("an API key is required when no custom endpoint is configured")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/") + "/v1"
		if strings.HasSuffix(cfg.BaseURL, "/v1") {
			clientCfg.BaseURL = cfg.BaseURL
		}
	}

	cfg.Logger.Info("initializing chat client", "model", cfg.Model, "endpoint", clientCfg.BaseURL)
	return &OpenAIClient{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		log:         cfg.Logger,
	}, nil
}

func (c *OpenAIClient) request(messages []Message) openai.ChatCompletionRequest {
	msgs := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		msgs[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: msgs,
	}
	if c.temperature > 0 {
		req.Temperature = c.temperature
	}
	if c.maxTokens > 0 {
		req.MaxCompletionTokens = c.maxTokens
	}
	return req
}

// Chat implements Client.
func (c *OpenAIClient) Chat(ctx context.Context, messages []Message) (string, error) {
	ctx, span := tracer.Start(ctx, "OpenAIClient.Chat")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", c.model))

	resp, err := c.client.CreateChatCompletion(ctx, c.request(messages))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.log.Error("chat completion failed", "error", err.Error())
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// ChatVision implements Vision. The image is inlined as a base64 data
// URL, so it works against any OpenAI-compatible endpoint without the
// model needing network access to fetch the picture.
func (c *OpenAIClient) ChatVision(ctx context.Context, prompt string, image []byte, mediaType string) (string, error) {
	ctx, span := tracer.Start(ctx, "OpenAIClient.ChatVision")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", c.model),
		attribute.Int("llm.image_bytes", len(image)),
	)

	dataURL := "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(image)
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: prompt},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{
					URL:    dataURL,
					Detail: openai.ImageURLDetailAuto,
				}},
			},
		}},
	}
	if c.temperature > 0 {
		req.Temperature = c.temperature
	}
	if c.maxTokens > 0 {
		req.MaxCompletionTokens = c.maxTokens
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.log.Error("vision completion failed", "error", err.Error())
		return "", fmt.Errorf("vision completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("vision completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// ChatStream implements Client.
func (c *OpenAIClient) ChatStream(ctx context.Context, messages []Message, fn func(chunk string) error) error {
	ctx, span := tracer.Start(ctx, "OpenAIClient.ChatStream")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", c.model))

	req := c.request(messages)
	req.Stream = true

	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("opening chat stream: %w", err)
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("reading chat stream: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if chunk := resp.Choices[0].Delta.Content; chunk != "" {
			if err := fn(chunk); err != nil {
				return err
			}
		}
	}
}
