// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package llm is the model boundary for the assistant. It speaks the
// OpenAI chat-completions protocol, which covers hosted OpenAI as well
// as local OpenAI-compatible servers (Ollama, llama.cpp, vLLM).
package llm

import "context"

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client defines the interface for any chat backend.
type Client interface {
	// Chat returns the full completion for a conversation.
	Chat(ctx context.Context, messages []Message) (string, error)

	// ChatStream streams the completion, invoking fn for each content
	// chunk. A non-nil error from fn aborts the stream.
	ChatStream(ctx context.Context, messages []Message, fn func(chunk string) error) error
}

// Vision is implemented by backends that accept an image alongside a
// text prompt. Callers should type-assert a Client to Vision and
// degrade gracefully when the backend cannot see.
type Vision interface {
	// ChatVision returns the completion for a single-turn prompt
	// about the given image. mediaType is the image MIME type,
	// e.g. "image/png".
	ChatVision(ctx context.Context, prompt string, image []byte, mediaType string) (string, error)
}
