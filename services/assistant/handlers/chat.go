// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"

	"github.com/DriftwoodAI/TerraDraft/services/llm"
	"github.com/DriftwoodAI/TerraDraft/services/session"
)

// ChatRequest is one user turn. SessionID is optional; omitting it
// starts a new conversation.
type ChatRequest struct {
	SessionID string `json:"session_id" validate:"omitempty,uuid4"`
	Message   string `json:"message" validate:"required,max=32768"`
}

// Validate checks the request against its validation tags.
func (r *ChatRequest) Validate() error {
	return validate.Struct(r)
}

// HandleChat answers a single chat turn, persisting the exchange in the
// session store when one is configured.
func HandleChat(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "HandleChat")
		defer span.End()

		var req ChatRequest
		if err := c.BindJSON(&req); err != nil {
			span.SetStatus(codes.Error, err.Error())
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if deps.LLM == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no chat backend configured"})
			return
		}

		if req.SessionID == "" {
			req.SessionID = uuid.New().String()
		}

		messages := buildConversation(ctx, deps, req.SessionID, req.Message)

		answer, err := deps.LLM.Chat(ctx, messages)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			deps.Log.Error("chat completion failed", "session", req.SessionID, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		persistTurn(ctx, deps, req.SessionID, req.Message, answer)
		c.JSON(http.StatusOK, gin.H{"answer": answer, "session_id": req.SessionID})
	}
}

// buildConversation assembles the system prompt, stored history, and
// the new user message.
func buildConversation(ctx context.Context, deps Deps, sessionID, userMsg string) []llm.Message {
	messages := []llm.Message{llm.SystemPrompt(deps.Catalog)}

	if deps.Sessions != nil {
		sess, err := deps.Sessions.Get(ctx, sessionID)
		if err != nil && !errors.Is(err, session.ErrNotFound) {
			deps.Log.Warn("loading session history failed", "session", sessionID, "error", err.Error())
		}
		for _, m := range sess.Messages {
			messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
		}
	}

	return append(messages, llm.Message{Role: llm.RoleUser, Content: userMsg})
}

func persistTurn(ctx context.Context, deps Deps, sessionID, userMsg, answer string) {
	if deps.Sessions == nil {
		return
	}
	for _, m := range []session.Message{
		{Role: llm.RoleUser, Content: userMsg},
		{Role: llm.RoleAssistant, Content: answer},
	} {
		if err := deps.Sessions.Append(ctx, sessionID, m); err != nil {
			deps.Log.Warn("persisting chat turn failed", "session", sessionID, "error", err.Error())
			return
		}
	}
}
