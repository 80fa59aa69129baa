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
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/DriftwoodAI/TerraDraft/services/generator"
)

// WSRequest is one inbound WebSocket frame. Action selects the
// operation; an empty action with a message is a chat turn.
type WSRequest struct {
	Action      string   `json:"action,omitempty"`
	Message     string   `json:"message,omitempty"`
	ProjectName string   `json:"project_name,omitempty"`
	Services    []string `json:"services,omitempty"`
	Location    string   `json:"location,omitempty"`
	Category    string   `json:"category,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1 << 20,
	WriteBufferSize: 1 << 20,
}

func sendJSON(deps Deps, ws *websocket.Conn, v any) error {
	if err := ws.WriteJSON(v); err != nil {
		deps.Log.Warn("websocket write failed", "error", err.Error())
		return err
	}
	return nil
}

// HandleChatWebSocket runs the interactive chat protocol: the server
// assigns a session id on connect, then answers chat turns with
// streamed chunks and serves generate/list_modules actions inline.
func HandleChatWebSocket(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			deps.Log.Error("websocket upgrade failed", "error", err.Error())
			return
		}
		defer ws.Close()

		sessionID := uuid.New().String()
		deps.Log.Info("websocket session started", "session", sessionID)

		if err := sendJSON(deps, ws, gin.H{
			"action":     "session_created",
			"session_id": sessionID,
		}); err != nil {
			return
		}

		for {
			var req WSRequest
			if err := ws.ReadJSON(&req); err != nil {
				deps.Log.Info("websocket client disconnected", "session", sessionID)
				return
			}

			ctx := c.Request.Context()
			switch req.Action {
			case "", "chat":
				if req.Message == "" {
					sendJSON(deps, ws, gin.H{"action": "error", "error": "message is required"})
					continue
				}
				streamChat(ctx, deps, ws, sessionID, req.Message)

			case "generate":
				handleWSGenerate(ctx, deps, ws, req)

			case "list_modules":
				mods := deps.Catalog.All()
				if req.Category != "" {
					mods = deps.Catalog.ByCategory(req.Category)
				}
				sendJSON(deps, ws, gin.H{
					"action":  "modules",
					"modules": summarize(mods),
				})

			default:
				sendJSON(deps, ws, gin.H{
					"action": "error",
					"error":  "unknown action: " + req.Action,
				})
			}
		}
	}
}

// streamChat streams the assistant's answer as chat_chunk frames and
// terminates with chat_done carrying the full text.
func streamChat(ctx context.Context, deps Deps, ws *websocket.Conn, sessionID, message string) {
	if deps.LLM == nil {
		sendJSON(deps, ws, gin.H{"action": "error", "error": "no chat backend configured"})
		return
	}

	messages := buildConversation(ctx, deps, sessionID, message)

	var full []byte
	err := deps.LLM.ChatStream(ctx, messages, func(chunk string) error {
		full = append(full, chunk...)
		return sendJSON(deps, ws, gin.H{"action": "chat_chunk", "content": chunk})
	})
	if err != nil {
		deps.Log.Error("websocket chat stream failed", "session", sessionID, "error", err.Error())
		sendJSON(deps, ws, gin.H{"action": "error", "error": err.Error()})
		return
	}

	answer := string(full)
	persistTurn(ctx, deps, sessionID, message, answer)
	sendJSON(deps, ws, gin.H{
		"action":     "chat_done",
		"answer":     answer,
		"session_id": sessionID,
	})
}

func handleWSGenerate(ctx context.Context, deps Deps, ws *websocket.Conn, req WSRequest) {
	res, err := deps.Generator.Generate(ctx, generator.Request{
		ProjectName: req.ProjectName,
		Services:    req.Services,
		Location:    req.Location,
	})
	if err != nil {
		sendJSON(deps, ws, gin.H{"action": "error", "error": err.Error()})
		return
	}
	sendJSON(deps, ws, gin.H{
		"action":    "generate_result",
		"files":     res.Files,
		"summary":   res.Summary,
		"versions":  res.Versions,
		"not_found": res.NotFound,
	})
}
