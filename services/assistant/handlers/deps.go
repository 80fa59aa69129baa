// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers implements the assistant's HTTP and WebSocket
// endpoints. Handlers are factories taking their dependencies
// explicitly and returning gin.HandlerFunc.
package handlers

import (
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"

	"github.com/DriftwoodAI/TerraDraft/pkg/logging"
	"github.com/DriftwoodAI/TerraDraft/services/catalog"
	"github.com/DriftwoodAI/TerraDraft/services/generator"
	"github.com/DriftwoodAI/TerraDraft/services/llm"
	"github.com/DriftwoodAI/TerraDraft/services/registry"
	"github.com/DriftwoodAI/TerraDraft/services/session"
)

var tracer = otel.Tracer("terradraft.assistant.handlers")

var validate = validator.New()

// Deps bundles the services the handlers operate on. LLM and Sessions
// may be nil; the affected endpoints degrade gracefully.
type Deps struct {
	Catalog   *catalog.Catalog
	Cache     *registry.Cache
	Generator *generator.Generator
	LLM       llm.Client
	Sessions  *session.Store
	Log       *logging.Logger
}
