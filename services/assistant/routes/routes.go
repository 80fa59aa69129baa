// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DriftwoodAI/TerraDraft/services/assistant/handlers"
)

// SetupRoutes mounts all assistant endpoints on the router.
func SetupRoutes(router *gin.Engine, deps handlers.Deps) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck(deps))
		api.POST("/chat", handlers.HandleChat(deps))
		api.POST("/generate", handlers.HandleGenerate(deps))
		api.POST("/analyze", handlers.HandleAnalyzeDiagram(deps))
		api.GET("/modules", handlers.HandleListModules(deps))
		api.GET("/modules/:name", handlers.HandleModuleInfo(deps))
		api.GET("/categories", handlers.HandleListCategories(deps))
		api.POST("/versions/refresh", handlers.HandleRefreshVersions(deps))
		api.GET("/ws/chat", handlers.HandleChatWebSocket(deps))
	}
}
