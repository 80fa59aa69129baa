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
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"

	"github.com/DriftwoodAI/TerraDraft/services/registry"
)

// RefreshRequest controls a bulk version refresh.
type RefreshRequest struct {
	Force bool `json:"force"`
}

// HandleRefreshVersions refreshes cached versions for every catalog
// source. Per-module registry failures are tolerated; those sources
// simply come back unresolved.
func HandleRefreshVersions(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "HandleRefreshVersions")
		defer span.End()

		if deps.Cache == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "version cache not configured"})
			return
		}

		var req RefreshRequest
		if c.Request.ContentLength > 0 {
			if err := c.BindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
				return
			}
		}

		sources := deps.Catalog.Sources()
		versions, err := deps.Cache.GetVersions(ctx, sources, registry.BatchOptions{
			ForceRefresh: req.Force,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			deps.Log.Error("version refresh failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		resolved := 0
		for _, v := range versions {
			if v != "" {
				resolved++
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"versions": versions,
			"resolved": resolved,
			"total":    len(sources),
		})
	}
}
