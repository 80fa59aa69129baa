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

	"github.com/DriftwoodAI/TerraDraft/services/catalog"
	"github.com/DriftwoodAI/TerraDraft/services/registry"
)

// moduleSummary is the list-view projection of a catalog module.
type moduleSummary struct {
	Key             string `json:"key"`
	Source          string `json:"source"`
	Category        string `json:"category"`
	Description     string `json:"description"`
	FallbackVersion string `json:"fallback_version"`
}

func summarize(mods []catalog.Module) []moduleSummary {
	out := make([]moduleSummary, len(mods))
	for i, m := range mods {
		out[i] = moduleSummary{
			Key:             m.Key,
			Source:          m.Source,
			Category:        m.Category,
			Description:     m.Description,
			FallbackVersion: m.FallbackVersion,
		}
	}
	return out
}

// HandleListModules lists catalog modules, optionally filtered by
// ?category= or searched with ?q=.
func HandleListModules(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var mods []catalog.Module
		switch {
		case c.Query("q") != "":
			mods = deps.Catalog.Search(c.Query("q"))
		case c.Query("category") != "":
			mods = deps.Catalog.ByCategory(c.Query("category"))
		default:
			mods = deps.Catalog.All()
		}
		c.JSON(http.StatusOK, gin.H{
			"modules": summarize(mods),
			"count":   len(mods),
		})
	}
}

// HandleModuleInfo returns full detail for one module, with its version
// resolved through the cache (falling back to the pinned version).
func HandleModuleInfo(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "HandleModuleInfo")
		defer span.End()

		name := c.Param("name")
		m, ok := deps.Catalog.Get(name)
		if !ok {
			m, ok = deps.Catalog.ByService(name)
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown module: " + name})
			return
		}

		version := m.FallbackVersion
		if deps.Cache != nil {
			if v, ok, _ := deps.Cache.GetVersion(ctx, m.Source, registry.GetOptions{}); ok {
				version = v
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"module":  m,
			"version": version,
		})
	}
}

// HandleListCategories returns the category index.
func HandleListCategories(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		cats := deps.Catalog.Categories()
		byCat := make(map[string]int, len(cats))
		for _, cat := range cats {
			byCat[cat] = len(deps.Catalog.ByCategory(cat))
		}
		c.JSON(http.StatusOK, gin.H{"categories": cats, "counts": byCat})
	}
}
