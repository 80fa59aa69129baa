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
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/DriftwoodAI/TerraDraft/services/catalog"
	"github.com/DriftwoodAI/TerraDraft/services/llm"
)

// maxDiagramBytes caps uploaded diagram size. Vision models reject
// oversized images anyway; failing early keeps the error actionable.
const maxDiagramBytes = 10 << 20

// HandleAnalyzeDiagram analyzes an uploaded architecture diagram,
// identifying Azure services and mapping them to catalog modules. The
// image arrives as multipart form data in the "file" field.
func HandleAnalyzeDiagram(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "HandleAnalyzeDiagram")
		defer span.End()

		vision, ok := deps.LLM.(llm.Vision)
		if !ok {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no vision-capable chat backend configured"})
			return
		}

		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": `a diagram image is required in the "file" form field`})
			return
		}
		mediaType, err := llm.MediaTypeForFile(file.Filename)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if file.Size > maxDiagramBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "diagram exceeds the 10 MiB size limit"})
			return
		}
		span.SetAttributes(
			attribute.String("diagram.media_type", mediaType),
			attribute.Int64("diagram.bytes", file.Size),
		)

		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "reading uploaded diagram: " + err.Error()})
			return
		}
		defer src.Close()
		image, err := io.ReadAll(io.LimitReader(src, maxDiagramBytes))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "reading uploaded diagram: " + err.Error()})
			return
		}

		analysis, err := llm.AnalyzeDiagram(ctx, vision, image, mediaType)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			deps.Log.Error("diagram analysis failed", "file", file.Filename, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		matched, unmatched := matchServices(deps, analysis.ServiceTypes())
		deps.Log.Info("diagram analyzed",
			"file", file.Filename, "components", len(analysis.Components), "modules", len(matched))

		c.JSON(http.StatusOK, gin.H{
			"analysis":  analysis,
			"modules":   matched,
			"unmatched": unmatched,
			"count":     len(matched),
		})
	}
}

// matchServices maps identified service types to catalog modules,
// deduplicated by module key.
func matchServices(deps Deps, serviceTypes []string) ([]moduleSummary, []string) {
	var modules []catalog.Module
	unmatched := make([]string, 0)
	seen := make(map[string]bool, len(serviceTypes))

	for _, st := range serviceTypes {
		m, ok := deps.Catalog.ByService(st)
		if !ok {
			unmatched = append(unmatched, st)
			continue
		}
		if !seen[m.Key] {
			seen[m.Key] = true
			modules = append(modules, m)
		}
	}
	return summarize(modules), unmatched
}
