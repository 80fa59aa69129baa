// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// visionLLM is an echoLLM that can also see, answering every diagram
// with a fixed analysis.
type visionLLM struct {
	echoLLM
	analysis  string
	mediaType string
}

func (v *visionLLM) ChatVision(_ context.Context, _ string, _ []byte, mediaType string) (string, error) {
	v.mediaType = mediaType
	return v.analysis, nil
}

func postDiagram(t *testing.T, router *gin.Engine, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	router.ServeHTTP(w, req)
	return w
}

func TestAnalyzeDiagram(t *testing.T) {
	deps := testDeps(t)
	deps.LLM = &visionLLM{analysis: `{
		"description": "VM with blob storage",
		"components": [
			{"name": "App VM", "service_type": "virtual_machine"},
			{"name": "Blob", "service_type": "storage_account"},
			{"name": "Legacy", "service_type": "mainframe"}
		]
	}`}
	router := gin.New()
	router.POST("/api/analyze", HandleAnalyzeDiagram(deps))

	w := postDiagram(t, router, "architecture.png", []byte{0x89, 'P', 'N', 'G'})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Analysis struct {
			Description string `json:"description"`
		} `json:"analysis"`
		Modules   []moduleSummary `json:"modules"`
		Unmatched []string        `json:"unmatched"`
		Count     int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "VM with blob storage", resp.Analysis.Description)
	assert.Equal(t, 2, resp.Count)
	keys := make([]string, 0, len(resp.Modules))
	for _, m := range resp.Modules {
		keys = append(keys, m.Key)
	}
	assert.ElementsMatch(t, []string{"virtual_machine", "storage_account"}, keys)
	assert.Equal(t, []string{"mainframe"}, resp.Unmatched)

	assert.Equal(t, "image/png", deps.LLM.(*visionLLM).mediaType)
}

func TestAnalyzeDiagramTextOnlyBackend(t *testing.T) {
	deps := testDeps(t) // echoLLM cannot see
	router := gin.New()
	router.POST("/api/analyze", HandleAnalyzeDiagram(deps))

	w := postDiagram(t, router, "architecture.png", []byte("img"))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAnalyzeDiagramNoBackend(t *testing.T) {
	deps := testDeps(t)
	deps.LLM = nil
	router := gin.New()
	router.POST("/api/analyze", HandleAnalyzeDiagram(deps))

	w := postDiagram(t, router, "architecture.png", []byte("img"))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAnalyzeDiagramRejectsUnsupportedFormat(t *testing.T) {
	deps := testDeps(t)
	deps.LLM = &visionLLM{analysis: "{}"}
	router := gin.New()
	router.POST("/api/analyze", HandleAnalyzeDiagram(deps))

	w := postDiagram(t, router, "diagram.bmp", []byte("img"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported diagram format")
}

func TestAnalyzeDiagramRequiresFile(t *testing.T) {
	deps := testDeps(t)
	deps.LLM = &visionLLM{analysis: "{}"}
	router := gin.New()
	router.POST("/api/analyze", HandleAnalyzeDiagram(deps))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/analyze", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeDiagramUnstructuredAnswer(t *testing.T) {
	deps := testDeps(t)
	deps.LLM = &visionLLM{analysis: "I see two virtual machines behind a load balancer."}
	router := gin.New()
	router.POST("/api/analyze", HandleAnalyzeDiagram(deps))

	w := postDiagram(t, router, "sketch.jpg", []byte("img"))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Analysis struct {
			Description string `json:"description"`
			RawAnalysis string `json:"raw_analysis"`
		} `json:"analysis"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Could not parse structured response", resp.Analysis.Description)
	assert.Contains(t, resp.Analysis.RawAnalysis, "load balancer")
	assert.Zero(t, resp.Count)
}
