// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func testClient(ts *httptest.Server, opts ...ClientOption) *APIClient {
	base := []ClientOption{
		WithBaseURL(ts.URL),
		WithHTTPClient(ts.Client()),
		WithRateLimit(rate.Inf, 1),
	}
	return NewAPIClient(append(base, opts...)...)
}

func TestParseSource(t *testing.T) {
	src, err := ParseSource("Azure/avm-res-compute-virtualmachine/azurerm")
	require.NoError(t, err)
	assert.Equal(t, "Azure", src.Namespace)
	assert.Equal(t, "avm-res-compute-virtualmachine", src.Name)
	assert.Equal(t, "azurerm", src.Provider)
	assert.Equal(t, "Azure/avm-res-compute-virtualmachine/azurerm", src.String())

	_, err = ParseSource("not-a-module")
	assert.Error(t, err)
	_, err = ParseSource("too/many/parts/here")
	assert.Error(t, err)
}

func TestModuleVersionSuccess(t *testing.T) {
	var path atomic.Value
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"Azure/avm-res-compute-virtualmachine/azurerm/0.19.2","version":"0.19.2"}`))
	}))
	defer ts.Close()

	client := testClient(ts)
	src := ModuleSource{Namespace: "Azure", Name: "avm-res-compute-virtualmachine", Provider: "azurerm"}

	version, err := client.ModuleVersion(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "0.19.2", version)
	assert.Equal(t, "/v1/modules/Azure/avm-res-compute-virtualmachine/azurerm", path.Load())
}

func TestModuleVersionNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":["Not Found"]}`, http.StatusNotFound)
	}))
	defer ts.Close()

	client := testClient(ts)
	_, err := client.ModuleVersion(context.Background(), ModuleSource{Namespace: "no", Name: "such", Provider: "module"})
	require.Error(t, err)
	assert.True(t, IsNotFound(err), "404 should map to ErrNotFound, got %v", err)
}

func TestModuleVersionTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{"version":"1.0.0"}`))
	}))
	defer ts.Close()

	client := testClient(ts, WithRequestTimeout(50*time.Millisecond))
	_, err := client.ModuleVersion(context.Background(), ModuleSource{Namespace: "a", Name: "b", Provider: "c"})
	require.Error(t, err)
	assert.True(t, IsTimeout(err), "deadline overrun should map to TimeoutError, got %v", err)
}

func TestModuleVersionServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := testClient(ts)
	_, err := client.ModuleVersion(context.Background(), ModuleSource{Namespace: "a", Name: "b", Provider: "c"})
	require.Error(t, err)

	var te *TransportError
	assert.ErrorAs(t, err, &te)
}

func TestModuleVersionMalformed(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>definitely not json</html>`))
		}))
		defer ts.Close()

		client := testClient(ts)
		_, err := client.ModuleVersion(context.Background(), ModuleSource{Namespace: "a", Name: "b", Provider: "c"})
		var me *MalformedResponseError
		assert.ErrorAs(t, err, &me)
	})

	t.Run("missing version field", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id":"a/b/c"}`))
		}))
		defer ts.Close()

		client := testClient(ts)
		_, err := client.ModuleVersion(context.Background(), ModuleSource{Namespace: "a", Name: "b", Provider: "c"})
		var me *MalformedResponseError
		assert.ErrorAs(t, err, &me)
	})
}

func TestModuleVersionSingleAttempt(t *testing.T) {
	var calls atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := testClient(ts)
	_, err := client.ModuleVersion(context.Background(), ModuleSource{Namespace: "a", Name: "b", Provider: "c"})
	require.Error(t, err)
	assert.Equal(t, int64(1), calls.Load(), "client must not retry")
}
