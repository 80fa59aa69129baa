// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/DriftwoodAI/TerraDraft/pkg/logging"
	"github.com/DriftwoodAI/TerraDraft/services/assistant/config"
	"github.com/DriftwoodAI/TerraDraft/services/assistant/handlers"
	"github.com/DriftwoodAI/TerraDraft/services/assistant/routes"
	"github.com/DriftwoodAI/TerraDraft/services/catalog"
	"github.com/DriftwoodAI/TerraDraft/services/generator"
	"github.com/DriftwoodAI/TerraDraft/services/llm"
	"github.com/DriftwoodAI/TerraDraft/services/registry"
	"github.com/DriftwoodAI/TerraDraft/services/session"
)

func initTracer(ctx context.Context, endpoint string) (func(context.Context), error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure())
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("terradraft-assistant")))
	if err != nil {
		return nil, err
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(exporter)))
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.Printf("failed to shut down tracer provider: %v", err)
		}
	}, nil
}

func main() {
	cfgPath := os.Getenv("TERRADRAFT_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.Log.Level),
		LogDir:  cfg.Log.Dir,
		Service: "terradraft-assistant",
		JSON:    true,
	})
	defer logger.Close()

	if cfg.OTLPEndpoint != "" {
		cleanup, err := initTracer(context.Background(), cfg.OTLPEndpoint)
		if err != nil {
			log.Fatalf("setting up OTLP tracer: %v", err)
		}
		defer cleanup(context.Background())
	}

	cachePath := cfg.Registry.CachePath
	if cachePath == "" {
		cachePath, err = registry.DefaultCachePath()
		if err != nil {
			log.Fatalf("resolving cache path: %v", err)
		}
	}
	store, err := registry.NewStore(cachePath, registry.WithStoreLogger(logger))
	if err != nil {
		log.Fatalf("opening version store: %v", err)
	}

	clientOpts := []registry.ClientOption{registry.WithClientLogger(logger)}
	if cfg.Registry.BaseURL != "" {
		clientOpts = append(clientOpts, registry.WithBaseURL(cfg.Registry.BaseURL))
	}
	cache := registry.NewCache(store, registry.NewAPIClient(clientOpts...),
		registry.WithTTL(cfg.TTL()), registry.WithLogger(logger))

	cat := catalog.New(catalog.WithCatalogLogger(logger))
	gen := generator.New(cat, cache, generator.WithGeneratorLogger(logger))

	// Hot reload for the settings that are safe to change on a running
	// service: log verbosity and the version cache freshness window.
	if cfgPath != "" {
		watchStop := make(chan struct{})
		defer close(watchStop)
		err := config.Watch(cfgPath, logger, watchStop, func(next config.Config) {
			logger.SetLevel(logging.ParseLevel(next.Log.Level))
			cache.SetTTL(next.TTL())
		})
		if err != nil {
			logger.Warn("config hot reload disabled", "error", err.Error())
		}
	}

	var chat llm.Client
	if cfg.LLM.APIKey != "" || cfg.LLM.Endpoint != "" {
		chat, err = llm.NewOpenAIClient(llm.OpenAIConfig{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.Endpoint,
			Model:   cfg.LLM.Model,
			Logger:  logger,
		})
		if err != nil {
			log.Fatalf("initializing chat client: %v", err)
		}
	} else {
		logger.Warn("no LLM endpoint or API key configured, chat endpoints disabled")
	}

	var sessions *session.Store
	if cfg.Sessions.Path != "" {
		sessions, err = session.Open(session.DefaultConfig(cfg.Sessions.Path))
		if err != nil {
			log.Fatalf("opening session store: %v", err)
		}
		defer sessions.Close()
	}

	router := gin.Default()
	router.Use(otelgin.Middleware("terradraft-assistant"))
	routes.SetupRoutes(router, handlers.Deps{
		Catalog:   cat,
		Cache:     cache,
		Generator: gen,
		LLM:       chat,
		Sessions:  sessions,
		Log:       logger,
	})

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("assistant listening", "addr", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err.Error())
	}
}
