// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the assistant's configuration from YAML with
// environment overrides, and can watch the file for changes.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/DriftwoodAI/TerraDraft/pkg/logging"
)

// Config is the full assistant configuration.
type Config struct {
	Listen string `yaml:"listen"`

	Registry struct {
		BaseURL    string `yaml:"base_url"`
		CachePath  string `yaml:"cache_path"`
		TTLSeconds int    `yaml:"ttl_seconds"`
	} `yaml:"registry"`

	LLM struct {
		Endpoint string `yaml:"endpoint"`
		Model    string `yaml:"model"`
		APIKey   string `yaml:"api_key"`
	} `yaml:"llm"`

	Sessions struct {
		Path string `yaml:"path"`
	} `yaml:"sessions"`

	OTLPEndpoint string `yaml:"otlp_endpoint"`

	Log struct {
		Level string `yaml:"level"`
		Dir   string `yaml:"dir"`
	} `yaml:"log"`
}

// Default returns the baseline configuration.
func Default() Config {
	var cfg Config
	cfg.Listen = ":8420"
	cfg.Registry.TTLSeconds = 3600
	cfg.LLM.Model = "gpt-4o-mini"
	cfg.Log.Level = "info"
	return cfg
}

// TTL returns the cache TTL as a duration.
func (c Config) TTL() time.Duration {
	return time.Duration(c.Registry.TTLSeconds) * time.Second
}

// Load reads the config file, falling back to defaults when the path is
// empty or the file does not exist, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv layers TERRADRAFT_* environment variables over the file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("TERRADRAFT_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("TERRADRAFT_REGISTRY_URL"); v != "" {
		cfg.Registry.BaseURL = v
	}
	if v := os.Getenv("TERRADRAFT_CACHE_PATH"); v != "" {
		cfg.Registry.CachePath = v
	}
	if v := os.Getenv("TERRADRAFT_CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Registry.TTLSeconds = n
		}
	}
	if v := os.Getenv("TERRADRAFT_LLM_ENDPOINT"); v != "" {
		cfg.LLM.Endpoint = v
	}
	if v := os.Getenv("TERRADRAFT_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("TERRADRAFT_SESSIONS_PATH"); v != "" {
		cfg.Sessions.Path = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTLPEndpoint = v
	}
	if v := os.Getenv("TERRADRAFT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Watch reloads the config whenever the file changes and hands the new
// value to fn. The watcher stops when stop is closed.
func Watch(path string, log *logging.Logger, stop <-chan struct{}, fn func(Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", path, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-stop:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				cfg, err := Load(path)
				if err != nil {
					log.Warn("config reload failed", "path", path, "error", err.Error())
					continue
				}
				log.Info("config reloaded", "path", path)
				fn(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("config watcher error", "error", err.Error())
			}
		}
	}()
	return nil
}
