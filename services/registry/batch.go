// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package registry

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const (
	// DefaultBatchConcurrency bounds parallel registry fetches in one
	// batch. Cache hits are not throttled; only fetches take a slot.
	DefaultBatchConcurrency = 10

	// syncBatchTimeout is the overall deadline GetVersionsSync imposes
	// on its internal context.
	syncBatchTimeout = 2 * time.Minute
)

// BatchOptions tunes a batch resolution.
type BatchOptions struct {
	// TTL overrides the freshness window for every lookup in the batch.
	TTL time.Duration

	// Concurrency caps simultaneous registry fetches. Zero or negative
	// means DefaultBatchConcurrency.
	Concurrency int

	// ForceRefresh forces a registry fetch for every source.
	ForceRefresh bool
}

// GetVersions resolves many sources at once.
//
// The result has exactly one key per unique input source. Sources that
// could not be resolved (registry failure with nothing cached, or an
// unparseable address) map to ""; one bad module never fails the batch.
// Duplicate inputs are collapsed before fan-out, so each source costs
// at most one registry call.
//
// The error return is non-nil only when the environment is broken (an
// unwritable cache file, or the context was cancelled); the map still
// carries whatever was resolved before the failure.
func (c *Cache) GetVersions(ctx context.Context, sources []string, opts BatchOptions) (map[string]string, error) {
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultBatchConcurrency
	}

	results := make(map[string]string, len(sources))
	var mu sync.Mutex

	// Dedupe while preserving one result slot per unique source.
	unique := make([]string, 0, len(sources))
	seen := make(map[string]struct{}, len(sources))
	for _, s := range sources {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		unique = append(unique, s)
	}

	sem := semaphore.NewWeighted(int64(limit))
	g, gctx := errgroup.WithContext(ctx)

	for _, source := range unique {
		if _, err := ParseSource(source); err != nil {
			c.log.Warn("skipping invalid module source in batch", "source", source, "error", err.Error())
			mu.Lock()
			results[source] = ""
			mu.Unlock()
			continue
		}

		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			version, ok, err := c.GetVersion(gctx, source, GetOptions{
				TTL:          opts.TTL,
				ForceRefresh: opts.ForceRefresh,
			})
			if err != nil {
				return err
			}
			mu.Lock()
			if ok {
				results[source] = version
			} else {
				results[source] = ""
			}
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()

	// Guarantee one entry per unique source even after cancellation.
	mu.Lock()
	for _, s := range unique {
		if _, ok := results[s]; !ok {
			results[s] = ""
		}
	}
	mu.Unlock()

	return results, err
}

// GetVersionsSync is the blocking convenience form of GetVersions.
//
// It owns its context (two-minute ceiling) and is safe to call from any
// goroutine, including inside request handlers that are themselves
// running on behalf of another call into this cache; there is no shared
// loop to deadlock. Environment errors are logged rather than returned,
// so the result always has one key per unique source.
func (c *Cache) GetVersionsSync(sources []string, opts BatchOptions) map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), syncBatchTimeout)
	defer cancel()

	results, err := c.GetVersions(ctx, sources, opts)
	if err != nil {
		c.log.Error("batch version resolution failed", "error", err.Error(), "sources", len(sources))
	}
	return results
}
