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

	"github.com/DriftwoodAI/TerraDraft/pkg/logging"
	"golang.org/x/sync/singleflight"
)

// Cache resolves module versions with a fresh/stale/refresh policy on
// top of a Store and a Client.
//
// Resolution order for one source:
//
//  1. Fresh cache entry and no forced refresh: return it, zero network.
//  2. Otherwise fetch from the registry (deduplicated per source via
//     singleflight) and persist the result before returning it.
//  3. Fetch failed but an expired entry exists: serve the stale value.
//  4. Fetch failed and nothing is cached: no version, and nothing is
//     written to the store. Failures are never cached.
//
// Registry errors stop here; callers only ever see errors for an
// unusable cache file or a malformed source address. Construct with
// NewCache and share one instance; there is no package-level default.
type Cache struct {
	store  *Store
	client Client
	mu     sync.RWMutex
	ttl    time.Duration
	log    *logging.Logger
	now    func() time.Time
	flight singleflight.Group
}

// CacheOption customizes a Cache.
type CacheOption func(*Cache)

// WithTTL overrides the default freshness window (one hour).
func WithTTL(d time.Duration) CacheOption {
	return func(c *Cache) { c.ttl = d }
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) CacheOption {
	return func(c *Cache) { c.log = log }
}

// WithClock injects the time source. Tests use this to age entries
// without sleeping.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

// NewCache builds a Cache over the given store and client.
func NewCache(store *Store, client Client, opts ...CacheOption) *Cache {
	c := &Cache{
		store:  store,
		client: client,
		ttl:    DefaultTTL,
		log:    logging.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTTL changes the default freshness window at runtime. In-flight
// lookups keep the TTL they started with.
func (c *Cache) SetTTL(d time.Duration) {
	c.mu.Lock()
	c.ttl = d
	c.mu.Unlock()
}

func (c *Cache) defaultTTL() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ttl
}

// GetOptions tunes a single lookup.
type GetOptions struct {
	// TTL overrides the cache-wide freshness window for this lookup.
	// Zero means use the default.
	TTL time.Duration

	// ForceRefresh skips the freshness check and always attempts a
	// registry fetch. Stale fallback still applies if the fetch fails.
	ForceRefresh bool
}

// GetVersion resolves the latest version of source.
//
// The second return is false when no version could be produced at all:
// the registry call failed and nothing was cached. The error return is
// reserved for broken environments (bad source address, unwritable
// cache file); a failing registry is not an error here.
func (c *Cache) GetVersion(ctx context.Context, source string, opts GetOptions) (string, bool, error) {
	src, err := ParseSource(source)
	if err != nil {
		return "", false, err
	}

	ttl := opts.TTL
	if ttl == 0 {
		ttl = c.defaultTTL()
	}

	entry, cached := c.store.Get(source)
	if cached && !opts.ForceRefresh && entry.Fresh(c.now()) {
		cacheHits.Inc()
		return entry.Version, true, nil
	}
	cacheMisses.Inc()

	version, fetchErr := c.refresh(ctx, src, ttl)
	if fetchErr == nil {
		return version, true, nil
	}
	if se := storeErrOf(fetchErr); se != nil {
		return "", false, se
	}

	refreshFailures.WithLabelValues(failureKind(fetchErr)).Inc()

	if cached {
		staleServes.Inc()
		c.log.Warn("registry fetch failed, serving stale version",
			"source", source,
			"version", entry.Version,
			"age_seconds", int(c.now().Sub(entry.FetchedAt).Seconds()),
			"error", fetchErr.Error(),
		)
		return entry.Version, true, nil
	}

	c.log.Warn("registry fetch failed, no cached version",
		"source", source, "error", fetchErr.Error())
	return "", false, nil
}

// refresh performs the registry fetch and cache write for one source.
// Concurrent refreshes of the same source collapse into a single call.
func (c *Cache) refresh(ctx context.Context, src ModuleSource, ttl time.Duration) (string, error) {
	v, err, _ := c.flight.Do(src.String(), func() (any, error) {
		start := time.Now()
		version, fetchErr := c.client.ModuleVersion(ctx, src)
		fetchDuration.Observe(time.Since(start).Seconds())
		if fetchErr != nil {
			return "", fetchErr
		}

		entry := Entry{
			Source:     src.String(),
			Version:    version,
			FetchedAt:  c.now(),
			TTLSeconds: int(ttl / time.Second),
		}
		if putErr := c.store.Put(entry); putErr != nil {
			return "", &storeError{err: putErr}
		}
		return version, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// storeError marks a cache-file write failure so GetVersion can tell it
// apart from registry failures. Only these propagate to callers.
type storeError struct {
	err error
}

func (e *storeError) Error() string { return e.err.Error() }
func (e *storeError) Unwrap() error { return e.err }

func storeErrOf(err error) error {
	if se, ok := err.(*storeError); ok {
		return se.err
	}
	return nil
}
