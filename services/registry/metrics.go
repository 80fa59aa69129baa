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
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "terradraft",
		Subsystem: "version_cache",
		Name:      "hits_total",
		Help:      "Version lookups answered from a fresh cache entry.",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "terradraft",
		Subsystem: "version_cache",
		Name:      "misses_total",
		Help:      "Version lookups that required a registry fetch.",
	})

	staleServes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "terradraft",
		Subsystem: "version_cache",
		Name:      "stale_serves_total",
		Help:      "Lookups answered with an expired entry after a failed refresh.",
	})

	refreshFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "terradraft",
		Subsystem: "version_cache",
		Name:      "refresh_failures_total",
		Help:      "Registry fetch failures by kind.",
	}, []string{"kind"})

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "terradraft",
		Subsystem: "version_cache",
		Name:      "fetch_duration_seconds",
		Help:      "Latency of registry version fetches.",
		Buckets:   prometheus.DefBuckets,
	})
)

// failureKind buckets a client error for the refresh_failures metric.
func failureKind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case IsTimeout(err):
		return "timeout"
	default:
		var malformed *MalformedResponseError
		if errors.As(err, &malformed) {
			return "malformed"
		}
		return "transport"
	}
}
