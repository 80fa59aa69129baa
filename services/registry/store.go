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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/DriftwoodAI/TerraDraft/pkg/logging"
)

// DefaultTTL is how long a cached version is considered fresh.
const DefaultTTL = time.Hour

// Entry is one cached version lookup.
//
// An expired Entry is not evicted; it stays in the store so the Cache
// can fall back to it when a refresh fails.
type Entry struct {
	Source     string    `json:"source"`
	Version    string    `json:"version"`
	FetchedAt  time.Time `json:"fetched_at"`
	TTLSeconds int       `json:"ttl_seconds"`
}

// Fresh reports whether the entry is still within its TTL at the given
// instant. A non-positive TTL means the entry is never fresh.
func (e Entry) Fresh(now time.Time) bool {
	if e.TTLSeconds <= 0 {
		return false
	}
	return now.Sub(e.FetchedAt) < time.Duration(e.TTLSeconds)*time.Second
}

// Store persists version entries to a single human-readable JSON file.
//
// Every mutation rewrites the whole file (the entry population is a few
// hundred modules at most) via a temp-file rename, so a crash mid-write
// never leaves a torn file. All access is serialized by a mutex; a
// Store must be shared, not copied, between goroutines.
type Store struct {
	path string
	log  *logging.Logger

	mu      sync.Mutex
	entries map[string]Entry
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger.
func WithStoreLogger(log *logging.Logger) StoreOption {
	return func(s *Store) { s.log = log }
}

// DefaultCachePath returns the conventional cache file location,
// ~/.cache/terradraft/module_versions.json (or the OS equivalent).
func DefaultCachePath() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolving user cache dir: %w", err)
	}
	return filepath.Join(base, "terradraft", "module_versions.json"), nil
}

// NewStore opens (or creates) the cache file at path.
//
// A missing file yields an empty store. A corrupt file is logged and
// discarded rather than failing startup; the cache is an optimization,
// not a source of truth. Only an unusable parent directory is a hard
// error.
func NewStore(path string, opts ...StoreOption) (*Store, error) {
	s := &Store{
		path:    path,
		log:     logging.Default(),
		entries: make(map[string]Entry),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run.
	case err != nil:
		return nil, fmt.Errorf("reading cache file %s: %w", path, err)
	default:
		if jsonErr := json.Unmarshal(data, &s.entries); jsonErr != nil {
			s.log.Warn("cache file is corrupt, starting empty",
				"path", path, "error", jsonErr.Error())
			s.entries = make(map[string]Entry)
		}
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Get returns the entry for source, expired or not.
func (s *Store) Get(source string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[source]
	return e, ok
}

// Put inserts or replaces an entry and flushes the file.
func (s *Store) Put(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Source] = entry
	return s.flushLocked()
}

// PutAll inserts or replaces several entries with a single flush.
func (s *Store) PutAll(entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.entries[e.Source] = e
	}
	return s.flushLocked()
}

// Delete removes an entry and flushes. Deleting an absent source is a
// no-op with no file write.
func (s *Store) Delete(source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[source]; !ok {
		return nil
	}
	delete(s.entries, source)
	return s.flushLocked()
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entries returns a snapshot of all entries sorted by source.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out
}

// flushLocked writes the whole entry map to disk. Callers hold s.mu.
func (s *Store) flushLocked() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache file: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".module_versions-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing cache file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing cache file: %w", err)
	}
	return nil
}
