// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package session persists chat conversation history in an embedded
// BadgerDB so WebSocket reconnects and CLI restarts can resume a
// conversation.
//
// License: BadgerDB is Apache 2.0 licensed (github.com/dgraph-io/badger).
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/DriftwoodAI/TerraDraft/pkg/logging"
)

// ErrNotFound is returned when no session exists for an id.
var ErrNotFound = errors.New("session not found")

const (
	keyPrefix = "session/"

	// maxMessages bounds stored history per session; older messages
	// are trimmed on append.
	maxMessages = 200
)

// Message is one turn of a conversation.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is a stored conversation.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`
}

// Config holds configuration for the session store.
type Config struct {
	// Path is the directory for BadgerDB files. Required unless
	// InMemory is set.
	Path string

	// InMemory enables in-memory mode. Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// GCInterval is how often to run value log garbage collection.
	// 0 disables GC.
	GCInterval time.Duration

	// GCDiscardRatio is the minimum ratio of discardable data before
	// GC rewrites a value log file.
	GCDiscardRatio float64

	// Logger receives store and BadgerDB log output.
	Logger *logging.Logger
}

// DefaultConfig returns production defaults.
func DefaultConfig(path string) Config {
	return Config{
		Path:           path,
		SyncWrites:     true,
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// InMemoryConfig returns a configuration for tests.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts our logger to BadgerDB's Logger interface.
type badgerLogger struct {
	log *logging.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, args...))
}

// Store is a badger-backed session store. Safe for concurrent use.
type Store struct {
	db     *badger.DB
	log    *logging.Logger
	now    func() time.Time
	stopGC chan struct{}
	doneGC chan struct{}
}

// Open opens the store, creating the database directory if needed.
// Callers must Close the store when done.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for a persistent session store")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create session directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)
	opts = opts.WithNumVersionsToKeep(1)
	opts = opts.WithLogger(&badgerLogger{log: cfg.Logger})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}

	s := &Store{
		db:  db,
		log: cfg.Logger,
		now: time.Now,
	}

	if cfg.GCInterval > 0 && !cfg.InMemory {
		s.stopGC = make(chan struct{})
		s.doneGC = make(chan struct{})
		go s.runGC(cfg.GCInterval, cfg.GCDiscardRatio)
	}
	return s, nil
}

// Close stops garbage collection and closes the database.
func (s *Store) Close() error {
	if s.stopGC != nil {
		close(s.stopGC)
		<-s.doneGC
		s.stopGC = nil
	}
	return s.db.Close()
}

func (s *Store) runGC(interval time.Duration, ratio float64) {
	defer close(s.doneGC)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopGC:
			return
		case <-ticker.C:
			err := s.db.RunValueLogGC(ratio)
			if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				s.log.Warn("session store GC error", "error", err.Error())
			}
		}
	}
}

func sessionKey(id string) []byte {
	return []byte(keyPrefix + id)
}

// Append adds a message to a session's history, creating the session
// on first use. History is trimmed to the most recent messages.
func (s *Store) Append(ctx context.Context, id string, msg Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}
	if id == "" {
		return errors.New("session id is required")
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.now()
	}

	return s.db.Update(func(txn *badger.Txn) error {
		sess := Session{ID: id, CreatedAt: msg.Timestamp}

		item, err := txn.Get(sessionKey(id))
		switch {
		case err == nil:
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &sess)
			}); err != nil {
				return fmt.Errorf("decoding session %s: %w", id, err)
			}
		case !errors.Is(err, badger.ErrKeyNotFound):
			return fmt.Errorf("reading session %s: %w", id, err)
		}

		sess.Messages = append(sess.Messages, msg)
		if len(sess.Messages) > maxMessages {
			sess.Messages = sess.Messages[len(sess.Messages)-maxMessages:]
		}
		sess.UpdatedAt = msg.Timestamp

		data, err := json.Marshal(sess)
		if err != nil {
			return fmt.Errorf("encoding session %s: %w", id, err)
		}
		return txn.Set(sessionKey(id), data)
	})
}

// Get returns a session's full history. Returns ErrNotFound when the
// session has never been written.
func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, fmt.Errorf("context cancelled: %w", err)
	}

	var sess Session
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("reading session %s: %w", id, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &sess)
		})
	})
	return sess, err
}

// Delete removes a session. Deleting an unknown session is not an
// error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(sessionKey(id))
	})
}

// List returns the ids of all stored sessions.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{
			Prefix:         []byte(keyPrefix),
			PrefetchValues: false,
		})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			ids = append(ids, string(it.Item().Key()[len(keyPrefix):]))
		}
		return nil
	})
	return ids, err
}
