// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func TestAppendAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "abc", Message{Role: "user", Content: "I need a VM"}))
	require.NoError(t, s.Append(ctx, "abc", Message{Role: "assistant", Content: "Here is a plan"}))

	sess, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", sess.ID)
	require.Len(t, sess.Messages, 2)
	assert.Equal(t, "user", sess.Messages[0].Role)
	assert.Equal(t, "Here is a plan", sess.Messages[1].Content)
	assert.False(t, sess.Messages[0].Timestamp.IsZero())
	assert.False(t, sess.UpdatedAt.Before(sess.CreatedAt))
}

func TestGetUnknownSession(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppendRequiresID(t *testing.T) {
	s := newTestStore(t)
	assert.Error(t, s.Append(context.Background(), "", Message{Role: "user", Content: "hi"}))
}

func TestHistoryTrimming(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < maxMessages+10; i++ {
		require.NoError(t, s.Append(ctx, "long", Message{
			Role:    "user",
			Content: fmt.Sprintf("message %d", i),
		}))
	}

	sess, err := s.Get(ctx, "long")
	require.NoError(t, err)
	require.Len(t, sess.Messages, maxMessages)
	assert.Equal(t, "message 10", sess.Messages[0].Content, "oldest messages are trimmed")
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "gone", Message{Role: "user", Content: "hi"}))
	require.NoError(t, s.Delete(ctx, "gone"))

	_, err := s.Get(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting twice is fine.
	assert.NoError(t, s.Delete(ctx, "gone"))
}

func TestList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Append(ctx, id, Message{Role: "user", Content: "hi"}))
	}

	ids, err := s.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, ids)
}

func TestConcurrentAppends(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			// Conflicting transactions may retry; per-goroutine
			// sessions keep this deterministic.
			id := fmt.Sprintf("conc-%d", n)
			for j := 0; j < 20; j++ {
				if err := s.Append(ctx, id, Message{Role: "user", Content: "m"}); err != nil {
					t.Errorf("append: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		sess, err := s.Get(ctx, fmt.Sprintf("conc-%d", i))
		require.NoError(t, err)
		assert.Len(t, sess.Messages, 20)
	}
}

func TestCancelledContext(t *testing.T) {
	s := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, s.Append(ctx, "x", Message{Role: "user", Content: "hi"}))
	_, err := s.Get(ctx, "x")
	assert.Error(t, err)
}

func TestPersistence(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig(dir)
	cfg.GCInterval = 0
	cfg.SyncWrites = false

	s, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, s.Append(context.Background(), "keep", Message{
		Role: "user", Content: "survive restart", Timestamp: time.Now(),
	}))
	require.NoError(t, s.Close())

	s, err = Open(cfg)
	require.NoError(t, err)
	defer s.Close()

	sess, err := s.Get(context.Background(), "keep")
	require.NoError(t, err)
	require.Len(t, sess.Messages, 1)
	assert.Equal(t, "survive restart", sess.Messages[0].Content)
}
