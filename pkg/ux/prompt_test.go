// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLineTrims(t *testing.T) {
	p := NewPromptReader(strings.NewReader("  hello world  \n"), false)

	line, err := p.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "hello world", line)
}

func TestReadLineEOF(t *testing.T) {
	p := NewPromptReader(strings.NewReader(""), false)

	_, err := p.ReadLine("> ")
	assert.Equal(t, io.EOF, err)
}

func TestReadLineFinalLineWithoutNewline(t *testing.T) {
	p := NewPromptReader(strings.NewReader("last words"), false)

	line, err := p.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "last words", line)
}

func TestReadLineSequence(t *testing.T) {
	p := NewPromptReader(strings.NewReader("one\ntwo\nexit\n"), false)

	for _, want := range []string{"one", "two", "exit"} {
		line, err := p.ReadLine("> ")
		require.NoError(t, err)
		assert.Equal(t, want, line)
	}
	_, err := p.ReadLine("> ")
	assert.Equal(t, io.EOF, err)
}

func TestIsExit(t *testing.T) {
	assert.True(t, IsExit("exit"))
	assert.True(t, IsExit("QUIT"))
	assert.True(t, IsExit("/quit"))
	assert.True(t, IsExit(":q"))
	assert.False(t, IsExit("exited the building"))
	assert.False(t, IsExit(""))
}
