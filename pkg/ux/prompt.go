// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// PromptReader reads user input lines for interactive REPL loops.
//
// It separates the I/O source from the terminal so tests can drive
// the loop with a strings.Reader.
type PromptReader struct {
	r           *bufio.Reader
	interactive bool
}

// NewPromptReader wraps src for line-oriented reading. interactive
// controls whether prompts are printed before each read.
func NewPromptReader(src io.Reader, interactive bool) *PromptReader {
	return &PromptReader{
		r:           bufio.NewReader(src),
		interactive: interactive,
	}
}

// Interactive reports whether the reader prints prompts.
func (p *PromptReader) Interactive() bool { return p.interactive }

// ReadLine prints the prompt (when interactive) and returns the next
// trimmed input line. io.EOF is returned when the source is exhausted.
func (p *PromptReader) ReadLine(prompt string) (string, error) {
	if p.interactive {
		if plain {
			fmt.Print(prompt)
		} else {
			fmt.Print(Styles.Highlight.Render(prompt))
		}
	}

	line, err := p.r.ReadString('\n')
	if err != nil {
		if err == io.EOF && strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// IsExit reports whether an input line is a quit command.
func IsExit(line string) bool {
	switch strings.ToLower(line) {
	case "exit", "quit", "/quit", ":q":
		return true
	}
	return false
}
