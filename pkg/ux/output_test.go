// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetPlain(t *testing.T) {
	orig := Plain()
	defer SetPlain(orig)

	SetPlain(true)
	assert.True(t, Plain())
	SetPlain(false)
	assert.False(t, Plain())
}

func TestIconRender(t *testing.T) {
	// Icons always render their glyph regardless of styling.
	assert.Contains(t, IconSuccess.Render(), "✓")
	assert.Contains(t, IconError.Render(), "✗")
	assert.Contains(t, IconWarning.Render(), "⚠")
	assert.Equal(t, "→", string(IconArrow))
}

func TestSpinnerStartStopPlain(t *testing.T) {
	orig := Plain()
	defer SetPlain(orig)
	SetPlain(true)

	s := NewSpinner("resolving versions")
	s.Start()
	s.Stop()
	// Stop is idempotent.
	s.Stop()
}
