// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ux provides terminal output styling for the TerraDraft CLI.
package ux

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Driftwood color palette - weathered wood, sand, and sea glass
var (
	ColorSand      = lipgloss.Color("#E8D5B7") // Sand - light accents
	ColorDriftwood = lipgloss.Color("#B08D57") // Driftwood brown - brand color
	ColorSeaGlass  = lipgloss.Color("#6FBF9F") // Sea glass green - success
	ColorTide      = lipgloss.Color("#4A90A4") // Tide blue - highlights
	ColorKelp      = lipgloss.Color("#5C6B57") // Kelp - muted text
	ColorAmber     = lipgloss.Color("#F4B860") // Amber - warnings
	ColorCoral     = lipgloss.Color("#E06C5E") // Coral - errors
)

// Styles provides pre-configured lipgloss styles.
var Styles = struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style

	Box      lipgloss.Style
	ErrorBox lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorDriftwood),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorTide),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorKelp),
	Success:   lipgloss.NewStyle().Foreground(ColorSeaGlass),
	Warning:   lipgloss.NewStyle().Foreground(ColorAmber),
	Error:     lipgloss.NewStyle().Foreground(ColorCoral),
	Highlight: lipgloss.NewStyle().Foreground(ColorSand).Bold(true),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDriftwood).
		Padding(0, 1),
	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorCoral).
		Padding(0, 1),
}

// Icon provides themed status icons.
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconArrow   Icon = "→"
	IconBullet  Icon = "•"
)

// Render returns the icon with appropriate styling.
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	default:
		return string(i)
	}
}

// plain suppresses styling and decoration when stdout is not a
// terminal, keeping piped output grep-friendly.
var plain = !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())

// SetPlain forces plain output on or off, overriding TTY detection.
func SetPlain(v bool) { plain = v }

// Plain reports whether styled output is suppressed.
func Plain() bool { return plain }

// Title prints a styled title line.
func Title(text string) {
	if plain {
		fmt.Println(text)
		return
	}
	fmt.Println(Styles.Title.Render(text))
}

// Success prints a success message with checkmark.
func Success(text string) {
	if plain {
		fmt.Fprintf(os.Stdout, "OK: %s\n", text)
		return
	}
	fmt.Printf("%s %s\n", IconSuccess.Render(), Styles.Success.Render(text))
}

// Warning prints a warning message.
func Warning(text string) {
	if plain {
		fmt.Fprintf(os.Stderr, "WARN: %s\n", text)
		return
	}
	fmt.Printf("%s %s\n", IconWarning.Render(), Styles.Warning.Render(text))
}

// Error prints an error message.
func Error(text string) {
	if plain {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", text)
		return
	}
	fmt.Printf("%s %s\n", IconError.Render(), Styles.Error.Render(text))
}

// Info prints an informational message.
func Info(text string) {
	if plain {
		fmt.Println(text)
		return
	}
	fmt.Printf("%s %s\n", Styles.Muted.Render("│"), text)
}

// Muted prints secondary text.
func Muted(text string) {
	if plain {
		fmt.Println(text)
		return
	}
	fmt.Println(Styles.Muted.Render(text))
}

// Box prints text in a rounded box.
func Box(text string) {
	if plain {
		fmt.Println(text)
		return
	}
	fmt.Println(Styles.Box.Render(text))
}
