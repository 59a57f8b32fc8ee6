// Package shell turns raw input lines into argument vectors.
//
// Processing happens in two steps:
//
// 1. Normalize strips the line terminator and surrounding spaces, and detects
// the background marker (&). Anything after the marker is discarded.
//
// 2. A Tokenizer splits the remaining text on runs of the space character.
// Only the space character separates words; tabs are part of a word.
package shell

import "strings"

const (
	// BackgroundMarker requests that the command runs without the shell
	// waiting for it.
	BackgroundMarker = '&'

	lineTerminator = '\n'
	space          = " "
)

// Command is a normalized input line.
type Command struct {
	// Text is the command with the terminator, surrounding spaces and
	// background marker removed.
	Text string
	// Background is set if the line contained a background marker.
	Background bool
}

// Empty returns true if there is nothing to run.
func (c Command) Empty() bool {
	return c.Text == ""
}

// Normalize converts a raw input line into a Command.
//
// A line made up only of a background marker yields an empty Command with
// Background set, callers must still treat it as a no-op.
func Normalize(raw string) Command {
	if end := strings.IndexByte(raw, lineTerminator); end >= 0 {
		raw = raw[:end]
	}

	text := strings.Trim(raw, space)
	if text == "" {
		return Command{}
	}

	var out Command
	if marker := strings.IndexByte(text, BackgroundMarker); marker >= 0 {
		text = strings.TrimRight(text[:marker], space)
		out.Background = true
	}
	out.Text = text
	return out
}
