// Package textlayout breaks scene text into lines that fit a frame.
package textlayout

import "strings"

// Ellipsis is appended to text clipped by Shorten.
const Ellipsis = "…"

// MeasureFunc reports the rendered width of a string in pixels.
type MeasureFunc func(s string) float64

// Wrap splits text into lines no wider than maxWidth, building lines
// greedily word by word. Words are never split: a single word wider than
// maxWidth is placed alone on its own line. Whitespace runs collapse to
// single spaces, so joining the returned lines with spaces reproduces
// the original word sequence.
func Wrap(text string, measure MeasureFunc, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		candidate := line + " " + word
		if measure(candidate) > maxWidth {
			lines = append(lines, line)
			line = word
			continue
		}
		line = candidate
	}
	return append(lines, line)
}

// Shorten returns text unchanged when it fits in maxWidth, otherwise the
// longest prefix that fits with an ellipsis appended.
func Shorten(text string, measure MeasureFunc, maxWidth float64) string {
	if measure(text) <= maxWidth {
		return text
	}
	runes := []rune(strings.TrimSpace(text))
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		clipped := strings.TrimRight(string(runes), " ") + Ellipsis
		if measure(clipped) <= maxWidth {
			return clipped
		}
	}
	return Ellipsis
}
