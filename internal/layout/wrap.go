// Package layout wraps free-form text into lines that fit a fixed-width
// region under a measured (non-monospace) width function.
package layout

import "strings"

// MeasureFunc returns the rendered width of s in page units under the
// font the caller draws with.
type MeasureFunc func(s string) float64

// Box is the rectangular message region in page coordinates (origin
// bottom-left, units are PDF points).
type Box struct {
	Left       float64
	Right      float64
	Top        float64
	Bottom     float64
	LineHeight float64
}

// MaxWidth is the horizontal space available to a wrapped line.
func (b Box) MaxWidth() float64 {
	return b.Right - b.Left
}

// MaxLines is the vertical line capacity of the box.
func (b Box) MaxLines() int {
	if b.LineHeight <= 0 {
		return 0
	}
	return int((b.Top - b.Bottom) / b.LineHeight)
}

// Wrap splits message into paragraphs on explicit line breaks and greedily
// word-wraps each paragraph so every emitted line measures below maxWidth.
// A single word wider than maxWidth is emitted alone on its own line; it is
// never split. Empty paragraphs produce no line. Wrapping ignores the
// vertical capacity of the box; truncation happens at draw time.
func Wrap(message string, maxWidth float64, measure MeasureFunc) []string {
	var lines []string
	message = strings.ReplaceAll(message, "\r\n", "\n")
	for _, paragraph := range strings.Split(message, "\n") {
		current := ""
		for _, word := range strings.Fields(paragraph) {
			candidate := current + word + " "
			if measure(candidate) < maxWidth {
				current = candidate
				continue
			}
			if current != "" {
				lines = append(lines, strings.TrimSpace(current))
			}
			current = word + " "
		}
		if current != "" {
			lines = append(lines, strings.TrimSpace(current))
		}
	}
	return lines
}
